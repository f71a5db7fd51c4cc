package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
)

// QuestionResponseDTO представляет ответ студента на один вопрос
type QuestionResponseDTO struct {
	QuestionIndex  int  `json:"question_index"`
	SelectedOption int  `json:"selected_option"`
	IsCorrect      bool `json:"is_correct"`
	MarksAwarded   int  `json:"marks_awarded"`
}

// ResultResponse представляет результат сдачи теста в формате для ответа клиенту
type ResultResponse struct {
	ID             uuid.UUID             `json:"id"`
	AssessmentID   uuid.UUID             `json:"assessment_id"`
	UserID         uuid.UUID             `json:"user_id"`
	StudentName    string                `json:"student_name,omitempty"`
	StudentEmail   string                `json:"student_email,omitempty"`
	Score          int                   `json:"score"`
	MaxScore       int                   `json:"max_score"`
	CorrectAnswers int                   `json:"correct_answers"`
	TotalQuestions int                   `json:"total_questions"`
	AttemptDate    time.Time             `json:"attempt_date"`
	Responses      []QuestionResponseDTO `json:"responses,omitempty"`
}

// PaginatedResultResponse представляет пагинированный список результатов
type PaginatedResultResponse struct {
	Results []*ResultResponse `json:"results"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// NewResultResponse создает DTO для результата
func NewResultResponse(result *entity.AssessmentResult) *ResultResponse {
	if result == nil {
		return nil
	}

	var responses []QuestionResponseDTO
	if len(result.Responses) > 0 {
		responses = make([]QuestionResponseDTO, len(result.Responses))
		for i, r := range result.Responses {
			responses[i] = QuestionResponseDTO{
				QuestionIndex:  r.QuestionIndex,
				SelectedOption: r.SelectedOption,
				IsCorrect:      r.IsCorrect,
				MarksAwarded:   r.MarksAwarded,
			}
		}
	}

	return &ResultResponse{
		ID:             result.ID,
		AssessmentID:   result.AssessmentID,
		UserID:         result.UserID,
		Score:          result.Score,
		MaxScore:       result.MaxScore,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		AttemptDate:    result.AttemptDate,
		Responses:      responses,
	}
}

// NewResultWithStudentResponse создает DTO результата с данными студента
func NewResultWithStudentResponse(result *entity.AssessmentResult, studentName, studentEmail string) *ResultResponse {
	resp := NewResultResponse(result)
	if resp == nil {
		return nil
	}
	resp.StudentName = studentName
	resp.StudentEmail = studentEmail
	return resp
}

// NewPaginatedResultResponse создает пагинированный DTO списка результатов
func NewPaginatedResultResponse(results []*ResultResponse, total int64, page, perPage int) *PaginatedResultResponse {
	return &PaginatedResultResponse{
		Results: results,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
