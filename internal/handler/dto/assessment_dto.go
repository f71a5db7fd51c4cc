package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
)

// QuestionView представляет вопрос в формате для прохождения теста.
// Правильный вариант в это представление не попадает.
type QuestionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Marks   int      `json:"marks"`
}

// QuestionFull представляет вопрос со всеми полями, включая правильный вариант.
// Используется только в ответах для преподавателей.
type QuestionFull struct {
	Index              int      `json:"index"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Marks              int      `json:"marks"`
}

// AssessmentResponse представляет тест в формате для ответа клиенту
type AssessmentResponse struct {
	ID            uuid.UUID      `json:"id"`
	CourseID      uuid.UUID      `json:"course_id"`
	Title         string         `json:"title"`
	QuestionCount int            `json:"question_count"`
	MaxScore      int            `json:"max_score"`
	Duration      int            `json:"duration"`
	Questions     []QuestionView `json:"questions,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AssessmentDetailResponse представляет тест с ключами ответов для преподавателя
type AssessmentDetailResponse struct {
	ID            uuid.UUID      `json:"id"`
	CourseID      uuid.UUID      `json:"course_id"`
	Title         string         `json:"title"`
	QuestionCount int            `json:"question_count"`
	MaxScore      int            `json:"max_score"`
	Duration      int            `json:"duration"`
	Questions     []QuestionFull `json:"questions"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewAssessmentResponse создает DTO теста без ключей ответов.
// includeQuestions управляет включением вопросов (списки идут без них).
func NewAssessmentResponse(assessment *entity.Assessment, includeQuestions bool) *AssessmentResponse {
	if assessment == nil {
		return nil
	}

	var questions []QuestionView
	if includeQuestions {
		questions = make([]QuestionView, len(assessment.Questions))
		for i, q := range assessment.Questions {
			questions[i] = QuestionView{
				Index:   i,
				Text:    q.Text,
				Options: q.Options,
				Marks:   q.Marks,
			}
		}
	}

	return &AssessmentResponse{
		ID:            assessment.ID,
		CourseID:      assessment.CourseID,
		Title:         assessment.Title,
		QuestionCount: assessment.QuestionCount(),
		MaxScore:      assessment.MaxScore,
		Duration:      assessment.Duration,
		Questions:     questions,
		CreatedAt:     assessment.CreatedAt,
	}
}

// NewAssessmentDetailResponse создает DTO теста с правильными вариантами
func NewAssessmentDetailResponse(assessment *entity.Assessment) *AssessmentDetailResponse {
	if assessment == nil {
		return nil
	}

	questions := make([]QuestionFull, len(assessment.Questions))
	for i, q := range assessment.Questions {
		questions[i] = QuestionFull{
			Index:              i,
			Text:               q.Text,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			Marks:              q.Marks,
		}
	}

	return &AssessmentDetailResponse{
		ID:            assessment.ID,
		CourseID:      assessment.CourseID,
		Title:         assessment.Title,
		QuestionCount: assessment.QuestionCount(),
		MaxScore:      assessment.MaxScore,
		Duration:      assessment.Duration,
		Questions:     questions,
		CreatedAt:     assessment.CreatedAt,
	}
}

// NewListAssessmentResponse создает слайс DTO для списка тестов
func NewListAssessmentResponse(assessments []entity.Assessment) []*AssessmentResponse {
	list := make([]*AssessmentResponse, len(assessments))
	for i := range assessments {
		// Вопросы в список не включаются
		list[i] = NewAssessmentResponse(&assessments[i], false)
	}
	return list
}
