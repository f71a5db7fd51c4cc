package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	"github.com/yourusername/edusync-api/internal/domain/repository"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// SubmissionService отвечает за прием и оценку сдачи тестов
type SubmissionService struct {
	assessmentRepo repository.AssessmentRepository
	resultRepo     repository.ResultRepository
	userRepo       repository.UserRepository
	emailService   EmailService
}

// NewSubmissionService создает новый сервис сдачи тестов
func NewSubmissionService(
	assessmentRepo repository.AssessmentRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
) *SubmissionService {
	return &SubmissionService{
		assessmentRepo: assessmentRepo,
		resultRepo:     resultRepo,
		userRepo:       userRepo,
		emailService:   emailService,
	}
}

// Submit принимает ответы студента, оценивает их и фиксирует результат.
// Порядок проверок:
//  1. тест существует (иначе ErrNotFound);
//  2. ответы корректны по форме: не nil, длина равна числу вопросов (иначе ErrValidation);
//  3. студент еще не сдавал тест (иначе ErrAlreadySubmitted);
//  4. оценка чистой функцией Grade;
//  5. шапка результата и ответы сохраняются в одной транзакции.
//
// Предварительная проверка дубля (шаг 3) дает понятную ошибку в обычном
// случае; при гонке двух конкурентных submit уникальный индекс БД
// гарантирует, что зафиксируется ровно один результат.
func (s *SubmissionService) Submit(assessmentID, userID uuid.UUID, answers []int) (*entity.AssessmentResult, error) {
	assessment, err := s.assessmentRepo.GetByID(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, err)
	}

	outcome, err := assessment.Grade(answers)
	if err != nil {
		// Форма ответов неверна, ничего не пишем
		return nil, err
	}

	exists, err := s.resultRepo.ExistsForUser(assessmentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing result: %w", err)
	}
	if exists {
		log.Printf("[SubmissionService] Повторная сдача: пользователь %s, тест %s", userID, assessmentID)
		return nil, fmt.Errorf("%w: you have already submitted this assessment", apperrors.ErrAlreadySubmitted)
	}

	result := &entity.AssessmentResult{
		AssessmentID: assessmentID,
		UserID:       userID,
		Score:        outcome.Score,
		// Максимум фиксируется на момент сдачи: правка теста задним
		// числом не должна менять записанные результаты
		MaxScore:       assessment.MaxScore,
		TotalQuestions: outcome.TotalQuestions,
		CorrectAnswers: outcome.CorrectAnswers,
		AttemptDate:    time.Now(),
	}

	responses := make([]entity.QuestionResponse, 0, len(outcome.Questions))
	for _, gq := range outcome.Questions {
		responses = append(responses, entity.QuestionResponse{
			QuestionIndex:  gq.QuestionIndex,
			SelectedOption: gq.SelectedOption,
			IsCorrect:      gq.IsCorrect,
			MarksAwarded:   gq.MarksAwarded,
		})
	}

	if err := s.resultRepo.CreateWithResponses(result, responses); err != nil {
		if errors.Is(err, apperrors.ErrAlreadySubmitted) {
			// Проиграли гонку конкурентному submit
			return nil, fmt.Errorf("%w: you have already submitted this assessment", apperrors.ErrAlreadySubmitted)
		}
		log.Printf("[SubmissionService] Ошибка сохранения результата пользователя %s для теста %s: %v", userID, assessmentID, err)
		return nil, fmt.Errorf("%w: failed to record result: %v", apperrors.ErrInternal, err)
	}
	result.Responses = responses

	log.Printf("[SubmissionService] Пользователь %s сдал тест %s: %d/%d баллов, верных ответов %d из %d",
		userID, assessmentID, result.Score, result.MaxScore, result.CorrectAnswers, result.TotalQuestions)

	// Уведомление отправляется после коммита и не влияет на результат запроса
	s.notifyResult(assessment, result)

	return result, nil
}

// notifyResult асинхронно отправляет студенту письмо с итогом сдачи
func (s *SubmissionService) notifyResult(assessment *entity.Assessment, result *entity.AssessmentResult) {
	if s.emailService == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.userRepo.GetByID(result.UserID)
		if err != nil {
			log.Printf("[SubmissionService] Не удалось получить пользователя %s для уведомления: %v", result.UserID, err)
			return
		}

		// ID результата как idempotency key защищает от повторной отправки при ретраях
		if err := s.emailService.SendResultSummary(ctx, user.Email, assessment.Title, result.Score, result.MaxScore, result.ID.String()); err != nil {
			log.Printf("[SubmissionService] Не удалось отправить уведомление о результате %s: %v", result.ID, err)
		}
	}()
}
