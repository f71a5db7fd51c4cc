package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	"github.com/yourusername/edusync-api/internal/domain/repository"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// AssessmentService предоставляет методы для работы с тестами
type AssessmentService struct {
	assessmentRepo repository.AssessmentRepository
	courseRepo     repository.CourseRepository
	resultRepo     repository.ResultRepository
}

// NewAssessmentService создает новый сервис тестов
func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	courseRepo repository.CourseRepository,
	resultRepo repository.ResultRepository,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
		resultRepo:     resultRepo,
	}
}

// CreateAssessment создает новый тест с вопросами.
// MaxScore вычисляется как сумма баллов вопросов, клиентское значение игнорируется.
// duration - отведенное на прохождение время в минутах.
func (s *AssessmentService) CreateAssessment(courseID uuid.UUID, title string, duration int, questions []entity.Question) (*entity.Assessment, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	// Курс должен существовать
	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return nil, fmt.Errorf("course %s: %w", courseID, err)
	}

	assessment := &entity.Assessment{
		CourseID:  courseID,
		Title:     title,
		Duration:  duration,
		Questions: entity.QuestionList(questions),
	}
	if err := assessment.Validate(); err != nil {
		return nil, err
	}
	assessment.MaxScore = assessment.TotalMarks()

	if err := s.assessmentRepo.Create(assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	log.Printf("[AssessmentService] Создан тест ID=%s (%q), вопросов: %d, максимум баллов: %d",
		assessment.ID, assessment.Title, assessment.QuestionCount(), assessment.MaxScore)
	return assessment, nil
}

// GetAssessment возвращает тест по ID
func (s *AssessmentService) GetAssessment(assessmentID uuid.UUID) (*entity.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, err)
	}
	return assessment, nil
}

// ListAssessments возвращает тесты с пагинацией
func (s *AssessmentService) ListAssessments(page, pageSize int) ([]entity.Assessment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	assessments, total, err := s.assessmentRepo.List(pageSize, offset)
	if err != nil {
		log.Printf("[AssessmentService] Ошибка при получении списка тестов (page %d, size %d): %v", page, pageSize, err)
		return nil, 0, err
	}
	return assessments, total, nil
}

// StartAssessment проверяет готовность теста к прохождению студентом.
// Операция только читает: запись о попытке не создается.
// Возвращает тест, если:
//   - тест существует (иначе ErrNotFound),
//   - студент его еще не сдавал (иначе ErrAlreadySubmitted),
//   - содержимое теста корректно (иначе ErrValidation).
func (s *AssessmentService) StartAssessment(assessmentID, userID uuid.UUID) (*entity.Assessment, error) {
	assessment, err := s.assessmentRepo.GetByID(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("assessment %s: %w", assessmentID, err)
	}

	exists, err := s.resultRepo.ExistsForUser(assessmentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing result: %w", err)
	}
	if exists {
		log.Printf("[AssessmentService] Пользователь %s уже сдавал тест %s", userID, assessmentID)
		return nil, fmt.Errorf("%w: you have already submitted this assessment", apperrors.ErrAlreadySubmitted)
	}

	if err := assessment.Validate(); err != nil {
		log.Printf("[AssessmentService] Тест %s непригоден к прохождению: %v", assessmentID, err)
		return nil, err
	}

	return assessment, nil
}
