package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	"github.com/yourusername/edusync-api/internal/domain/repository"
)

// ResultService предоставляет методы для чтения результатов сдачи тестов
type ResultService struct {
	resultRepo repository.ResultRepository
	userRepo   repository.UserRepository
}

// ResultWithStudent объединяет результат с данными студента для отчетов
type ResultWithStudent struct {
	entity.AssessmentResult
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.ResultRepository, userRepo repository.UserRepository) *ResultService {
	return &ResultService{
		resultRepo: resultRepo,
		userRepo:   userRepo,
	}
}

// GetUserResult возвращает результат пользователя для теста вместе с ответами
func (s *ResultService) GetUserResult(assessmentID, userID uuid.UUID) (*entity.AssessmentResult, error) {
	result, err := s.resultRepo.GetByAssessmentAndUser(assessmentID, userID)
	if err != nil {
		return nil, err
	}

	responses, err := s.resultRepo.GetResponses(result.ID)
	if err != nil {
		log.Printf("[ResultService] Ошибка при получении ответов для результата %s: %v", result.ID, err)
		return nil, err
	}
	result.Responses = responses

	return result, nil
}

// GetAssessmentResults возвращает пагинированный список результатов теста
// с именами студентов
func (s *ResultService) GetAssessmentResults(assessmentID uuid.UUID, page, pageSize int) ([]ResultWithStudent, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	results, total, err := s.resultRepo.GetAssessmentResults(assessmentID, pageSize, offset)
	if err != nil {
		log.Printf("[ResultService] Ошибка при получении результатов теста %s (page %d, size %d): %v", assessmentID, page, pageSize, err)
		return nil, 0, err
	}

	withStudents, err := s.attachStudents(results)
	if err != nil {
		return nil, 0, err
	}
	return withStudents, total, nil
}

// GetAssessmentResultsAll возвращает ВСЕ результаты теста с именами студентов.
// Используется для экспорта отчетов.
func (s *ResultService) GetAssessmentResultsAll(assessmentID uuid.UUID) ([]ResultWithStudent, error) {
	results, err := s.resultRepo.GetAllAssessmentResults(assessmentID)
	if err != nil {
		log.Printf("[ResultService] Ошибка при получении всех результатов теста %s: %v", assessmentID, err)
		return nil, err
	}
	return s.attachStudents(results)
}

// attachStudents подставляет имена и email студентов одним запросом
func (s *ResultService) attachStudents(results []entity.AssessmentResult) ([]ResultWithStudent, error) {
	ids := make([]uuid.UUID, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.UserID)
	}

	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	byID := make(map[uuid.UUID]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]ResultWithStudent, 0, len(results))
	for _, r := range results {
		rw := ResultWithStudent{AssessmentResult: r}
		if u, ok := byID[r.UserID]; ok {
			rw.StudentName = u.Name
			rw.StudentEmail = u.Email
		}
		out = append(out, rw)
	}
	return out, nil
}
