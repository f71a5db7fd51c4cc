package repository

import (
	"github.com/google/uuid"
	"github.com/yourusername/edusync-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами сдачи тестов
type ResultRepository interface {
	// CreateWithResponses атомарно сохраняет результат и ответы на вопросы
	// в одной транзакции. При нарушении уникальности (assessment_id, user_id)
	// возвращает apperrors.ErrAlreadySubmitted.
	CreateWithResponses(result *entity.AssessmentResult, responses []entity.QuestionResponse) error
	GetByAssessmentAndUser(assessmentID, userID uuid.UUID) (*entity.AssessmentResult, error)
	ExistsForUser(assessmentID, userID uuid.UUID) (bool, error)
	GetAssessmentResults(assessmentID uuid.UUID, limit, offset int) ([]entity.AssessmentResult, int64, error)
	GetAllAssessmentResults(assessmentID uuid.UUID) ([]entity.AssessmentResult, error)
	GetResponses(resultID uuid.UUID) ([]entity.QuestionResponse, error)
}
