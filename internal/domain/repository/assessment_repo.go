package repository

import (
	"github.com/google/uuid"
	"github.com/yourusername/edusync-api/internal/domain/entity"
)

// AssessmentRepository определяет методы для работы с тестами
type AssessmentRepository interface {
	Create(assessment *entity.Assessment) error
	GetByID(id uuid.UUID) (*entity.Assessment, error)
	List(limit, offset int) ([]entity.Assessment, int64, error)
	ListByCourse(courseID uuid.UUID) ([]entity.Assessment, error)
}
