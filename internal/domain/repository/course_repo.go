package repository

import (
	"github.com/google/uuid"
	"github.com/yourusername/edusync-api/internal/domain/entity"
)

// CourseRepository определяет методы для работы с курсами
type CourseRepository interface {
	Create(course *entity.Course) error
	GetByID(id uuid.UUID) (*entity.Course, error)
}
