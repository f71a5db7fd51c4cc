package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// CourseRepo реализует repository.CourseRepository
type CourseRepo struct {
	db *gorm.DB
}

// NewCourseRepo создает новый репозиторий курсов
func NewCourseRepo(db *gorm.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create создает новый курс
func (r *CourseRepo) Create(course *entity.Course) error {
	return r.db.Create(course).Error
}

// GetByID возвращает курс по ID
func (r *CourseRepo) GetByID(id uuid.UUID) (*entity.Course, error) {
	var course entity.Course
	err := r.db.Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}
