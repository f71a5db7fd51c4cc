package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// AssessmentRepo реализует repository.AssessmentRepository
type AssessmentRepo struct {
	db *gorm.DB
}

// NewAssessmentRepo создает новый репозиторий тестов
func NewAssessmentRepo(db *gorm.DB) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

// Create создает новый тест
func (r *AssessmentRepo) Create(assessment *entity.Assessment) error {
	return r.db.Create(assessment).Error
}

// GetByID возвращает тест по ID вместе с сериализованными вопросами
func (r *AssessmentRepo) GetByID(id uuid.UUID) (*entity.Assessment, error) {
	var assessment entity.Assessment
	err := r.db.Where("id = ?", id).First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

// List возвращает тесты с пагинацией и общим количеством
func (r *AssessmentRepo) List(limit, offset int) ([]entity.Assessment, int64, error) {
	var assessments []entity.Assessment
	var total int64

	if err := r.db.Model(&entity.Assessment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&assessments).Error
	if err != nil {
		return nil, 0, err
	}

	return assessments, total, nil
}

// ListByCourse возвращает все тесты курса
func (r *AssessmentRepo) ListByCourse(courseID uuid.UUID) ([]entity.Assessment, error) {
	var assessments []entity.Assessment
	err := r.db.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&assessments).Error
	// Пустой слайс - валидный результат
	return assessments, err
}
