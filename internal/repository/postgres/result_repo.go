package postgres

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// CreateWithResponses атомарно сохраняет результат и ответы на вопросы.
// Шапка результата и строки ответов пишутся в одной транзакции: либо
// коммитятся все записи, либо ни одной.
// Уникальный индекс idx_assessment_user служит последней линией защиты от
// двойной сдачи: при конкурентной вставке проигравшая транзакция получает
// 23505 и транслируется в ErrAlreadySubmitted.
func (r *ResultRepo) CreateWithResponses(result *entity.AssessmentResult, responses []entity.QuestionResponse) error {
	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during CreateWithResponses transaction: %v", rec)
		}
	}()

	if tx.Error != nil {
		log.Printf("Error starting transaction in CreateWithResponses: %v", tx.Error)
		return tx.Error
	}

	if err := tx.Create(result).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			log.Printf("[ResultRepo] Пользователь %s уже сдавал тест %s (определено по DB unique constraint)",
				result.UserID, result.AssessmentID)
			return fmt.Errorf("%w: user %s", apperrors.ErrAlreadySubmitted, result.UserID)
		}
		log.Printf("Error saving result in transaction: %v", err)
		return fmt.Errorf("failed to save result: %w", err)
	}

	for i := range responses {
		responses[i].ResultID = result.ID
	}
	if len(responses) > 0 {
		if err := tx.Create(&responses).Error; err != nil {
			tx.Rollback()
			log.Printf("Error saving question responses in transaction: %v", err)
			return fmt.Errorf("failed to save question responses: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction in CreateWithResponses: %v", err)
		return err
	}

	return nil
}

// GetByAssessmentAndUser возвращает результат пользователя для конкретного теста
func (r *ResultRepo) GetByAssessmentAndUser(assessmentID, userID uuid.UUID) (*entity.AssessmentResult, error) {
	var result entity.AssessmentResult
	err := r.db.Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// ExistsForUser проверяет, есть ли у пользователя результат для теста
func (r *ResultRepo) ExistsForUser(assessmentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&entity.AssessmentResult{}).
		Where("assessment_id = ? AND user_id = ?", assessmentID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetAssessmentResults возвращает результаты теста с пагинацией и общим количеством
func (r *ResultRepo) GetAssessmentResults(assessmentID uuid.UUID, limit, offset int) ([]entity.AssessmentResult, int64, error) {
	var results []entity.AssessmentResult
	var total int64

	// Транзакция для согласованности чтения данных и общего количества
	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	err := tx.Model(&entity.AssessmentResult{}).Where("assessment_id = ?", assessmentID).Count(&total).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	err = tx.Where("assessment_id = ?", assessmentID).
		Order("score DESC, attempt_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetAllAssessmentResults возвращает ВСЕ результаты теста без пагинации.
// Используется для экспорта отчетов.
func (r *ResultRepo) GetAllAssessmentResults(assessmentID uuid.UUID) ([]entity.AssessmentResult, error) {
	var results []entity.AssessmentResult
	err := r.db.Where("assessment_id = ?", assessmentID).
		Order("score DESC, attempt_date ASC").
		Find(&results).Error
	// Пустой слайс - валидный результат
	return results, err
}

// GetResponses возвращает ответы на вопросы для результата в порядке вопросов
func (r *ResultRepo) GetResponses(resultID uuid.UUID) ([]entity.QuestionResponse, error) {
	var responses []entity.QuestionResponse
	err := r.db.Where("result_id = ?", resultID).
		Order("question_index ASC").
		Find(&responses).Error
	return responses, err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
