package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssessmentResult представляет итоговый результат сдачи теста.
// Композитный уникальный индекс (assessment_id, user_id) гарантирует
// не более одной сдачи на пользователя даже при конкурентных запросах.
type AssessmentResult struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssessmentID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_assessment_user" json:"assessment_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_assessment_user" json:"user_id"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	// MaxScore фиксируется из теста в момент сдачи. Последующие правки
	// теста не меняют уже записанные результаты.
	MaxScore       int       `gorm:"not null;default:0" json:"max_score"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	AttemptDate    time.Time `gorm:"not null" json:"attempt_date"`

	// Ответы на вопросы, удаляются каскадно вместе с результатом
	Responses []QuestionResponse `gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (AssessmentResult) TableName() string {
	return "assessment_results"
}

// BeforeCreate генерирует UUID первичного ключа, если он не задан
func (r *AssessmentResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// QuestionResponse представляет ответ на один вопрос в рамках результата.
// QuestionIndex соответствует позиции вопроса в тесте (0..N-1, без пропусков).
type QuestionResponse struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResultID       uuid.UUID `gorm:"type:uuid;not null;index" json:"result_id"`
	QuestionIndex  int       `gorm:"not null" json:"question_index"`
	SelectedOption int       `gorm:"not null" json:"selected_option"`
	IsCorrect      bool      `gorm:"not null;default:false" json:"is_correct"`
	MarksAwarded   int       `gorm:"not null;default:0" json:"marks_awarded"`
}

// TableName определяет имя таблицы для GORM
func (QuestionResponse) TableName() string {
	return "question_responses"
}

// BeforeCreate генерирует UUID первичного ключа, если он не задан
func (qr *QuestionResponse) BeforeCreate(tx *gorm.DB) error {
	if qr.ID == uuid.Nil {
		qr.ID = uuid.New()
	}
	return nil
}
