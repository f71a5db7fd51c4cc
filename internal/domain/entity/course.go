package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course представляет учебный курс, к которому привязаны тесты
type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"size:1000;not null;default:''" json:"description"`
	InstructorID uuid.UUID `gorm:"type:uuid;not null;index" json:"instructor_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Course) TableName() string {
	return "courses"
}

// BeforeCreate генерирует UUID первичного ключа, если он не задан
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
