package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// Question представляет один вопрос теста с вариантами ответов.
// Вопросы не имеют собственной таблицы: весь список хранится сериализованным
// в колонке questions таблицы assessments.
type Question struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Marks              int      `json:"marks"`
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOptionIndex
}

// IsValidOption проверяет, является ли выбранный вариант допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}

// QuestionList - пользовательский тип для хранения вопросов в JSONB
type QuestionList []Question

// Scan реализует интерфейс sql.Scanner для QuestionList
// Используется GORM для чтения JSONB данных из базы
func (ql *QuestionList) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*ql = QuestionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*ql = QuestionList{}
		return nil
	}

	return json.Unmarshal(bytes, ql)
}

// Value реализует интерфейс driver.Valuer для QuestionList
// Используется GORM для записи QuestionList в JSONB в базе
func (ql QuestionList) Value() (driver.Value, error) {
	if len(ql) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(ql)
}

// Assessment представляет тест с множественным выбором, привязанный к курсу
type Assessment struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"course_id"`
	Title     string       `gorm:"size:200;not null" json:"title"`
	Questions QuestionList `gorm:"type:jsonb;not null" json:"questions"`
	MaxScore  int          `gorm:"not null;default:0" json:"max_score"`
	// Duration - отведенное на прохождение время в минутах
	Duration  int          `gorm:"not null;default:0" json:"duration"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Assessment) TableName() string {
	return "assessments"
}

// BeforeCreate генерирует UUID первичного ключа, если он не задан
func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// QuestionCount возвращает количество вопросов теста
func (a *Assessment) QuestionCount() int {
	return len(a.Questions)
}

// TotalMarks возвращает сумму баллов за все вопросы
func (a *Assessment) TotalMarks() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Marks
	}
	return total
}

// Validate проверяет корректность содержимого теста.
// Тест пригоден к прохождению, только если список вопросов не пуст,
// каждый вопрос имеет текст и варианты, а ключ указывает на существующий вариант.
func (a *Assessment) Validate() error {
	if a.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", apperrors.ErrValidation)
	}
	if len(a.Questions) == 0 {
		return fmt.Errorf("%w: assessment has no questions", apperrors.ErrValidation)
	}
	for i, q := range a.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has empty text", apperrors.ErrValidation, i)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", apperrors.ErrValidation, i)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d has correct_option_index %d out of range", apperrors.ErrValidation, i, q.CorrectOptionIndex)
		}
		if q.Marks < 0 {
			return fmt.Errorf("%w: question %d has negative marks", apperrors.ErrValidation, i)
		}
	}
	return nil
}

// GradedQuestion содержит оценку одного ответа
type GradedQuestion struct {
	QuestionIndex  int
	SelectedOption int
	IsCorrect      bool
	MarksAwarded   int
}

// GradingOutcome содержит итог проверки всего теста
type GradingOutcome struct {
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Questions      []GradedQuestion
}

// Grade проверяет ответы по позициям: i-й ответ сверяется с i-м вопросом.
// Чистая функция: результат зависит только от вопросов и ответов.
// Выбранный индекс вне диапазона вариантов считается неверным ответом.
func (a *Assessment) Grade(answers []int) (*GradingOutcome, error) {
	if answers == nil {
		return nil, fmt.Errorf("%w: answers cannot be null", apperrors.ErrValidation)
	}
	if len(answers) != len(a.Questions) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d", apperrors.ErrValidation, len(a.Questions), len(answers))
	}

	outcome := &GradingOutcome{
		TotalQuestions: len(a.Questions),
		Questions:      make([]GradedQuestion, 0, len(a.Questions)),
	}

	for i, q := range a.Questions {
		isCorrect := q.IsCorrect(answers[i])
		marks := 0
		if isCorrect {
			marks = q.Marks
			outcome.CorrectAnswers++
		}
		outcome.Score += marks
		outcome.Questions = append(outcome.Questions, GradedQuestion{
			QuestionIndex:  i,
			SelectedOption: answers[i],
			IsCorrect:      isCorrect,
			MarksAwarded:   marks,
		})
	}

	return outcome, nil
}
