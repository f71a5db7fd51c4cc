package repository

import (
	"github.com/google/uuid"
	"github.com/yourusername/edusync-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uuid.UUID) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByIDs(ids []uuid.UUID) ([]entity.User, error)
}
