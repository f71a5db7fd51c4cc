package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	"github.com/yourusername/edusync-api/internal/domain/repository"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
	"github.com/yourusername/edusync-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и аутентификации пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // student или instructor
}

// AuthResponse содержит данные для ответа на запрос авторизации
type AuthResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterUser регистрирует нового пользователя и сразу выдает токен
func (s *AuthService) RegisterUser(input RegisterInput) (*AuthResponse, error) {
	// Нормализуем
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	if input.Role == "" {
		input.Role = entity.RoleStudent
	}
	if !entity.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, input.Role)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password, // Хешируется в BeforeSave
		Role:     input.Role,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Уникальный индекс по email мог сработать при гонке двух регистраций
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации токена для пользователя ID=%s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован новый пользователь ID=%s (%s), роль=%s", user.ID, user.Email, user.Role)
	return &AuthResponse{User: user, Token: token}, nil
}

// LoginUser аутентифицирует пользователя и возвращает токен
func (s *AuthService) LoginUser(email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, существует ли email
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя %s", email)
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации токена для пользователя ID=%s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%s (%s) успешно вошел в систему", user.ID, user.Email)
	return &AuthResponse{User: user, Token: token}, nil
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
