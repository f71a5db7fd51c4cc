package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yourusername/edusync-api/internal/domain/entity"
	apperrors "github.com/yourusername/edusync-api/internal/pkg/errors"
)

// JWTCustomClaims содержит пользовательские поля для токена.
// Идентичность (UserID, Role) читается обработчиками только из проверенных
// claims, никогда из тела запроса.
type JWTCustomClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTService предоставляет методы для работы с JWT
type JWTService struct {
	secret        []byte
	expirationHrs int
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secret string, expirationHrs int) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24 // По умолчанию 24 часа
	}
	return &JWTService{
		secret:        []byte(secret),
		expirationHrs: expirationHrs,
	}, nil
}

// GenerateToken создает новый JWT токен для пользователя
func (s *JWTService) GenerateToken(user *entity.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(s.expirationHrs))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "edusync-api",
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"edusync-user"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%s: %v", user.ID, err)
		return "", err
	}

	return tokenString, nil
}

// ParseToken проверяет и расшифровывает JWT токен
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи токена
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.Printf("[JWT] Неожиданный метод подписи: %v", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				log.Printf("[JWT] Ошибка: Токен имеет неверный формат")
				return nil, fmt.Errorf("%w: token is malformed", apperrors.ErrUnauthorized)
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				log.Printf("[JWT] Ошибка: Истек срок действия токена для пользователя ID=%s", claims.UserID)
				return nil, apperrors.ErrExpiredToken
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				log.Printf("[JWT] Ошибка: Неверная подпись токена")
				return nil, fmt.Errorf("%w: signature is invalid", apperrors.ErrUnauthorized)
			default:
				log.Printf("[JWT] Ошибка при разборе токена: %v", err)
				return nil, fmt.Errorf("%w: token validation failed", apperrors.ErrUnauthorized)
			}
		}
		log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}

	return claims, nil
}
