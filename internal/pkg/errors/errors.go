package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен доступа истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, дубликат email при регистрации).
	ErrConflict = errors.New("resource state conflict")

	// ErrAlreadySubmitted используется, когда студент пытается повторно сдать тест.
	// Выделена из ErrConflict, т.к. клиент ожидает 400, а не 409.
	ErrAlreadySubmitted = errors.New("assessment already submitted")

	// ErrInternal используется для ошибок персистентности и прочих внутренних сбоев.
	ErrInternal = errors.New("internal error")
)
