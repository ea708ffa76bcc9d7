package service

import (
	"errors"

	"github.com/SergeiKhy/shorturl-service/internal/models"
)

// Ошибки сервиса
var (
	ErrInvalidURL         = errors.New("невалидный URL")
	ErrInvalidValidity    = errors.New("невалидный срок действия ссылки")
	ErrShortCodeTaken     = errors.New("короткий код уже занят")
	ErrShortCodeExhausted = errors.New("не удалось сгенерировать уникальный короткий код")
	ErrLinkNotFound       = errors.New("ссылка не найдена")
	ErrLinkExpired        = errors.New("срок действия ссылки истёк")
	ErrForbidden          = errors.New("доступ к статистике запрещён")

	ErrInvalidRegistration = errors.New("не заполнены обязательные поля регистрации")
	ErrAlreadyRegistered   = errors.New("пользователь уже зарегистрирован")
	ErrInvalidCredentials  = errors.New("неверные учётные данные")
)

// AlreadyRegisteredError несёт публичные поля существующего пользователя
type AlreadyRegisteredError struct {
	User *models.User
}

func (e *AlreadyRegisteredError) Error() string {
	return ErrAlreadyRegistered.Error()
}

func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}
