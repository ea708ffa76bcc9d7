package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
)

// Константы генератора
const (
	codeBytes           = 3  // 3 байта = 6 hex-символов
	maxAllocateAttempts = 20 // Предел повторов при коллизиях
)

// ShortCodeAllocator выбирает короткий код и сохраняет ссылку под ним.
// Проверка уникальности и вставка выполняются одной операцией: решает
// UNIQUE-ограничение хранилища, а не предварительный SELECT.
type ShortCodeAllocator struct {
	linkRepo    repository.LinkRepository
	random      io.Reader
	maxAttempts int
}

// NewShortCodeAllocator создаёт аллокатор на криптостойком источнике случайности
func NewShortCodeAllocator(linkRepo repository.LinkRepository) *ShortCodeAllocator {
	return &ShortCodeAllocator{
		linkRepo:    linkRepo,
		random:      rand.Reader,
		maxAttempts: maxAllocateAttempts,
	}
}

// WithRandomSource подменяет источник случайности (для тестов)
func (a *ShortCodeAllocator) WithRandomSource(r io.Reader) *ShortCodeAllocator {
	a.random = r
	return a
}

// Allocate сохраняет ссылку под запрошенным кодом либо под сгенерированным.
// Запрошенный код не нормализуется; при конфликте возвращается ErrShortCodeTaken.
func (a *ShortCodeAllocator) Allocate(ctx context.Context, link *models.Link, requested string) error {
	if requested != "" {
		link.ShortCode = requested
		if err := a.linkRepo.Create(ctx, link); err != nil {
			if errors.Is(err, repository.ErrCodeExists) {
				return ErrShortCodeTaken
			}
			return err
		}
		return nil
	}

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		code, err := a.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate code: %w", err)
		}

		link.ShortCode = code
		err = a.linkRepo.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrCodeExists) {
			return err
		}
	}

	link.ShortCode = ""
	return ErrShortCodeExhausted
}

// Generate возвращает случайный код из 6 шестнадцатеричных символов в нижнем регистре
func (a *ShortCodeAllocator) Generate() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := io.ReadFull(a.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
