package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
	"go.uber.org/zap"
)

// ClickRecorder интерфейс разрешения короткого кода с записью клика
type ClickRecorder interface {
	Resolve(ctx context.Context, event *models.ClickEvent) (string, error)
}

// RecorderOption настраивает clickRecorder
type RecorderOption func(*clickRecorder)

// WithRecorderClock подменяет источник текущего времени
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *clickRecorder) {
		r.now = now
	}
}

// clickRecorder синхронно записывает клик до того, как ответить редиректом
type clickRecorder struct {
	links     LinkService
	clickRepo repository.ClickRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewClickRecorder создаёт новый экземпляр рекордера кликов
func NewClickRecorder(
	links LinkService,
	clickRepo repository.ClickRepository,
	logger *zap.Logger,
	opts ...RecorderOption,
) ClickRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &clickRecorder{
		links:     links,
		clickRepo: clickRepo,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve возвращает целевой URL активной ссылки.
// Lookup -> NotFound | Found -> ExpiryCheck -> Expired | Active -> RecordClick -> URL.
// Для истёкших ссылок клик не записывается.
func (r *clickRecorder) Resolve(ctx context.Context, event *models.ClickEvent) (string, error) {
	link, err := r.links.GetLink(ctx, event.ShortCode)
	if err != nil {
		return "", err
	}

	now := r.now()
	if link.IsExpiredAt(now) {
		r.logger.Debug("Ссылка истекла",
			zap.String("short_code", event.ShortCode),
			zap.Time("expires_at", link.ExpiresAt),
		)
		return "", ErrLinkExpired
	}

	click := &models.Click{
		ShortCode: event.ShortCode,
		Referrer:  event.Referrer,
		SourceIP:  event.SourceIP,
		ClickedAt: now.UTC(),
	}

	if err := r.clickRepo.AppendClick(ctx, click); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return "", ErrLinkNotFound
		}
		r.logger.Error("Не удалось записать клик",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to record click: %w", err)
	}

	return link.OriginalURL, nil
}
