package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
	"go.uber.org/zap"
)

// Константы сервиса
const (
	defaultValidityMinutes = 30
	maxValidityMinutes     = 365 * 24 * 60
	maxCacheTTL            = 24 * time.Hour
)

// LinkService интерфейс сервиса ссылок
type LinkService interface {
	CreateLink(ctx context.Context, ownerID string, input *models.CreateLinkInput) (*models.Link, error)
	GetLink(ctx context.Context, code string) (*models.Link, error)
	GetStats(ctx context.Context, code, callerID string) (*models.LinkStats, error)
}

// LinkOption настраивает linkService
type LinkOption func(*linkService)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) LinkOption {
	return func(s *linkService) {
		s.now = now
	}
}

// WithOwnerOnlyStats ограничивает чтение статистики владельцем ссылки
func WithOwnerOnlyStats(ownerOnly bool) LinkOption {
	return func(s *linkService) {
		s.ownerOnlyStats = ownerOnly
	}
}

// WithAllocator подменяет аллокатор коротких кодов
func WithAllocator(allocator *ShortCodeAllocator) LinkOption {
	return func(s *linkService) {
		s.allocator = allocator
	}
}

// linkService реализация сервиса ссылок
type linkService struct {
	linkRepo       repository.LinkRepository
	clickRepo      repository.ClickRepository
	cacheRepo      repository.CacheRepository
	allocator      *ShortCodeAllocator
	logger         *zap.Logger
	now            func() time.Time
	ownerOnlyStats bool
}

// NewLinkService создаёт новый экземпляр сервиса
func NewLinkService(
	linkRepo repository.LinkRepository,
	clickRepo repository.ClickRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	opts ...LinkOption,
) LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &linkService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		cacheRepo: cacheRepo,
		allocator: NewShortCodeAllocator(linkRepo),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateLink создаёт новую короткую ссылку от имени ownerID
func (s *linkService) CreateLink(ctx context.Context, ownerID string, input *models.CreateLinkInput) (*models.Link, error) {
	// Валидация URL
	if err := validateURL(input.OriginalURL); err != nil {
		return nil, err
	}

	// Срок действия в минутах
	validity, err := resolveValidity(input.Validity)
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC().Truncate(time.Millisecond)
	link := &models.Link{
		OriginalURL:     input.OriginalURL,
		OwnerID:         ownerID,
		ValidityMinutes: validity,
		CreatedAt:       createdAt,
		ExpiresAt:       createdAt.Add(time.Duration(validity) * time.Minute),
	}

	requested := ""
	if input.CustomCode != nil {
		requested = *input.CustomCode
	}

	if err := s.allocator.Allocate(ctx, link, requested); err != nil {
		return nil, err
	}

	s.logger.Info("Короткая ссылка создана",
		zap.String("short_code", link.ShortCode),
		zap.String("owner_id", ownerID),
		zap.Int("validity", validity),
	)

	// Кэширование
	s.cache(ctx, link)

	return link, nil
}

// GetLink получает ссылку по короткому коду (сначала из кэша, затем из БД).
// Истёкшие ссылки тоже возвращаются: срок проверяется вызывающей стороной.
func (s *linkService) GetLink(ctx context.Context, code string) (*models.Link, error) {
	// Проверка кэша
	link, err := s.cacheRepo.Get(ctx, code)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("Кэш недоступен, читаем из БД", zap.String("short_code", code), zap.Error(err))
	}

	// Запрос из БД
	link, err = s.linkRepo.GetByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	s.cache(ctx, link)

	return link, nil
}

// GetStats собирает сводку по кликам ссылки
func (s *linkService) GetStats(ctx context.Context, code, callerID string) (*models.LinkStats, error) {
	link, err := s.GetLink(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.ownerOnlyStats && link.OwnerID != callerID {
		return nil, ErrForbidden
	}

	clicks, err := s.clickRepo.ListClicks(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load clicks: %w", err)
	}

	details := make([]models.ClickDetail, 0, len(clicks))
	for _, click := range clicks {
		details = append(details, models.ClickDetail{
			Timestamp: click.ClickedAt,
			Referrer:  click.Referrer,
			SourceIP:  click.SourceIP,
		})
	}

	return &models.LinkStats{
		ShortCode:       link.ShortCode,
		OriginalURL:     link.OriginalURL,
		CreatedAt:       link.CreatedAt,
		ExpiresAt:       link.ExpiresAt,
		ValidityMinutes: link.ValidityMinutes,
		TotalClicks:     len(details),
		Clicks:          details,
	}, nil
}

// cache кладёт ссылку в кэш до момента её истечения (но не дольше maxCacheTTL)
func (s *linkService) cache(ctx context.Context, link *models.Link) {
	ttl := link.ExpiresAt.Sub(s.now())
	if ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}
	if ttl <= 0 {
		return
	}

	if err := s.cacheRepo.Set(ctx, link, ttl); err != nil {
		// Логгируем ошибку, но не прерываем запрос
		s.logger.Warn("Не удалось закэшировать ссылку",
			zap.String("short_code", link.ShortCode),
			zap.Error(err),
		)
	}
}

// validateURL проверяет, что URL абсолютный и использует http(s)
func validateURL(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}

	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}
	if parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// resolveValidity применяет значение по умолчанию для отсутствующего или неположительного срока
func resolveValidity(validity *int) (int, error) {
	if validity == nil || *validity <= 0 {
		return defaultValidityMinutes, nil
	}
	if *validity > maxValidityMinutes {
		return 0, ErrInvalidValidity
	}
	return *validity, nil
}
