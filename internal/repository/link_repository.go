package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/jackc/pgx/v5"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrCodeExists   = errors.New("short code already exists")
)

type LinkRepository interface {
	// Create inserts the link; ErrCodeExists if the short code is taken.
	Create(ctx context.Context, link *models.Link) error
	// GetByShortCode returns the link regardless of its expiry.
	GetByShortCode(ctx context.Context, code string) (*models.Link, error)
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (short_code, original_url, owner_id, validity_minutes, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		link.ShortCode,
		link.OriginalURL,
		link.OwnerID,
		link.ValidityMinutes,
		link.CreatedAt,
		link.ExpiresAt,
	).Scan(&link.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	query := `
		SELECT id, short_code, original_url, owner_id::text, validity_minutes, created_at, expires_at
		FROM links
		WHERE short_code = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&link.ID,
		&link.ShortCode,
		&link.OriginalURL,
		&link.OwnerID,
		&link.ValidityMinutes,
		&link.CreatedAt,
		&link.ExpiresAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}
