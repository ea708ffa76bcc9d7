package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/jackc/pgx/v5"
)

type ClickRepository interface {
	// AppendClick adds a click to the link's log; a missing link yields
	// ErrLinkNotFound and no row. Appends to one link are serialized.
	AppendClick(ctx context.Context, click *models.Click) error
	// ListClicks returns the link's clicks in append order.
	ListClicks(ctx context.Context, shortCode string) ([]models.Click, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) AppendClick(ctx context.Context, click *models.Click) error {
	// Строка ссылки блокируется до коммита: клики одной ссылки вставляются
	// по очереди, и порядок id совпадает с порядком фиксации.
	lockQuery := `
		SELECT id
		FROM links
		WHERE short_code = $1
		FOR UPDATE
	`
	insertQuery := `
		INSERT INTO clicks (link_id, referrer, source_ip, clicked_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, lockQuery, click.ShortCode).Scan(&click.LinkID); err != nil {
			return err
		}

		return tx.QueryRow(ctx, insertQuery,
			click.LinkID,
			click.Referrer,
			click.SourceIP,
			click.ClickedAt,
		).Scan(&click.ID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *clickRepository) ListClicks(ctx context.Context, shortCode string) ([]models.Click, error) {
	query := `
		SELECT c.id, c.link_id, l.short_code, c.referrer, c.source_ip, c.clicked_at
		FROM clicks c
		JOIN links l ON c.link_id = l.id
		WHERE l.short_code = $1
		ORDER BY c.id
	`

	rows, err := r.db.Pool.Query(ctx, query, shortCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list clicks: %w", err)
	}
	defer rows.Close()

	clicks := []models.Click{}
	for rows.Next() {
		var click models.Click
		if err := rows.Scan(
			&click.ID,
			&click.LinkID,
			&click.ShortCode,
			&click.Referrer,
			&click.SourceIP,
			&click.ClickedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, click)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, nil
}
