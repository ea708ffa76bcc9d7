package models

import (
	"time"
)

type Link struct {
	ID              int64     `json:"id"`
	ShortCode       string    `json:"short_code"`
	OriginalURL     string    `json:"original_url"`
	OwnerID         string    `json:"owner_id"`
	ValidityMinutes int       `json:"validity"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// IsExpiredAt reports whether the link is no longer resolvable at t.
// A link is active on [CreatedAt, ExpiresAt).
func (l *Link) IsExpiredAt(t time.Time) bool {
	return !t.Before(l.ExpiresAt)
}

type CreateLinkInput struct {
	OriginalURL string
	Validity    *int
	CustomCode  *string
}

type LinkStats struct {
	ShortCode       string        `json:"-"`
	OriginalURL     string        `json:"url"`
	CreatedAt       time.Time     `json:"createdAt"`
	ExpiresAt       time.Time     `json:"expiry"`
	ValidityMinutes int           `json:"validity"`
	TotalClicks     int           `json:"totalClicks"`
	Clicks          []ClickDetail `json:"clicks"`
}
