package models

import (
	"time"
)

type Click struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"link_id"`
	ShortCode string    `json:"short_code"`
	Referrer  string    `json:"referrer"`
	SourceIP  string    `json:"source_ip"`
	ClickedAt time.Time `json:"clicked_at"`
}

type ClickEvent struct {
	ShortCode string
	Referrer  string
	SourceIP  string
}

type ClickDetail struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	SourceIP  string    `json:"sourceIP"`
}
