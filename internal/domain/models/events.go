package models

import "time"

// PageViewEvent is published once per page render when events are enabled.
type PageViewEvent struct {
	ID         string    `json:"id"`
	Page       PageID    `json:"page"`
	RenderedAt time.Time `json:"rendered_at"`
	Cached     bool      `json:"cached"`
	Sections   []string  `json:"sections"`
	DurationMS int64     `json:"duration_ms"`
}
