package models

import "time"

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ScrapeRun is the append-only log of one ingestion run. The only mutation
// after creation is the single terminal transition to completed or failed.
type ScrapeRun struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Status       string     `json:"status" gorm:"default:'running';index"`
	Source       string     `json:"source"`
	StartedAt    time.Time  `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DeathsFound  int        `json:"deaths_found" gorm:"default:0"`
	DeathsAdded  int        `json:"deaths_added" gorm:"default:0"`
	PicksScored  int        `json:"picks_scored" gorm:"default:0"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// RSSFeed is one entry of the mutable feed allow-list; only active feeds are
// polled by the feed connector.
type RSSFeed struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	URL       string    `json:"url" gorm:"not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
