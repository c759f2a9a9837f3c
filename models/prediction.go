package models

import "time"

// Player mirrors the profile record owned by the external identity service.
// TotalScore is maintained exclusively through atomic relative increments so
// concurrent runs never lose an update; it must always equal the sum of
// PointsAwarded over that player's hit predictions.
type Player struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"not null"`
	TotalScore int       `json:"total_score" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Prediction is a player's pre-registered guess for one contest year.
// Once IsHit flips to true the record is immutable to the ingestion side:
// scoring uses a conditional update (is_hit = false) so at most one run wins.
type Prediction struct {
	ID            string `json:"id" gorm:"primaryKey"`
	OwnerID       string `json:"owner_id" gorm:"not null;index"`
	CelebrityName string `json:"celebrity_name" gorm:"not null"`
	GameYear      int    `json:"game_year" gorm:"not null;index"`
	IsHit         bool   `json:"is_hit" gorm:"default:false"`
	PointsAwarded int    `json:"points_awarded" gorm:"default:0"`

	// The record that scored this prediction, so an admin rejection can
	// reverse exactly what was awarded.
	MatchedDeceasedID *string `json:"matched_deceased_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Owner Player `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
