package models

import (
	"time"
)

// CauseCategory is the closed taxonomy every scraped cause string is mapped into.
type CauseCategory string

const (
	CauseNatural            CauseCategory = "natural"
	CauseAccidental         CauseCategory = "accidental"
	CauseViolent            CauseCategory = "violent"
	CauseSuicide            CauseCategory = "suicide"
	CauseRareOrUnusual      CauseCategory = "rare_or_unusual"
	CausePandemicOrOutbreak CauseCategory = "pandemic_or_outbreak"
	CauseUnknown            CauseCategory = "unknown"
)

// DeceasedRecord is the canonical, persisted death for one contest year.
// (NameKey, DateOfDeath) is the dedup identity: a second insert with the same
// pair must be a no-op, enforced by the unique index plus conflict-ignore
// inserts — never by the pre-check alone.
type DeceasedRecord struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	CanonicalName string        `json:"canonical_name" gorm:"not null"`
	NameKey       string        `json:"name_key" gorm:"not null;uniqueIndex:idx_deceased_identity"`
	DateOfBirth   *time.Time    `json:"date_of_birth,omitempty"`
	DateOfDeath   time.Time     `json:"date_of_death" gorm:"not null;uniqueIndex:idx_deceased_identity"`
	AgeAtDeath    int           `json:"age_at_death"`
	CauseCategory CauseCategory `json:"cause_category" gorm:"default:'unknown'"`
	CauseDetails  string        `json:"cause_details,omitempty"`

	// Bonus flags. Birthday and first-of-year are set automatically at
	// creation; the rest need an admin who knows the circumstances.
	DiedOnBirthday        bool `json:"died_on_birthday" gorm:"default:false"`
	DiedOnMajorHoliday    bool `json:"died_on_major_holiday" gorm:"default:false"`
	DiedDuringPublicEvent bool `json:"died_during_public_event" gorm:"default:false"`
	DiedInExtremeSport    bool `json:"died_in_extreme_sport" gorm:"default:false"`
	IsFirstDeathOfYear    bool `json:"is_first_death_of_year" gorm:"default:false"`
	IsLastDeathOfYear     bool `json:"is_last_death_of_year" gorm:"default:false"`

	GameYear   int       `json:"game_year" gorm:"not null;index"`
	IsApproved bool      `json:"is_approved" gorm:"default:false"`
	SourceURL  string    `json:"source_url"`
	SourceTag  SourceTag `json:"source_tag"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
