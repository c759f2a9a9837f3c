package workers

import (
	"context"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"gorm.io/gorm"
)

// FetchParams carries the per-run knobs a connector may honor.
type FetchParams struct {
	// Recency window in days for feed-style sources (0 = connector default).
	Days int
	// Specific date to ingest for date-keyed sources (nil = connector default).
	TargetDate *time.Time
	// Contest year the run is scoring against.
	GameYear int
	// Run ID, used to key raw snapshot archiving.
	RunID string
}

// Source is one external death-fact connector. Implementations fetch from a
// single external system and emit unverified candidates. A returned error
// never aborts a multi-source run; the orchestrator logs it and treats the
// source as empty.
type Source interface {
	Name() string
	Tag() models.SourceTag
	FetchCandidates(ctx context.Context, params FetchParams) ([]models.CandidateDeath, error)
}

// DefaultSources returns every connector in its documented priority order.
// The order is load-bearing: duplicate (name, date) candidates are collapsed
// first-occurrence-wins downstream, so earlier sources here outrank later
// ones. Keep it tabular, feed, structured, biography.
func DefaultSources(db *gorm.DB) ([]Source, error) {
	bio, err := NewBiographySource(db)
	if err != nil {
		return nil, err
	}
	return []Source{
		NewTabularSource(),
		NewFeedSource(db),
		NewStructuredSource(),
		bio,
	}, nil
}
