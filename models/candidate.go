package models

import "time"

// SourceTag identifies which connector produced a candidate.
type SourceTag string

const (
	SourceTabular    SourceTag = "tabular"
	SourceFeed       SourceTag = "feed"
	SourceStructured SourceTag = "structured"
	SourceBiography  SourceTag = "biography"
	SourceManual     SourceTag = "manual"
)

// CandidateDeath is an unverified death fact emitted by a single connector.
// It has no identity and is discarded after normalization.
type CandidateDeath struct {
	Name        string
	DateOfDeath time.Time
	Age         *int
	CauseText   string
	SourceTag   SourceTag
	SourceURL   string

	// Set by connectors that know the birth date (structured/biography);
	// lets the orchestrator auto-detect birthday deaths.
	DateOfBirth *time.Time

	// Filled in by the normalizer from CauseText; connectors leave it empty.
	CauseCategory CauseCategory

	// Biography-confirmed candidates are created pre-approved.
	Confirmed bool
}
