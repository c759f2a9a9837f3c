package services

import (
	"log"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
)

// NameKey folds a person name into the case- and accent-insensitive form used
// both as the storage dedup key and for prediction matching, so "Beyoncé",
// "beyonce" and "BEYONCE" all collapse to the same key.
func NameKey(name string) string {
	return slug.Make(unidecode.Unidecode(name))
}

// DateOnly truncates a timestamp to a UTC calendar date. Death identity is a
// date, not an instant; sources report different clock precisions.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AgeBetween is calendar age: full years elapsed between two dates.
func AgeBetween(dob, dod time.Time) int {
	years := dod.Year() - dob.Year()
	if dod.Month() < dob.Month() || (dod.Month() == dob.Month() && dod.Day() < dob.Day()) {
		years--
	}
	return years
}

// NormalizeCandidates merges connector outputs into normalization-clean
// candidates: implausible entries dropped, duplicates collapsed (first
// occurrence wins, so connector priority order is the tie-break), and every
// cause string mapped onto the closed taxonomy. This is the single place
// cause mapping happens — connectors pass raw text through untouched.
func NormalizeCandidates(candidates []models.CandidateDeath) []models.CandidateDeath {
	seen := make(map[string]bool)
	out := make([]models.CandidateDeath, 0, len(candidates))

	for _, c := range candidates {
		c.Name = utils.CleanText(c.Name)
		if c.Name == "" {
			continue
		}
		if c.Age == nil && utils.LetterCount(c.Name) < 3 {
			continue
		}
		if c.Age != nil && (*c.Age < 1 || *c.Age > 120) {
			log.Printf("[Normalize] Dropping %q: implausible age %d", c.Name, *c.Age)
			continue
		}
		if c.DateOfDeath.IsZero() {
			continue
		}

		c.DateOfDeath = DateOnly(c.DateOfDeath)
		key := NameKey(c.Name) + "|" + c.DateOfDeath.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true

		if c.CauseCategory == "" {
			c.CauseCategory, _ = utils.CauseFromText(c.CauseText)
		}

		out = append(out, c)
	}
	return out
}
