package services

import (
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
)

// Bonus flag point values, additive on top of base + cause bonus.
const (
	BonusBirthday     = 15
	BonusHoliday      = 10
	BonusPublicEvent  = 25
	BonusExtremeSport = 30
	BonusFirstOfYear  = 10
	BonusLastOfYear   = 10
)

// seniorAge is the cutoff past which the reduced cause bonus applies: the
// base already rewards unexpected (young) deaths, and past 80 the cause adds
// less surprise on top of it.
const seniorAge = 80

// causeBonus holds the under-80 / 80-and-over bonus pair for one category.
type causeBonus struct {
	junior int
	senior int
}

var causeBonuses = map[models.CauseCategory]causeBonus{
	models.CauseNatural:            {10, 5},
	models.CauseAccidental:         {25, 15},
	models.CauseViolent:            {50, 30},
	models.CauseSuicide:            {40, 20},
	models.CausePandemicOrOutbreak: {35, 20},
	models.CauseRareOrUnusual:      {50, 50},
	models.CauseUnknown:            {5, 5},
}

// ScoreDeath computes the points awarded for one canonical death record.
// Deterministic and side-effect free:
//
//	total = max(0, (100 - age) + causeBonus + bonusFlagSum)
//
// The base can go negative past age 100; the clamp applies only to the final
// total, so a very old violent death with bonuses can still score.
func ScoreDeath(rec *models.DeceasedRecord) int {
	base := 100 - rec.AgeAtDeath

	cb, ok := causeBonuses[rec.CauseCategory]
	if !ok {
		cb = causeBonuses[models.CauseUnknown]
	}
	bonus := cb.junior
	if rec.AgeAtDeath >= seniorAge {
		bonus = cb.senior
	}

	flags := 0
	if rec.DiedOnBirthday {
		flags += BonusBirthday
	}
	if rec.DiedOnMajorHoliday {
		flags += BonusHoliday
	}
	if rec.DiedDuringPublicEvent {
		flags += BonusPublicEvent
	}
	if rec.DiedInExtremeSport {
		flags += BonusExtremeSport
	}
	if rec.IsFirstDeathOfYear {
		flags += BonusFirstOfYear
	}
	if rec.IsLastDeathOfYear {
		flags += BonusLastOfYear
	}

	total := base + bonus + flags
	if total < 0 {
		return 0
	}
	return total
}
