package services

import (
	"testing"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"github.com/stretchr/testify/assert"
)

func TestScoreDeathNaturalAt65(t *testing.T) {
	rec := &models.DeceasedRecord{AgeAtDeath: 65, CauseCategory: models.CauseNatural}

	// base 35 + junior natural bonus 10
	assert.Equal(t, 45, ScoreDeath(rec))
	// deterministic
	assert.Equal(t, ScoreDeath(rec), ScoreDeath(rec))
}

func TestScoreDeathBonusAdditivity(t *testing.T) {
	rec := &models.DeceasedRecord{
		AgeAtDeath:            65,
		CauseCategory:         models.CauseNatural,
		DiedOnBirthday:        true,
		DiedDuringPublicEvent: true,
	}
	// 45 + 15 (birthday) + 25 (public event)
	assert.Equal(t, 85, ScoreDeath(rec))
}

func TestScoreDeathClampsAtZero(t *testing.T) {
	rec := &models.DeceasedRecord{AgeAtDeath: 105, CauseCategory: models.CauseUnknown}
	// base -5 + 5 = 0, never negative
	assert.Equal(t, 0, ScoreDeath(rec))

	rec.AgeAtDeath = 120
	assert.Equal(t, 0, ScoreDeath(rec))
}

func TestScoreDeathSeniorCauseSplit(t *testing.T) {
	junior := &models.DeceasedRecord{AgeAtDeath: 79, CauseCategory: models.CauseViolent}
	senior := &models.DeceasedRecord{AgeAtDeath: 80, CauseCategory: models.CauseViolent}

	assert.Equal(t, 21+50, ScoreDeath(junior))
	assert.Equal(t, 20+30, ScoreDeath(senior))
}

func TestScoreDeathRareIsFlat(t *testing.T) {
	young := &models.DeceasedRecord{AgeAtDeath: 40, CauseCategory: models.CauseRareOrUnusual}
	old := &models.DeceasedRecord{AgeAtDeath: 90, CauseCategory: models.CauseRareOrUnusual}

	assert.Equal(t, 60+50, ScoreDeath(young))
	assert.Equal(t, 10+50, ScoreDeath(old))
}

func TestScoreDeathVeryOldViolentStaysPositive(t *testing.T) {
	// Base is negative past 100, but cause and flags apply before the clamp.
	rec := &models.DeceasedRecord{
		AgeAtDeath:         104,
		CauseCategory:      models.CauseViolent,
		DiedInExtremeSport: true,
	}
	// -4 + 30 + 30
	assert.Equal(t, 56, ScoreDeath(rec))
}

func TestScoreDeathUnknownCategoryFallsBack(t *testing.T) {
	rec := &models.DeceasedRecord{AgeAtDeath: 50, CauseCategory: models.CauseCategory("mystery")}
	assert.Equal(t, 55, ScoreDeath(rec))
}
