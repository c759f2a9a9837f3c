package services

import (
	"testing"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNormalizeDedupFirstWins(t *testing.T) {
	date := time.Date(2026, time.March, 3, 14, 30, 0, 0, time.UTC)
	candidates := []models.CandidateDeath{
		{Name: "John Smith", DateOfDeath: date, Age: intPtr(80), CauseText: "heart attack", SourceTag: models.SourceTabular},
		{Name: "JOHN SMITH", DateOfDeath: date, Age: intPtr(80), CauseText: "car crash", SourceTag: models.SourceFeed},
		{Name: "Jane Doe", DateOfDeath: date, Age: intPtr(70), SourceTag: models.SourceFeed},
	}

	out := NormalizeCandidates(candidates)
	require.Len(t, out, 2)

	// First occurrence wins, so the earlier connector's cause survives.
	assert.Equal(t, "John Smith", out[0].Name)
	assert.Equal(t, models.CauseNatural, out[0].CauseCategory)
	assert.Equal(t, models.SourceTabular, out[0].SourceTag)
	assert.Equal(t, "Jane Doe", out[1].Name)
}

func TestNormalizeAccentInsensitiveDedup(t *testing.T) {
	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	out := NormalizeCandidates([]models.CandidateDeath{
		{Name: "Beyoncé Knowles", DateOfDeath: date, Age: intPtr(44)},
		{Name: "beyonce knowles", DateOfDeath: date, Age: intPtr(44)},
	})
	assert.Len(t, out, 1)
}

func TestNormalizeDropsImplausibleAge(t *testing.T) {
	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	out := NormalizeCandidates([]models.CandidateDeath{
		{Name: "Too Old", DateOfDeath: date, Age: intPtr(121)},
		{Name: "Not Born", DateOfDeath: date, Age: intPtr(0)},
		{Name: "Just Right", DateOfDeath: date, Age: intPtr(120)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Just Right", out[0].Name)
}

func TestNormalizeDropsShortNameWithoutAge(t *testing.T) {
	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	out := NormalizeCandidates([]models.CandidateDeath{
		{Name: "Jo", DateOfDeath: date},            // short and ageless: drop
		{Name: "Jo", DateOfDeath: date, Age: intPtr(80)}, // short but aged: keep
		{Name: "", DateOfDeath: date, Age: intPtr(80)},
	})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Age)
}

func TestNormalizeDropsZeroDate(t *testing.T) {
	out := NormalizeCandidates([]models.CandidateDeath{
		{Name: "No Date Given", Age: intPtr(70)},
	})
	assert.Empty(t, out)
}

func TestNormalizeMapsCauseOnce(t *testing.T) {
	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	out := NormalizeCandidates([]models.CandidateDeath{
		{Name: "Overdose Case", DateOfDeath: date, Age: intPtr(40), CauseText: "died of a drug overdose"},
		{Name: "Mystery Case", DateOfDeath: date, Age: intPtr(60)},
	})
	require.Len(t, out, 2)
	assert.Equal(t, models.CauseRareOrUnusual, out[0].CauseCategory)
	assert.Equal(t, models.CauseUnknown, out[1].CauseCategory)
}

func TestNormalizeTruncatesToDate(t *testing.T) {
	out := NormalizeCandidates([]models.CandidateDeath{
		{Name: "Precise Timestamp", DateOfDeath: time.Date(2026, time.June, 1, 23, 59, 59, 0, time.UTC), Age: intPtr(70)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), out[0].DateOfDeath)
}

func TestNameKeyFolding(t *testing.T) {
	assert.Equal(t, NameKey("John Smith"), NameKey("john smith"))
	assert.Equal(t, NameKey("Beyoncé"), NameKey("Beyonce"))
	assert.NotEqual(t, NameKey("John Smith"), NameKey("John Smyth"))
}

func TestAgeBetween(t *testing.T) {
	dob := time.Date(1940, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 86, AgeBetween(dob, time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 86, AgeBetween(dob, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 85, AgeBetween(dob, time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)))
}
