package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleVariantsLadder(t *testing.T) {
	variants := titleVariants(`Robert "Bob" Marley (musician)`)

	require.NotEmpty(t, variants)
	assert.Equal(t, `Robert "Bob" Marley (musician)`, variants[0])
	assert.Contains(t, variants, `Robert "Bob" Marley`)
	assert.Contains(t, variants, "Robert Marley")
	assert.Contains(t, variants, `Robert "Bob" Marley (actor)`)

	// No duplicates even when stripping collapses variants together.
	seen := make(map[string]bool)
	for _, v := range variants {
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}

func TestTitleVariantsPlainName(t *testing.T) {
	variants := titleVariants("John Smith")
	assert.Equal(t, "John Smith", variants[0])
	// Nothing to strip, so the looser forms are just profession qualifiers.
	assert.Contains(t, variants, "John Smith (singer)")
}

func TestFindDeathInExtractLifespan(t *testing.T) {
	text := "John Smith (2 March 1931 – 30 August 2026) was an American actor known for westerns."

	dob, dod, ok := findDeathInExtract(text, 2026)
	require.True(t, ok)
	require.NotNil(t, dod)
	assert.Equal(t, 2026, dod.Year())
	assert.Equal(t, 30, dod.Day())
	require.NotNil(t, dob)
	assert.Equal(t, 1931, dob.Year())
}

func TestFindDeathInExtractDiedSentence(t *testing.T) {
	text := "Jane Doe (born 2 March 1931) was a British novelist. She died on 30 August 2026 in London."

	dob, dod, ok := findDeathInExtract(text, 2026)
	require.True(t, ok)
	require.NotNil(t, dod)
	assert.Equal(t, 2026, dod.Year())
	require.NotNil(t, dob)
	assert.Equal(t, 1931, dob.Year())
}

func TestFindDeathInExtractLivingPerson(t *testing.T) {
	text := "John Smith (born 2 March 1931) is an American actor. He lives in Los Angeles."

	dob, dod, ok := findDeathInExtract(text, 2026)
	assert.False(t, ok)
	assert.Nil(t, dod)
	require.NotNil(t, dob)
	assert.Equal(t, 1931, dob.Year())
}

func TestFindDeathInExtractPreviousYear(t *testing.T) {
	// A late-December death checked by an early-January run still counts.
	text := "John Smith (2 March 1931 – 28 December 2025) was an American actor."

	_, dod, ok := findDeathInExtract(text, 2026)
	require.True(t, ok)
	require.NotNil(t, dod)
	assert.Equal(t, 2025, dod.Year())
}

func TestFindDeathInExtractTooOld(t *testing.T) {
	text := "John Smith (2 March 1931 – 30 August 2023) was an American actor."

	_, dod, ok := findDeathInExtract(text, 2026)
	assert.False(t, ok)
	assert.Nil(t, dod)
}

func TestFindDeathInExtractNoDates(t *testing.T) {
	_, dod, ok := findDeathInExtract("John Smith is a name shared by several people.", 2026)
	assert.False(t, ok)
	assert.Nil(t, dod)
}

func TestLookupPersonContinuesPastNamesake(t *testing.T) {
	// The bare title resolves to a disambiguation page; the qualified
	// variant has to be tried anyway and finds the actual person.
	pages := map[string]string{
		"John Smith":         "John Smith is a name shared by several people.",
		"John Smith (actor)": "John Smith (2 March 1931 – 30 August 2026) was an American actor.",
	}
	src := &BiographySource{fetchExtract: func(title string) (string, string, bool) {
		extract, ok := pages[title]
		return title, extract, ok
	}}

	c, ok := src.lookupPerson("John Smith", 2026)
	require.True(t, ok)
	assert.Equal(t, "John Smith (actor)", c.Name)
	assert.Equal(t, 2026, c.DateOfDeath.Year())
	require.NotNil(t, c.Age)
	assert.Equal(t, 95, *c.Age)
	assert.True(t, c.Confirmed)
}
