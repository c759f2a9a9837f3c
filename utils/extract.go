// utils/extract.go
package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"golang.org/x/text/unicode/norm"
)

// Extracted is the best-effort result of running the pattern strategies over
// one block of prose. Age and Date stay nil when the text never mentions them.
type Extracted struct {
	Name string
	Age  *int
	Date *time.Time
}

// namePat matches capitalized name runs like "Jane Q. Public" or "John Smith".
// Lowercase words ("died", "Tuesday" stays capital but follows the name via
// context patterns) terminate the run.
const namePat = `([A-Z][a-zA-Z'’.\-]*(?:\s+[A-Z][a-zA-Z'’.\-]*)+)`

// extractStrategy is one prioritized heuristic: a compiled pattern plus the
// capture-group positions of name and age (ageIdx 0 means the pattern carries
// no age). Strategies are tried in order; the first structurally valid match
// wins.
type extractStrategy struct {
	label   string
	re      *regexp.Regexp
	nameIdx int
	ageIdx  int
}

var extractStrategies = []extractStrategy{
	// "Jane Q. Public, 82, dies peacefully" / "Name, aged 82, has died"
	{"name-comma-age", regexp.MustCompile(namePat + `,\s*(?:aged?\s+)?(\d{1,3}),?\s+(?:has\s+)?(?:died|dies|dead|passed\s+away)`), 1, 2},
	// "Name died at 91" / "Name dies at the age of 91"
	{"died-at-age", regexp.MustCompile(namePat + `\s+(?:has\s+)?(?:died|dies|dead)\s+(?:\w+\s+){0,2}?at\s+(?:the\s+age\s+of\s+|age\s+)?(\d{1,3})`), 1, 2},
	// "Name (82)"
	{"name-paren-age", regexp.MustCompile(namePat + `\s*\((\d{1,3})\)`), 1, 2},
	// "87-year-old John Smith died Tuesday"
	{"age-year-old", regexp.MustCompile(`(\d{1,3})[-\s]year[-\s]old\s+` + namePat), 2, 1},
	// "death of Name, 82" / "Death of Name"
	{"death-of", regexp.MustCompile(`[Dd]eath\s+of\s+` + namePat + `(?:,\s*(?:aged?\s+)?(\d{1,3}))?`), 1, 2},
	// "John Doe, 82, American actor, heart failure" — obituary list rows
	// carry no death verb, so only match when the row starts with the name.
	{"list-row", regexp.MustCompile(`^` + namePat + `,\s*(\d{1,3}),`), 1, 2},
	// Bare "Name dies" / "Name has passed away" — no age, feeds often do this.
	{"name-died", regexp.MustCompile(namePat + `\s+(?:has\s+)?(?:died|dies|is\s+dead|passed\s+away)`), 1, 0},
}

// ExtractDeath runs the strategies in priority order over text and returns
// the first structurally valid match, or nil when nothing matches. Validity:
// name carries at least 3 letters, age (when present) is in [1,120].
func ExtractDeath(text string) *Extracted {
	text = CleanText(text)
	if text == "" {
		return nil
	}

	for _, strat := range extractStrategies {
		m := strat.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[strat.nameIdx])
		if LetterCount(name) < 3 {
			continue
		}

		var age *int
		if strat.ageIdx > 0 && m[strat.ageIdx] != "" {
			n, err := strconv.Atoi(m[strat.ageIdx])
			if err != nil || n < 1 || n > 120 {
				continue
			}
			age = &n
		}

		return &Extracted{Name: name, Age: age, Date: FindDateInText(text)}
	}
	return nil
}

// causeFamily maps one keyword family onto a taxonomy category. Order
// matters: more specific families (overdose before generic "accident"
// mentions in the same sentence) are checked first.
type causeFamily struct {
	category models.CauseCategory
	keywords []string
}

var causeFamilies = []causeFamily{
	{models.CauseSuicide, []string{"suicide", "took his own life", "took her own life"}},
	{models.CausePandemicOrOutbreak, []string{"covid", "coronavirus", "pandemic", "outbreak", "epidemic"}},
	{models.CauseRareOrUnusual, []string{"overdose", "drug", "lightning", "shark", "freak"}},
	{models.CauseViolent, []string{"murder", "shot", "shooting", "killed", "stabbed", "homicide", "assassinat"}},
	{models.CauseAccidental, []string{"crash", "fall", "fell", "accident", "drown", "collision"}},
	{models.CauseNatural, []string{"cancer", "heart", "stroke", "illness", "pneumonia", "alzheimer", "parkinson", "natural causes", "organ failure", "old age"}},
}

// CauseFromText maps free cause text onto the closed taxonomy and reports the
// keyword that matched. This is the single mapping table for every connector;
// the normalizer is its only caller so the taxonomy cannot drift per source.
func CauseFromText(text string) (models.CauseCategory, string) {
	lower := strings.ToLower(text)
	for _, fam := range causeFamilies {
		for _, kw := range fam.keywords {
			if strings.Contains(lower, kw) {
				return fam.category, kw
			}
		}
	}
	return models.CauseUnknown, ""
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"01/02/2006",
}

// ParseFlexibleDate tries the date layouts the sources actually emit.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var inlineDateRes = []*regexp.Regexp{
	// "3 March 2026"
	regexp.MustCompile(`\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`),
	// "March 3, 2026"
	regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),\s*(\d{4})\b`),
	// ISO embedded
	regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
}

// FindDateInText scans prose for the first recognizable calendar date.
func FindDateInText(text string) *time.Time {
	for i, re := range inlineDateRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		var s, layout string
		switch i {
		case 0:
			s, layout = m[1]+" "+m[2]+" "+m[3], "2 January 2006"
		case 1:
			s, layout = m[1]+" "+m[2]+", "+m[3], "January 2, 2006"
		default:
			s, layout = m[0], "2006-01-02"
		}
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

var spaceRe = regexp.MustCompile(`\s+`)

// CleanText NFC-normalizes and collapses whitespace so the patterns see one
// predictable form of whatever the scrapers pulled out of markup.
func CleanText(s string) string {
	s = norm.NFC.String(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// LetterCount counts letters only, ignoring dots, hyphens and spaces.
func LetterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
