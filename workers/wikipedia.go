package workers

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"cgt.name/pkg/go-mwclient"
	"gorm.io/gorm"
)

const defaultWikipediaAPI = "https://en.wikipedia.org/w/api.php"

// biographyLookupCap bounds how many outstanding predictions one run will
// look up, to stay polite against the API.
const biographyLookupCap = 25

// professionQualifiers are appended to loosened search variants as a last
// resort, matching Wikipedia's disambiguation convention.
var professionQualifiers = []string{"actor", "actress", "singer", "musician", "politician"}

// BiographySource works backwards from the players' outstanding predictions:
// for each not-yet-hit name in the game year it looks the person up on the
// biography service, loosening the title progressively, and only accepts a
// page whose own text places a death inside the contest window. That last
// gate matters: living-person pages routinely mention other people's deaths.
type BiographySource struct {
	DB     *gorm.DB
	client *mwclient.Client
	apiURL string

	// fetchExtract resolves one title to (resolved title, extract text).
	// Defaults to the live API lookup.
	fetchExtract func(title string) (string, string, bool)
}

func NewBiographySource(db *gorm.DB) (*BiographySource, error) {
	apiURL := os.Getenv("WIKIPEDIA_API_URL")
	if apiURL == "" {
		apiURL = defaultWikipediaAPI
	}
	client, err := mwclient.New(apiURL, "deadpool-stars-aligned/1.0 (https://github.com/Aggiebryan/deadpool-stars-aligned-sub000)")
	if err != nil {
		return nil, fmt.Errorf("failed to create wiki client: %w", err)
	}
	s := &BiographySource{DB: db, client: client, apiURL: apiURL}
	s.fetchExtract = s.pageExtract
	return s, nil
}

func (s *BiographySource) Name() string          { return "biography" }
func (s *BiographySource) Tag() models.SourceTag { return models.SourceBiography }

func (s *BiographySource) FetchCandidates(ctx context.Context, params FetchParams) ([]models.CandidateDeath, error) {
	var names []string
	err := s.DB.Model(&models.Prediction{}).
		Where("game_year = ? AND is_hit = ?", params.GameYear, false).
		Distinct("celebrity_name").
		Limit(biographyLookupCap).
		Pluck("celebrity_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding predictions: %w", err)
	}
	if len(names) == 0 {
		log.Println("[biography] No outstanding predictions to look up")
		return nil, nil
	}

	var candidates []models.CandidateDeath
	for _, name := range names {
		select {
		case <-ctx.Done():
			return candidates, ctx.Err()
		default:
		}

		c, ok := s.lookupPerson(name, params.GameYear)
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}
	log.Printf("[biography] Confirmed %d death(s) from %d prediction name(s)", len(candidates), len(names))
	return candidates, nil
}

// lookupPerson tries each title variant in order and returns the first
// biography page that confirms a recent death.
func (s *BiographySource) lookupPerson(name string, gameYear int) (models.CandidateDeath, bool) {
	for _, title := range titleVariants(name) {
		pageTitle, extract, ok := s.fetchExtract(title)
		if !ok {
			continue
		}

		dob, dod, confirmed := findDeathInExtract(extract, gameYear)
		if !confirmed {
			// Could be a namesake or disambiguation page sharing the bare
			// title; a qualified variant may still reach the right person.
			continue
		}

		c := models.CandidateDeath{
			Name:        pageTitle,
			DateOfDeath: *dod,
			DateOfBirth: dob,
			CauseText:   extractLead(extract),
			SourceTag:   models.SourceBiography,
			SourceURL:   "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(pageTitle, " ", "_")),
			Confirmed:   true,
		}
		if dob != nil {
			age := yearsBetween(*dob, *dod)
			c.Age = &age
		}
		return c, true
	}
	return models.CandidateDeath{}, false
}

// pageExtract fetches the plaintext extract for an exact title. Returns the
// resolved page title (after redirects) and the extract text.
func (s *BiographySource) pageExtract(title string) (string, string, bool) {
	params := map[string]string{
		"action":        "query",
		"prop":          "extracts",
		"explaintext":   "1",
		"redirects":     "1",
		"titles":        title,
		"formatversion": "2",
	}

	resp, err := s.client.Get(params)
	if err != nil {
		log.Printf("⚠️  [biography] Lookup %q failed: %v", title, err)
		return "", "", false
	}

	pages, err := resp.GetObjectArray("query", "pages")
	if err != nil || len(pages) == 0 {
		return "", "", false
	}
	page := pages[0]
	if missing, err := page.GetBoolean("missing"); err == nil && missing {
		return "", "", false
	}
	extract, err := page.GetString("extract")
	if err != nil || extract == "" {
		return "", "", false
	}
	resolvedTitle, err := page.GetString("title")
	if err != nil {
		resolvedTitle = title
	}
	return resolvedTitle, extract, true
}

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	quotedAliasRe   = regexp.MustCompile(`\s+["“][^"”]+["”]`)
	parenGroupRe    = regexp.MustCompile(`\(([^)]+)\)`)
)

// titleVariants yields lookup titles from exact to progressively looser:
// the name as entered, parentheticals stripped, quoted nicknames stripped,
// first two tokens, then profession-qualified forms.
func titleVariants(name string) []string {
	name = utils.CleanText(name)

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(name)
	stripped := strings.TrimSpace(parentheticalRe.ReplaceAllString(name, ""))
	add(stripped)
	add(quotedAliasRe.ReplaceAllString(stripped, ""))

	tokens := strings.Fields(stripped)
	if len(tokens) > 2 {
		add(strings.Join(tokens[:2], " "))
	}

	for _, q := range professionQualifiers {
		add(fmt.Sprintf("%s (%s)", stripped, q))
	}
	return out
}

// findDeathInExtract decides whether a biography page describes a recent
// death, and pulls out the birth/death dates when it does. It reads only the
// lead of the article: the lifespan parenthetical or an explicit
// "died <date>" sentence. The death must fall in the game year or the one
// before it (a late-December death checked by an early-January run); anything
// older is not a confirmation.
func findDeathInExtract(text string, gameYear int) (dob, dod *time.Time, ok bool) {
	lead := extractLead(text)

	// Lifespan parenthetical: "(2 March 1931 – 30 August 2026)".
	for _, m := range parenGroupRe.FindAllStringSubmatch(lead, 4) {
		inner := m[1]
		sep := strings.Index(inner, "–")
		if sep < 0 {
			sep = strings.Index(inner, " - ")
		}
		if sep < 0 {
			if strings.Contains(strings.ToLower(inner), "born") && dob == nil {
				dob = utils.FindDateInText(inner)
			}
			continue
		}
		if d := utils.FindDateInText(inner[:sep]); d != nil && dob == nil {
			dob = d
		}
		if d := utils.FindDateInText(inner[sep:]); d != nil && dod == nil {
			dod = d
		}
	}

	// "died on 30 August 2026" style sentences.
	if dod == nil {
		for _, sentence := range strings.Split(lead, ". ") {
			lower := strings.ToLower(sentence)
			if !strings.Contains(lower, "died") && !strings.Contains(lower, "death") {
				continue
			}
			if d := utils.FindDateInText(sentence); d != nil {
				dod = d
				break
			}
		}
	}

	if dod == nil || dod.Year() < gameYear-1 || dod.Year() > gameYear {
		return dob, nil, false
	}
	return dob, dod, true
}

// extractLead clips the article to its lead portion, where lifespans and
// death sentences live; later sections only add false-positive dates.
func extractLead(text string) string {
	lead := utils.CleanText(text)
	if len(lead) > 1500 {
		lead = lead[:1500]
	}
	return lead
}
