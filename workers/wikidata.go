package workers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"github.com/antonholmquist/jason"
)

const defaultSparqlURL = "https://query.wikidata.org/sparql"

// sparqlQueryTmpl selects humans with a known death date on one calendar day,
// with optional birth date and cause-of-death label.
const sparqlQueryTmpl = `SELECT ?person ?personLabel ?dob ?dod ?causeLabel WHERE {
  ?person wdt:P31 wd:Q5 ; wdt:P570 ?dod .
  FILTER(?dod >= "%sT00:00:00Z"^^xsd:dateTime && ?dod < "%sT00:00:00Z"^^xsd:dateTime)
  OPTIONAL { ?person wdt:P569 ?dob . }
  OPTIONAL { ?person wdt:P509 ?cause . }
  SERVICE wikibase:label {
    bd:serviceParam wikibase:language "en" .
    ?person rdfs:label ?personLabel .
    ?cause rdfs:label ?causeLabel .
  }
} LIMIT 200`

// unresolvedLabelRe spots bindings whose label service returned the raw
// entity ID instead of an English name.
var unresolvedLabelRe = regexp.MustCompile(`^Q\d+$`)

// StructuredSource queries the Wikidata SPARQL endpoint for persons who died
// on the target date. Unlike the scraping sources this one is structured end
// to end: dates come back machine-readable and age is derived from the
// birth/death difference when both are present.
type StructuredSource struct {
	EndpointURL string
	Client      *http.Client
}

func NewStructuredSource() *StructuredSource {
	endpoint := os.Getenv("WIKIDATA_SPARQL_URL")
	if endpoint == "" {
		endpoint = defaultSparqlURL
	}
	return &StructuredSource{EndpointURL: endpoint, Client: utils.HTTPClient}
}

func (s *StructuredSource) Name() string          { return "structured" }
func (s *StructuredSource) Tag() models.SourceTag { return models.SourceStructured }

func (s *StructuredSource) FetchCandidates(ctx context.Context, params FetchParams) ([]models.CandidateDeath, error) {
	target := time.Now().UTC().AddDate(0, 0, -1)
	if params.TargetDate != nil {
		target = *params.TargetDate
	}
	day := target.Format("2006-01-02")
	next := target.AddDate(0, 0, 1).Format("2006-01-02")

	query := fmt.Sprintf(sparqlQueryTmpl, day, next)
	reqURL := fmt.Sprintf("%s?query=%s&format=json", s.EndpointURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build SPARQL request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", "deadpool-stars-aligned/1.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SPARQL request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SPARQL endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read SPARQL response: %w", err)
	}
	utils.ArchiveSnapshot(ctx, params.RunID+"/structured.json", body, "application/json")

	root, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SPARQL response: %w", err)
	}
	bindings, err := root.GetObjectArray("results", "bindings")
	if err != nil {
		return nil, fmt.Errorf("unexpected SPARQL result shape: %w", err)
	}

	var candidates []models.CandidateDeath
	for _, b := range bindings {
		name, err := b.GetString("personLabel", "value")
		if err != nil || unresolvedLabelRe.MatchString(name) {
			continue
		}

		dodRaw, err := b.GetString("dod", "value")
		if err != nil {
			continue
		}
		dod, ok := parseSparqlDate(dodRaw)
		if !ok {
			continue
		}

		c := models.CandidateDeath{
			Name:        name,
			DateOfDeath: dod,
			SourceTag:   models.SourceStructured,
			SourceURL:   s.EndpointURL,
		}
		if pageURL, err := b.GetString("person", "value"); err == nil {
			c.SourceURL = pageURL
		}
		if causeLabel, err := b.GetString("causeLabel", "value"); err == nil && !unresolvedLabelRe.MatchString(causeLabel) {
			c.CauseText = causeLabel
		}
		if dobRaw, err := b.GetString("dob", "value"); err == nil {
			if dob, ok := parseSparqlDate(dobRaw); ok {
				c.DateOfBirth = &dob
				age := yearsBetween(dob, dod)
				c.Age = &age
			}
		}

		candidates = append(candidates, c)
	}
	log.Printf("[structured] %d candidate(s) for %s", len(candidates), day)
	return candidates, nil
}

func parseSparqlDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// yearsBetween is calendar age: full years elapsed from a to b.
func yearsBetween(a, b time.Time) int {
	years := b.Year() - a.Year()
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < a.Day()) {
		years--
	}
	return years
}
