package workers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/k3a/html2text"
)

// structuralSelectors are tried in order until one yields usable candidates.
// Page markup is unstable by assumption; none of these is contractual.
var structuralSelectors = []string{
	"table tr",
	"ul li",
	"div.obituary, article, p",
}

// TabularSource scrapes one HTML page of death notices (by default the
// Wikipedia "Deaths in <year>" page), trying structural selectors first and
// falling back to full-page prose scanning when the markup defeats them all.
type TabularSource struct {
	PageURL string
}

func NewTabularSource() *TabularSource {
	return &TabularSource{PageURL: os.Getenv("DEATHS_PAGE_URL")}
}

func (s *TabularSource) Name() string          { return "tabular" }
func (s *TabularSource) Tag() models.SourceTag { return models.SourceTabular }

func (s *TabularSource) FetchCandidates(ctx context.Context, params FetchParams) ([]models.CandidateDeath, error) {
	pageURL := s.PageURL
	if pageURL == "" {
		pageURL = fmt.Sprintf("https://en.wikipedia.org/wiki/Deaths_in_%d", params.GameYear)
	}

	body, err := utils.FetchURL(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("tabular fetch failed: %w", err)
	}
	utils.ArchiveSnapshot(ctx, params.RunID+"/tabular.html", body, "text/html")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tabular parse failed: %w", err)
	}

	fallbackDate := time.Now().UTC()
	if params.TargetDate != nil {
		fallbackDate = *params.TargetDate
	}

	for _, selector := range structuralSelectors {
		candidates := s.scanSelection(doc, selector, pageURL, fallbackDate)
		if len(candidates) > 0 {
			log.Printf("[tabular] Selector %q matched %d candidate(s)", selector, len(candidates))
			return candidates, nil
		}
	}

	// All structural strategies came up empty; scan the page as prose.
	log.Printf("[tabular] No structural matches on %s, falling back to prose scan", pageURL)
	return s.scanProse(html2text.HTML2Text(string(body)), pageURL, fallbackDate), nil
}

func (s *TabularSource) scanSelection(doc *goquery.Document, selector, pageURL string, fallbackDate time.Time) []models.CandidateDeath {
	var candidates []models.CandidateDeath
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := utils.CleanText(sel.Text())
		if text == "" || len(text) > 600 {
			return
		}
		if c, ok := s.toCandidate(text, pageURL, fallbackDate); ok {
			candidates = append(candidates, c)
		}
	})
	return candidates
}

func (s *TabularSource) scanProse(text, pageURL string, fallbackDate time.Time) []models.CandidateDeath {
	var candidates []models.CandidateDeath
	for _, line := range strings.Split(text, "\n") {
		if c, ok := s.toCandidate(line, pageURL, fallbackDate); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func (s *TabularSource) toCandidate(text, pageURL string, fallbackDate time.Time) (models.CandidateDeath, bool) {
	ex := utils.ExtractDeath(text)
	if ex == nil {
		return models.CandidateDeath{}, false
	}
	dod := fallbackDate
	if ex.Date != nil {
		dod = *ex.Date
	}
	return models.CandidateDeath{
		Name:        ex.Name,
		DateOfDeath: dod,
		Age:         ex.Age,
		CauseText:   text,
		SourceTag:   models.SourceTabular,
		SourceURL:   pageURL,
	}, true
}
