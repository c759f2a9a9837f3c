package workers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"github.com/k3a/html2text"
	"github.com/mmcdole/gofeed"
	"gorm.io/gorm"
)

// deathKeywords gate which feed entries are worth extracting from at all.
var deathKeywords = []string{
	"dies", "died", "dead", "obituary", "passed away", "funeral",
}

const defaultFeedWindowDays = 3

// FeedSource polls the mutable RSS allow-list: every is_active feed is
// fetched, entries are filtered to death-related ones inside the recency
// window, and {name, age, cause} come out of title + body text. A broken
// feed skips only itself.
type FeedSource struct {
	DB     *gorm.DB
	Parser *gofeed.Parser
}

func NewFeedSource(db *gorm.DB) *FeedSource {
	parser := gofeed.NewParser()
	parser.Client = utils.HTTPClient
	parser.UserAgent = "deadpool-stars-aligned/1.0"
	return &FeedSource{DB: db, Parser: parser}
}

func (s *FeedSource) Name() string          { return "feed" }
func (s *FeedSource) Tag() models.SourceTag { return models.SourceFeed }

func (s *FeedSource) FetchCandidates(ctx context.Context, params FetchParams) ([]models.CandidateDeath, error) {
	var feeds []models.RSSFeed
	if err := s.DB.Where("is_active = ?", true).Find(&feeds).Error; err != nil {
		return nil, fmt.Errorf("failed to load feed list: %w", err)
	}
	if len(feeds) == 0 {
		log.Println("[feed] No active feeds configured")
		return nil, nil
	}

	days := params.Days
	if days <= 0 {
		days = defaultFeedWindowDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var candidates []models.CandidateDeath
	for _, feed := range feeds {
		items, err := s.fetchFeed(ctx, feed, cutoff)
		if err != nil {
			log.Printf("⚠️  [feed] %s (%s) failed: %v", feed.Name, feed.URL, err)
			continue
		}
		candidates = append(candidates, items...)
	}
	return candidates, nil
}

func (s *FeedSource) fetchFeed(ctx context.Context, feed models.RSSFeed, cutoff time.Time) ([]models.CandidateDeath, error) {
	parsed, err := s.Parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	var out []models.CandidateDeath
	for _, item := range parsed.Items {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published != nil && published.Before(cutoff) {
			continue
		}

		text := utils.CleanText(item.Title + ". " + html2text.HTML2Text(item.Description))
		if !containsDeathKeyword(text) {
			continue
		}

		ex := utils.ExtractDeath(text)
		if ex == nil {
			continue
		}

		dod := time.Now().UTC()
		if ex.Date != nil {
			dod = *ex.Date
		} else if published != nil {
			dod = *published
		}

		sourceURL := item.Link
		if sourceURL == "" {
			sourceURL = feed.URL
		}
		out = append(out, models.CandidateDeath{
			Name:        ex.Name,
			DateOfDeath: dod,
			Age:         ex.Age,
			CauseText:   text,
			SourceTag:   models.SourceFeed,
			SourceURL:   sourceURL,
		})
	}
	log.Printf("[feed] %s: %d entr(ies) accepted of %d", feed.Name, len(out), len(parsed.Items))
	return out, nil
}

func containsDeathKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range deathKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
