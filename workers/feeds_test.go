package workers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func workerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RSSFeed{}, &models.Prediction{}, &models.Player{}))
	return db
}

func rssDoc(items ...string) string {
	doc := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Obituaries</title>`
	for _, item := range items {
		doc += item
	}
	return doc + `</channel></rss>`
}

func rssItem(title, desc string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><description>%s</description><link>https://news.example.com/a</link><pubDate>%s</pubDate></item>`,
		title, desc, published.Format(time.RFC1123Z),
	)
}

func newTestFeedSource(db *gorm.DB) (*FeedSource, *http.Client) {
	client := &http.Client{}
	src := NewFeedSource(db)
	src.Parser = gofeed.NewParser()
	src.Parser.Client = client
	return src, client
}

func TestFeedSourceExtractsRecentDeaths(t *testing.T) {
	db := workerTestDB(t)
	require.NoError(t, db.Create(&models.RSSFeed{ID: uuid.NewString(), Name: "obits", URL: "https://feeds.example.com/obits", IsActive: true}).Error)

	src, client := newTestFeedSource(db)
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	now := time.Now().UTC()
	doc := rssDoc(
		rssItem("Jane Q. Public, 82, dies peacefully", "She died of cancer at home.", now.Add(-2*time.Hour)),
		rssItem("Stock markets rally", "Nothing morbid here.", now.Add(-1*time.Hour)),
		rssItem("Old Timer, 99, dies", "A death long past the window.", now.AddDate(0, 0, -30)),
	)
	httpmock.RegisterResponder("GET", "https://feeds.example.com/obits", httpmock.NewStringResponder(200, doc))

	cands, err := src.FetchCandidates(context.Background(), FetchParams{Days: 3, GameYear: now.Year()})
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, "Jane Q. Public", cands[0].Name)
	require.NotNil(t, cands[0].Age)
	assert.Equal(t, 82, *cands[0].Age)
	assert.Equal(t, models.SourceFeed, cands[0].SourceTag)
	assert.Equal(t, "https://news.example.com/a", cands[0].SourceURL)
}

func TestFeedSourceSkipsInactiveAndBrokenFeeds(t *testing.T) {
	db := workerTestDB(t)
	require.NoError(t, db.Create(&models.RSSFeed{ID: uuid.NewString(), Name: "good", URL: "https://feeds.example.com/good", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.RSSFeed{ID: uuid.NewString(), Name: "broken", URL: "https://feeds.example.com/broken", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.RSSFeed{ID: uuid.NewString(), Name: "disabled", URL: "https://feeds.example.com/disabled", IsActive: false}).Error)

	src, client := newTestFeedSource(db)
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	now := time.Now().UTC()
	httpmock.RegisterResponder("GET", "https://feeds.example.com/good",
		httpmock.NewStringResponder(200, rssDoc(rssItem("Maria Santos died at 77", "heart failure", now.Add(-time.Hour)))))
	httpmock.RegisterResponder("GET", "https://feeds.example.com/broken",
		httpmock.NewStringResponder(500, "boom"))

	cands, err := src.FetchCandidates(context.Background(), FetchParams{GameYear: now.Year()})
	require.NoError(t, err, "one broken feed must not fail the connector")
	require.Len(t, cands, 1)
	assert.Equal(t, "Maria Santos", cands[0].Name)

	// The disabled feed was never fetched.
	info := httpmock.GetCallCountInfo()
	assert.Zero(t, info["GET https://feeds.example.com/disabled"])
}

func TestFeedSourceEmptyAllowList(t *testing.T) {
	db := workerTestDB(t)
	src, client := newTestFeedSource(db)
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	cands, err := src.FetchCandidates(context.Background(), FetchParams{})
	require.NoError(t, err)
	assert.Empty(t, cands)
}
