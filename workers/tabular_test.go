package workers

import (
	"context"
	"testing"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabularSourceScrapesTableRows(t *testing.T) {
	httpmock.ActivateNonDefault(utils.HTTPClient)
	defer httpmock.DeactivateAndReset()

	page := `<html><body><table>
		<tr><td>John Doe, 82, American actor, heart failure</td></tr>
		<tr><td>Mary Major, 90, Australian singer, cancer</td></tr>
		<tr><td>Not an obituary row at all</td></tr>
	</table></body></html>`
	httpmock.RegisterResponder("GET", "https://example.com/deaths", httpmock.NewStringResponder(200, page))

	src := &TabularSource{PageURL: "https://example.com/deaths"}
	cands, err := src.FetchCandidates(context.Background(), FetchParams{GameYear: 2026})
	require.NoError(t, err)
	require.Len(t, cands, 2)

	assert.Equal(t, "John Doe", cands[0].Name)
	require.NotNil(t, cands[0].Age)
	assert.Equal(t, 82, *cands[0].Age)
	assert.Equal(t, "Mary Major", cands[1].Name)
	assert.Equal(t, models.SourceTabular, cands[0].SourceTag)
	assert.Equal(t, "https://example.com/deaths", cands[0].SourceURL)
}

func TestTabularSourceListItems(t *testing.T) {
	httpmock.ActivateNonDefault(utils.HTTPClient)
	defer httpmock.DeactivateAndReset()

	page := `<html><body><ul>
		<li>Alice Cooper-Smith, 71, British painter, stroke</li>
	</ul></body></html>`
	httpmock.RegisterResponder("GET", "https://example.com/deaths", httpmock.NewStringResponder(200, page))

	src := &TabularSource{PageURL: "https://example.com/deaths"}
	cands, err := src.FetchCandidates(context.Background(), FetchParams{GameYear: 2026})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Alice Cooper-Smith", cands[0].Name)
}

func TestTabularSourceFallsBackToProse(t *testing.T) {
	httpmock.ActivateNonDefault(utils.HTTPClient)
	defer httpmock.DeactivateAndReset()

	// No table, list, or paragraph markup at all: the structural selectors
	// come up empty and the prose scan has to find the line.
	page := `<html><body>Jane Roe, 77, died on Monday<br>weather tomorrow: mild</body></html>`
	httpmock.RegisterResponder("GET", "https://example.com/deaths", httpmock.NewStringResponder(200, page))

	src := &TabularSource{PageURL: "https://example.com/deaths"}
	cands, err := src.FetchCandidates(context.Background(), FetchParams{GameYear: 2026})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Jane Roe", cands[0].Name)
}

func TestTabularSourceFetchFailure(t *testing.T) {
	httpmock.ActivateNonDefault(utils.HTTPClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/deaths", httpmock.NewStringResponder(503, "unavailable"))

	src := &TabularSource{PageURL: "https://example.com/deaths"}
	_, err := src.FetchCandidates(context.Background(), FetchParams{GameYear: 2026})
	assert.Error(t, err)
}
