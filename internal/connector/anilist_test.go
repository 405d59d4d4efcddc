package connector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/pkg/models"
)

const alMediaFixture = `{
  "id": 42,
  "title": {"english": "", "romaji": "Alpha Tales", "native": "アルファ物語"},
  "description": "<p>Hello <b>World</b></p>",
  "genres": ["Action", "Adventure"],
  "tags": [{"name": "Action"}, {"name": "Isekai"}],
  "countryOfOrigin": "JP",
  "coverImage": {"extraLarge": "https://img.example/xl.jpg", "large": "https://img.example/l.jpg"}
}`

func newAniListServer(t *testing.T) (*AniList, *alGQLRequest) {
	t.Helper()

	var lastBody alGQLRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))

		switch {
		case strings.Contains(lastBody.Query, "Page("):
			_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"hasNextPage":true},"media":[` + alMediaFixture + `]}}}`))
		default:
			_, _ = w.Write([]byte(`{"data":{"Media":` + alMediaFixture + `}}`))
		}
	}))
	t.Cleanup(ts.Close)

	c := NewAniList()
	c.BaseURL = ts.URL
	return c, &lastBody
}

func TestAniListFetchSeriesList(t *testing.T) {
	c, lastBody := newAniListServer(t)

	items := c.FetchSeriesList(context.Background(), models.Pagination{Page: 2, Limit: 10})
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "42", item.ID)
	// english is empty, so romaji wins
	assert.Equal(t, "Alpha Tales", item.Title)
	// the non-selected native title remains as an alt
	assert.Equal(t, []string{"アルファ物語"}, item.AltTitles)
	assert.Equal(t, "Hello World", item.Description)
	// genres and tag names unioned without duplicates
	assert.Equal(t, []string{"Action", "Adventure", "Isekai"}, item.Tags)
	assert.Equal(t, "jp", item.Language)
	assert.Equal(t, "https://img.example/xl.jpg", item.CoverURL)

	// native page/perPage pagination mapped straight through
	assert.EqualValues(t, 2, lastBody.Variables["page"])
	assert.EqualValues(t, 10, lastBody.Variables["perPage"])
}

func TestAniListFetchSeriesMetadata(t *testing.T) {
	c, lastBody := newAniListServer(t)

	item := c.FetchSeriesMetadata(context.Background(), "42")
	require.NotNil(t, item)
	assert.Equal(t, "Alpha Tales", item.Title)
	assert.EqualValues(t, 42, lastBody.Variables["id"])

	// non-numeric id cannot exist on this source
	assert.Nil(t, c.FetchSeriesMetadata(context.Background(), "abc"))
}

func TestAniListChapterGap(t *testing.T) {
	// no server at all: chapter operations are declared gaps and never
	// touch the network
	c := NewAniList()
	c.BaseURL = "http://127.0.0.1:0"

	assert.Empty(t, c.FetchChapters(context.Background(), "42", models.Pagination{}))
	assert.Nil(t, c.FetchChapterContent(context.Background(), "ch1"))
}

func TestAniListFailSoft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewAniList()
	c.BaseURL = ts.URL

	assert.Empty(t, c.FetchSeriesList(context.Background(), models.Pagination{}))
	assert.Nil(t, c.FetchSeriesMetadata(context.Background(), "42"))

	h := c.HealthCheck(context.Background())
	assert.False(t, h.OK)
	assert.NotEmpty(t, h.Message)
}

func TestAniListHealthCheck(t *testing.T) {
	c, _ := newAniListServer(t)

	h := c.HealthCheck(context.Background())
	assert.True(t, h.OK)
}
