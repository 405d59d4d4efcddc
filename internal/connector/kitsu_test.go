package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/pkg/models"
)

const ktMangaFixture = `{
  "id": "77",
  "attributes": {
    "canonicalTitle": "",
    "titles": {"en": "Beta Saga", "ja_jp": "ベータ"},
    "synopsis": "A quiet story.",
    "posterImage": {"large": "", "medium": "https://media.example/m.jpg"}
  }
}`

const ktChapterFixture = `{
  "data": [
    {"id": "c1", "attributes": {"canonicalTitle": "Half Step", "number": "12.5", "published": "2021-06-01"}},
    {"id": "c2", "attributes": {"canonicalTitle": "Side Story", "number": "Extra"}},
    {"id": "c3", "attributes": {"canonicalTitle": "Thirteen", "number": 13}}
  ]
}`

func newKitsuServer(t *testing.T) (*Kitsu, *http.Request) {
	t.Helper()

	var lastReq http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastReq = *r
		switch r.URL.Path {
		case "/manga":
			_, _ = w.Write([]byte(`{"data":[` + ktMangaFixture + `]}`))
		case "/manga/77":
			_, _ = w.Write([]byte(`{"data":` + ktMangaFixture + `}`))
		case "/manga/77/chapters":
			_, _ = w.Write([]byte(ktChapterFixture))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)

	c := NewKitsu()
	c.BaseURL = ts.URL
	return c, &lastReq
}

func TestKitsuFetchSeriesList(t *testing.T) {
	c, lastReq := newKitsuServer(t)

	items := c.FetchSeriesList(context.Background(), models.Pagination{Page: 2, Limit: 10})
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "77", item.ID)
	// canonicalTitle is empty, so the English titles entry wins
	assert.Equal(t, "Beta Saga", item.Title)
	assert.Equal(t, []string{"ベータ"}, item.AltTitles)
	assert.Equal(t, "A quiet story.", item.Description)
	// large rendition is empty, medium is the fallback
	assert.Equal(t, "https://media.example/m.jpg", item.CoverURL)

	q := lastReq.URL.Query()
	assert.Equal(t, "10", q.Get("page[limit]"))
	assert.Equal(t, "10", q.Get("page[offset]"))
	assert.Equal(t, "-favoritesCount", q.Get("sort"))
}

func TestKitsuFetchSeriesMetadata(t *testing.T) {
	c, _ := newKitsuServer(t)

	item := c.FetchSeriesMetadata(context.Background(), "77")
	require.NotNil(t, item)
	assert.Equal(t, "Beta Saga", item.Title)

	assert.Nil(t, c.FetchSeriesMetadata(context.Background(), "missing"))
}

func TestKitsuFetchChapters(t *testing.T) {
	c, lastReq := newKitsuServer(t)

	chapters := c.FetchChapters(context.Background(), "77", models.Pagination{})
	require.Len(t, chapters, 3)

	// decimal-capable string
	require.NotNil(t, chapters[0].Number)
	assert.Equal(t, 12.5, *chapters[0].Number)
	assert.Equal(t, "2021-06-01", chapters[0].PublishedAt)

	// non-numeric label is absent, not an error and not zero
	assert.Nil(t, chapters[1].Number)

	// plain JSON number also accepted
	require.NotNil(t, chapters[2].Number)
	assert.Equal(t, 13.0, *chapters[2].Number)

	assert.Equal(t, "number", lastReq.URL.Query().Get("sort"))
}

func TestKitsuFailSoft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewKitsu()
	c.BaseURL = ts.URL

	assert.Empty(t, c.FetchSeriesList(context.Background(), models.Pagination{}))
	assert.Nil(t, c.FetchSeriesMetadata(context.Background(), "77"))
	assert.Empty(t, c.FetchChapters(context.Background(), "77", models.Pagination{}))

	h := c.HealthCheck(context.Background())
	assert.False(t, h.OK)
	assert.NotEmpty(t, h.Message)
}

func TestKitsuHealthCheck(t *testing.T) {
	c, _ := newKitsuServer(t)

	h := c.HealthCheck(context.Background())
	assert.True(t, h.OK)
}

func TestKitsuChapterContentUnsupported(t *testing.T) {
	c := NewKitsu()
	assert.Nil(t, c.FetchChapterContent(context.Background(), "c1"))
}
