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

const mdListFixture = `{
  "data": [
    {
      "id": "S1",
      "attributes": {
        "title": {"en": "Alpha"},
        "altTitles": [{"ja": "アルファ"}],
        "description": {"en": "A story."},
        "originalLanguage": "ja",
        "tags": [
          {"attributes": {"name": {"en": "Action"}}},
          {"attributes": {"name": {"ja": "名前だけ"}}}
        ]
      },
      "relationships": [
        {"id": "a1", "type": "author", "attributes": {}},
        {"id": "c1", "type": "cover_art", "attributes": {"fileName": "abc.jpg"}}
      ]
    }
  ],
  "limit": 20, "offset": 0, "total": 1
}`

const mdChapterFixture = `{
  "data": [
    {"id": "ch1", "attributes": {"title": "Begin", "chapter": "1", "publishAt": "2020-01-01T00:00:00+00:00"}},
    {"id": "ch2", "attributes": {"title": "Bonus", "chapter": "Extra"}}
  ]
}`

func newMangaDexServer(t *testing.T) (*MangaDex, *httptest.Server, *http.Request) {
	t.Helper()

	var lastReq http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastReq = *r
		switch r.URL.Path {
		case "/manga":
			_, _ = w.Write([]byte(mdListFixture))
		case "/manga/S1":
			_, _ = w.Write([]byte(`{"data":` + `{
				"id": "S1",
				"attributes": {"title": {"en": "Alpha"}, "description": {"en": "A story."}},
				"relationships": [{"id": "c1", "type": "cover_art", "attributes": {"fileName": "abc.jpg"}}]
			}` + `}`))
		case "/chapter":
			_, _ = w.Write([]byte(mdChapterFixture))
		case "/ping":
			_, _ = w.Write([]byte("pong"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)

	c := NewMangaDex()
	c.BaseURL = ts.URL
	return c, ts, &lastReq
}

func TestMangaDexFetchSeriesList(t *testing.T) {
	c, _, _ := newMangaDexServer(t)

	items := c.FetchSeriesList(context.Background(), models.Pagination{})
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "S1", item.ID)
	assert.Equal(t, "Alpha", item.Title)
	assert.Equal(t, []string{"アルファ"}, item.AltTitles)
	assert.Equal(t, "A story.", item.Description)
	assert.Equal(t, "ja", item.Language)
	// tag without an English name is dropped
	assert.Equal(t, []string{"Action"}, item.Tags)
	// cover is the full-resolution uploads URL, synthesized from the
	// bare file name on the cover_art relationship
	assert.Equal(t, "https://uploads.mangadex.org/covers/S1/abc.jpg", item.CoverURL)
}

func TestMangaDexOffsetPagination(t *testing.T) {
	c, _, lastReq := newMangaDexServer(t)

	c.FetchSeriesList(context.Background(), models.Pagination{Page: 3, Limit: 10})
	q := lastReq.URL.Query()
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "20", q.Get("offset"))
}

func TestMangaDexFetchSeriesMetadata(t *testing.T) {
	c, _, _ := newMangaDexServer(t)

	item := c.FetchSeriesMetadata(context.Background(), "S1")
	require.NotNil(t, item)
	assert.Equal(t, "Alpha", item.Title)
	assert.Equal(t, "https://uploads.mangadex.org/covers/S1/abc.jpg", item.CoverURL)

	assert.Nil(t, c.FetchSeriesMetadata(context.Background(), "missing"))
}

func TestMangaDexFetchChapters(t *testing.T) {
	c, _, lastReq := newMangaDexServer(t)

	chapters := c.FetchChapters(context.Background(), "S1", models.Pagination{})
	require.Len(t, chapters, 2)

	require.NotNil(t, chapters[0].Number)
	assert.Equal(t, 1.0, *chapters[0].Number)
	assert.Equal(t, "2020-01-01T00:00:00+00:00", chapters[0].PublishedAt)
	assert.Equal(t, "https://mangadex.org/chapter/ch1", chapters[0].URL)

	// non-numeric chapter label parses to absent, not zero
	assert.Nil(t, chapters[1].Number)

	q := lastReq.URL.Query()
	assert.Equal(t, "S1", q.Get("manga"))
	assert.Equal(t, []string{"en"}, q["translatedLanguage[]"])
}

func TestMangaDexFailSoft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewMangaDex()
	c.BaseURL = ts.URL

	assert.Empty(t, c.FetchSeriesList(context.Background(), models.Pagination{}))
	assert.Nil(t, c.FetchSeriesMetadata(context.Background(), "S1"))
	assert.Empty(t, c.FetchChapters(context.Background(), "S1", models.Pagination{}))

	h := c.HealthCheck(context.Background())
	assert.False(t, h.OK)
	assert.NotEmpty(t, h.Message)

	// unreachable host behaves the same as a 500
	ts.Close()
	assert.Empty(t, c.FetchSeriesList(context.Background(), models.Pagination{}))
}

func TestMangaDexHealthCheck(t *testing.T) {
	c, _, _ := newMangaDexServer(t)

	h := c.HealthCheck(context.Background())
	assert.True(t, h.OK)
	assert.Empty(t, h.Message)
}

func TestMangaDexChapterContentUnsupported(t *testing.T) {
	c := NewMangaDex()

	content := c.FetchChapterContent(context.Background(), "ch1")
	require.NotNil(t, content)
	assert.Empty(t, content.Images)
}
