package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mangatrack/pkg/models"
)

const kitsuAPIBase = "https://kitsu.io/api/edge"

// Kitsu talks to the Kitsu JSON:API. Pagination uses page[limit] and
// page[offset] query parameters with the same offset arithmetic as
// MangaDex. Titles arrive both as a canonicalTitle field and a
// locale-keyed titles map; posters arrive as a sized-variant map from
// which the large rendition is preferred.
//
// FetchChapterContent returns nil: Kitsu has no content delivery.
type Kitsu struct {
	Client  *http.Client
	BaseURL string
}

func NewKitsu() *Kitsu {
	return &Kitsu{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: kitsuAPIBase,
	}
}

func (c *Kitsu) ID() string { return "kitsu" }

type ktManga struct {
	ID         string `json:"id"`
	Attributes struct {
		CanonicalTitle string            `json:"canonicalTitle"`
		Titles         map[string]string `json:"titles"`
		Synopsis       string            `json:"synopsis"`
		PosterImage    struct {
			Large  string `json:"large"`
			Medium string `json:"medium"`
		} `json:"posterImage"`
	} `json:"attributes"`
}

type ktMangaList struct {
	Data []ktManga `json:"data"`
}

type ktMangaOne struct {
	Data ktManga `json:"data"`
}

type ktChapterList struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			CanonicalTitle string          `json:"canonicalTitle"`
			Number         json.RawMessage `json:"number"`
			Published      string          `json:"published"`
		} `json:"attributes"`
	} `json:"data"`
}

func (c *Kitsu) FetchSeriesList(ctx context.Context, p models.Pagination) []models.SeriesItem {
	u, _ := url.Parse(c.BaseURL + "/manga")
	q := u.Query()
	q.Set("page[limit]", fmt.Sprintf("%d", p.LimitOrDefault()))
	q.Set("page[offset]", fmt.Sprintf("%d", p.Offset()))
	q.Set("sort", "-favoritesCount")
	u.RawQuery = q.Encode()

	var kt ktMangaList
	if !getJSON(ctx, c.Client, u.String(), &kt) {
		return nil
	}

	items := make([]models.SeriesItem, 0, len(kt.Data))
	for _, m := range kt.Data {
		if m.ID == "" {
			continue
		}
		items = append(items, convertKitsuManga(m))
	}
	return items
}

func (c *Kitsu) FetchSeriesMetadata(ctx context.Context, seriesID string) *models.SeriesItem {
	u := fmt.Sprintf("%s/manga/%s", c.BaseURL, url.PathEscape(seriesID))

	var kt ktMangaOne
	if !getJSON(ctx, c.Client, u, &kt) {
		return nil
	}
	if kt.Data.ID == "" {
		return nil
	}

	item := convertKitsuManga(kt.Data)
	return &item
}

func (c *Kitsu) FetchChapters(ctx context.Context, seriesID string, p models.Pagination) []models.ChapterItem {
	u, _ := url.Parse(fmt.Sprintf("%s/manga/%s/chapters", c.BaseURL, url.PathEscape(seriesID)))
	q := u.Query()
	q.Set("page[limit]", fmt.Sprintf("%d", p.LimitOrDefault()))
	q.Set("page[offset]", fmt.Sprintf("%d", p.Offset()))
	q.Set("sort", "number")
	u.RawQuery = q.Encode()

	var kt ktChapterList
	if !getJSON(ctx, c.Client, u.String(), &kt) {
		return nil
	}

	chapters := make([]models.ChapterItem, 0, len(kt.Data))
	for _, ch := range kt.Data {
		if ch.ID == "" {
			continue
		}
		chapters = append(chapters, models.ChapterItem{
			ID:          ch.ID,
			Title:       ch.Attributes.CanonicalTitle,
			Number:      numberFromRaw(ch.Attributes.Number),
			PublishedAt: ch.Attributes.Published,
			URL:         fmt.Sprintf("%s/chapters/%s", c.BaseURL, ch.ID),
		})
	}
	return chapters
}

// FetchChapterContent: Kitsu exposes chapter metadata only. Always nil.
func (c *Kitsu) FetchChapterContent(ctx context.Context, chapterID string) *models.ChapterContent {
	return nil
}

func (c *Kitsu) HealthCheck(ctx context.Context) models.ConnectorHealth {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/manga?page[limit]=1", nil)
	if err != nil {
		return models.ConnectorHealth{OK: false, Message: err.Error()}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return models.ConnectorHealth{OK: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ConnectorHealth{OK: false, Message: fmt.Sprintf("listing returned status %d", resp.StatusCode)}
	}
	return models.ConnectorHealth{OK: true}
}

func convertKitsuManga(m ktManga) models.SeriesItem {
	title := firstNonEmpty(m.Attributes.CanonicalTitle, m.Attributes.Titles["en"])
	if title == "" {
		title = resolveLocalized(m.Attributes.Titles)
	}

	// All string-valued title map entries, locale keys discarded.
	altTitles := make([]string, 0, len(m.Attributes.Titles))
	for _, v := range m.Attributes.Titles {
		if v != "" && v != title {
			altTitles = appendIfMissing(altTitles, v)
		}
	}

	return models.SeriesItem{
		ID:          m.ID,
		Title:       title,
		AltTitles:   altTitles,
		Description: m.Attributes.Synopsis,
		CoverURL:    firstNonEmpty(m.Attributes.PosterImage.Large, m.Attributes.PosterImage.Medium),
	}
}

// numberFromRaw handles the two spellings Kitsu uses for chapter
// numbers: a JSON number and a decimal-capable string. Anything
// non-numeric ("Extra") is nil.
func numberFromRaw(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s := string(raw)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return parseNumber(s)
}
