package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mangatrack/pkg/models"
)

const (
	mangadexAPIBase     = "https://api.mangadex.org"
	mangadexUploadsBase = "https://uploads.mangadex.org"
	mangadexSiteBase    = "https://mangadex.org"
)

// MangaDex talks to the public MangaDex REST API. Pagination is
// offset-based; covers arrive as a bare file name on a cover_art
// relationship and are resolved into a full uploads URL here.
//
// FetchChapterContent always returns an empty (non-nil) result: the
// at-home content delivery flow needs a session token this connector
// does not implement, so the source is reachable but content is
// unsupported.
type MangaDex struct {
	Client     *http.Client
	BaseURL    string
	UploadsURL string
	SiteURL    string
}

func NewMangaDex() *MangaDex {
	return &MangaDex{
		Client:     &http.Client{Timeout: 12 * time.Second},
		BaseURL:    mangadexAPIBase,
		UploadsURL: mangadexUploadsBase,
		SiteURL:    mangadexSiteBase,
	}
}

func (c *MangaDex) ID() string { return "mangadex" }

type mdManga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title            map[string]string   `json:"title"`
		AltTitles        []map[string]string `json:"altTitles"`
		Description      map[string]string   `json:"description"`
		OriginalLanguage string              `json:"originalLanguage"`
		Tags             []struct {
			Attributes struct {
				Name map[string]string `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
	Relationships []struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes struct {
			FileName string `json:"fileName"`
		} `json:"attributes"`
	} `json:"relationships"`
}

type mdListResponse struct {
	Data   []mdManga `json:"data"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Total  int       `json:"total"`
}

type mdEntityResponse struct {
	Data mdManga `json:"data"`
}

type mdChapterList struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Title     string `json:"title"`
			Chapter   string `json:"chapter"`
			PublishAt string `json:"publishAt"`
		} `json:"attributes"`
	} `json:"data"`
}

func (c *MangaDex) FetchSeriesList(ctx context.Context, p models.Pagination) []models.SeriesItem {
	u, _ := url.Parse(c.BaseURL + "/manga")
	q := u.Query()
	q.Set("limit", fmt.Sprintf("%d", p.LimitOrDefault()))
	q.Set("offset", fmt.Sprintf("%d", p.Offset()))
	q.Add("contentRating[]", "safe")
	q.Add("contentRating[]", "suggestive")
	q.Add("includes[]", "cover_art")
	u.RawQuery = q.Encode()

	var md mdListResponse
	if !getJSON(ctx, c.Client, u.String(), &md) {
		return nil
	}

	items := make([]models.SeriesItem, 0, len(md.Data))
	for _, m := range md.Data {
		if m.ID == "" {
			continue
		}
		item := c.convertSeries(m)
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (c *MangaDex) FetchSeriesMetadata(ctx context.Context, seriesID string) *models.SeriesItem {
	u := fmt.Sprintf("%s/manga/%s?includes[]=cover_art", c.BaseURL, url.PathEscape(seriesID))

	var md mdEntityResponse
	if !getJSON(ctx, c.Client, u, &md) {
		return nil
	}
	if md.Data.ID == "" {
		return nil
	}

	item := c.convertSeries(md.Data)
	return &item
}

func (c *MangaDex) FetchChapters(ctx context.Context, seriesID string, p models.Pagination) []models.ChapterItem {
	u, _ := url.Parse(c.BaseURL + "/chapter")
	q := u.Query()
	q.Set("manga", seriesID)
	q.Set("limit", fmt.Sprintf("%d", p.LimitOrDefault()))
	q.Set("offset", fmt.Sprintf("%d", p.Offset()))
	q.Add("translatedLanguage[]", "en")
	q.Set("order[chapter]", "asc")
	u.RawQuery = q.Encode()

	var md mdChapterList
	if !getJSON(ctx, c.Client, u.String(), &md) {
		return nil
	}

	chapters := make([]models.ChapterItem, 0, len(md.Data))
	for _, ch := range md.Data {
		if ch.ID == "" {
			continue
		}
		chapters = append(chapters, models.ChapterItem{
			ID:          ch.ID,
			Title:       ch.Attributes.Title,
			Number:      parseNumber(ch.Attributes.Chapter),
			PublishedAt: ch.Attributes.PublishAt,
			URL:         fmt.Sprintf("%s/chapter/%s", c.SiteURL, ch.ID),
		})
	}
	return chapters
}

func (c *MangaDex) FetchChapterContent(ctx context.Context, chapterID string) *models.ChapterContent {
	// Reachable but unsupported: page delivery needs the at-home token
	// flow. Distinct from Kitsu/AniList, which have no content model.
	return &models.ChapterContent{Images: []string{}}
}

func (c *MangaDex) HealthCheck(ctx context.Context) models.ConnectorHealth {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/ping", nil)
	if err != nil {
		return models.ConnectorHealth{OK: false, Message: err.Error()}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return models.ConnectorHealth{OK: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ConnectorHealth{OK: false, Message: fmt.Sprintf("ping returned status %d", resp.StatusCode)}
	}
	return models.ConnectorHealth{OK: true}
}

func (c *MangaDex) convertSeries(m mdManga) models.SeriesItem {
	title := resolveLocalized(m.Attributes.Title, "en")

	altTitles := make([]string, 0, len(m.Attributes.AltTitles))
	for _, at := range m.Attributes.AltTitles {
		if v := resolveLocalized(at, "en"); v != "" && v != title {
			altTitles = appendIfMissing(altTitles, v)
		}
	}

	// English tag names only; tags without an English name are dropped.
	tags := make([]string, 0, len(m.Attributes.Tags))
	for _, t := range m.Attributes.Tags {
		if name := t.Attributes.Name["en"]; name != "" {
			tags = appendIfMissing(tags, name)
		}
	}

	coverURL := ""
	for _, rel := range m.Relationships {
		if rel.Type == "cover_art" && rel.Attributes.FileName != "" {
			// Full-resolution asset, no size suffix.
			coverURL = fmt.Sprintf("%s/covers/%s/%s", c.UploadsURL, m.ID, rel.Attributes.FileName)
			break
		}
	}

	return models.SeriesItem{
		ID:          m.ID,
		Title:       title,
		AltTitles:   altTitles,
		Description: resolveLocalized(m.Attributes.Description, "en"),
		Tags:        tags,
		Language:    m.Attributes.OriginalLanguage,
		CoverURL:    coverURL,
	}
}
