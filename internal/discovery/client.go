package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mangatrack/pkg/models"
)

// Client consumes a paginated listing endpoint that returns
// {items, page, hasMore} (or the legacy hasNextPage alias). Raw items
// are normalized defensively before being treated as SeriesItems,
// mirroring the adapter-boundary normalization: the endpoint may spell
// the id, title and cover fields several ways and the client resolves
// them here so nothing downstream has to.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Source  string
}

func NewClient(baseURL, source string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: baseURL,
		Source:  source,
	}
}

type rawItem struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	ExternalID string `json:"externalId"`

	Title string `json:"title"`
	Name  string `json:"name"`

	CoverURL   string `json:"coverUrl"`
	CoverImage string `json:"coverImage"`
	Cover      string `json:"cover"`
	Image      string `json:"image"`

	AltTitles   []string `json:"alt_titles"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Language    string   `json:"language"`
}

type rawPage struct {
	Items       []rawItem `json:"items"`
	Page        int       `json:"page"`
	HasMore     *bool     `json:"hasMore"`
	HasNextPage *bool     `json:"hasNextPage"`
}

// FetchPage satisfies FetchFunc.
func (c *Client) FetchPage(ctx context.Context, page, limit int) (Page, error) {
	u, err := url.Parse(c.BaseURL + "/discover")
	if err != nil {
		return Page{}, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	if c.Source != "" {
		q.Set("source", c.Source)
	}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("fetch page %d: status %d", page, resp.StatusCode)
	}

	var raw rawPage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Page{}, fmt.Errorf("decode page %d: %w", page, err)
	}

	items := make([]models.SeriesItem, 0, len(raw.Items))
	for _, r := range raw.Items {
		item := normalizeRawItem(r)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}

	return Page{Items: items, HasMore: pageHasMore(raw)}, nil
}

func normalizeRawItem(r rawItem) models.SeriesItem {
	return models.SeriesItem{
		ID:          pickField(r.ID, r.Slug, r.ExternalID),
		Title:       pickField(r.Title, r.Name),
		AltTitles:   r.AltTitles,
		Description: r.Description,
		Tags:        r.Tags,
		Language:    r.Language,
		CoverURL:    pickField(r.CoverURL, r.CoverImage, r.Cover, r.Image),
	}
}

// pageHasMore prefers the hasMore flag, falls back to the legacy
// hasNextPage alias, and assumes exhausted when neither is present.
func pageHasMore(p rawPage) bool {
	if p.HasMore != nil {
		return *p.HasMore
	}
	if p.HasNextPage != nil {
		return *p.HasNextPage
	}
	return false
}

func pickField(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
