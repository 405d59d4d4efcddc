package models

// SeriesItem is the normalized, source-agnostic form of one series as
// reported by a single connector. IDs are opaque and only unique within
// their source; the (source, id) pair is the real identity.
//
// Every connector maps its vendor payload into this structure at the
// adapter boundary: locale maps are resolved to a single string, markup
// is stripped, and cover URLs are fully qualified before this value is
// handed to any consumer.
type SeriesItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	AltTitles   []string `json:"alt_titles,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Language    string   `json:"language,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
}

// ChapterItem is one chapter under a series. Number is nil when the
// source labels the chapter non-numerically ("Extra", "Oneshot").
type ChapterItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Number      *float64 `json:"number,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"` // ISO-8601
	URL         string   `json:"url"`
}

// ChapterContent is the page-image list for one chapter.
type ChapterContent struct {
	Images []string `json:"images"`
}

// Pagination is the request shape shared by all listing operations.
// Page is 1-based. Since is an incremental-sync cursor that no current
// connector honors; connectors ignore it silently rather than erroring.
type Pagination struct {
	Page  int
	Limit int
	Since string
}

const DefaultPageLimit = 20

func (p Pagination) PageOrDefault() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p Pagination) LimitOrDefault() int {
	if p.Limit < 1 {
		return DefaultPageLimit
	}
	return p.Limit
}

// Offset converts the 1-based page into a row offset for sources with
// offset-style pagination.
func (p Pagination) Offset() int {
	return (p.PageOrDefault() - 1) * p.LimitOrDefault()
}

// ConnectorHealth reports source reachability. A false OK always carries
// a message; a true OK may omit it.
type ConnectorHealth struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
