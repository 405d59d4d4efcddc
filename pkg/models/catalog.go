package models

// SeriesRecord is the stored form of a synced series. The primary key is
// "<source>:<source_id>" so the same title pulled from two sources stays
// two rows; cross-source identity resolution is out of scope here.
type SeriesRecord struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	SourceID    string   `json:"source_id"`
	Title       string   `json:"title"`
	AltTitles   []string `json:"alt_titles,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Language    string   `json:"language,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
}

// NewSeriesRecord builds the stored form from a connector item.
func NewSeriesRecord(source string, item SeriesItem) SeriesRecord {
	return SeriesRecord{
		ID:          source + ":" + item.ID,
		Source:      source,
		SourceID:    item.ID,
		Title:       item.Title,
		AltTitles:   item.AltTitles,
		Description: item.Description,
		Tags:        item.Tags,
		Language:    item.Language,
		CoverURL:    item.CoverURL,
	}
}
