package connector

import (
	"context"

	"mangatrack/pkg/models"
)

// Connector is implemented by each external metadata source (MangaDex,
// AniList, Kitsu). Each connector talks to its own API shape and maps
// every response into the canonical models before returning.
//
// Failure contract: these methods never surface ordinary network, HTTP
// or parse errors. A listing that cannot be fetched comes back empty, a
// single lookup that cannot be resolved comes back nil, and the caller
// treats that as "unknown" rather than an error to propagate. One dead
// source must not abort an aggregation pass across sources; HealthCheck
// exists to probe "down" versus "genuinely empty" out-of-band.
//
// Pagination.Since is accepted by every method that takes a Pagination
// and ignored by every current connector.
type Connector interface {
	// ID returns the lowercase source identifier used by the registry.
	ID() string

	// FetchSeriesList returns one page of series. Empty on any failure.
	FetchSeriesList(ctx context.Context, p models.Pagination) []models.SeriesItem

	// FetchSeriesMetadata resolves one series by its source-scoped id.
	// Nil on not-found, network error or malformed payload.
	FetchSeriesMetadata(ctx context.Context, seriesID string) *models.SeriesItem

	// FetchChapters returns one page of chapters for a series. A source
	// with no chapter model returns empty unconditionally; that is a
	// declared capability gap, not a failure.
	FetchChapters(ctx context.Context, seriesID string, p models.Pagination) []models.ChapterItem

	// FetchChapterContent returns the page images for a chapter.
	// Connectors that cannot serve content document whether they return
	// an empty non-nil result (reachable but unsupported) or nil (no
	// content model at all).
	FetchChapterContent(ctx context.Context, chapterID string) *models.ChapterContent

	// HealthCheck performs a minimal side-effect-free probe. It never
	// returns an error; unreachability is reported as OK=false with a
	// message.
	HealthCheck(ctx context.Context) models.ConnectorHealth
}
