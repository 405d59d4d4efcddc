package connector

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mangatrack/pkg/models"
)

const anilistAPIBase = "https://graphql.anilist.co"

// AniList talks to the AniList GraphQL endpoint: one POST URL, a
// query/variables body per operation, and the source's native
// page/perPage pagination mapped straight from Pagination.
//
// AniList has no chapter-level model at all, so FetchChapters returns
// empty unconditionally and FetchChapterContent returns nil. Both are
// declared capability gaps, not failures.
type AniList struct {
	Client  *http.Client
	BaseURL string
}

func NewAniList() *AniList {
	return &AniList{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: anilistAPIBase,
	}
}

func (c *AniList) ID() string { return "anilist" }

const alMediaFields = `
id
title { english romaji native }
description
genres
tags { name }
countryOfOrigin
coverImage { extraLarge large }`

const alListQuery = `query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { hasNextPage }
    media(type: MANGA, sort: POPULARITY_DESC) {` + alMediaFields + `
    }
  }
}`

const alMediaQuery = `query ($id: Int) {
  Media(id: $id, type: MANGA) {` + alMediaFields + `
  }
}`

type alGQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type alMedia struct {
	ID    int `json:"id"`
	Title struct {
		English string `json:"english"`
		Romaji  string `json:"romaji"`
		Native  string `json:"native"`
	} `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Tags        []struct {
		Name string `json:"name"`
	} `json:"tags"`
	CountryOfOrigin string `json:"countryOfOrigin"`
	CoverImage      struct {
		ExtraLarge string `json:"extraLarge"`
		Large      string `json:"large"`
	} `json:"coverImage"`
}

type alPageResponse struct {
	Data struct {
		Page struct {
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
			Media []alMedia `json:"media"`
		} `json:"Page"`
	} `json:"data"`
}

type alMediaResponse struct {
	Data struct {
		Media *alMedia `json:"Media"`
	} `json:"data"`
}

func (c *AniList) FetchSeriesList(ctx context.Context, p models.Pagination) []models.SeriesItem {
	body := alGQLRequest{
		Query: alListQuery,
		Variables: map[string]any{
			"page":    p.PageOrDefault(),
			"perPage": p.LimitOrDefault(),
		},
	}

	var resp alPageResponse
	if !postJSON(ctx, c.Client, c.BaseURL, body, &resp) {
		return nil
	}

	items := make([]models.SeriesItem, 0, len(resp.Data.Page.Media))
	for _, m := range resp.Data.Page.Media {
		if m.ID == 0 {
			continue
		}
		items = append(items, convertAniListMedia(m))
	}
	return items
}

func (c *AniList) FetchSeriesMetadata(ctx context.Context, seriesID string) *models.SeriesItem {
	id, err := strconv.Atoi(seriesID)
	if err != nil {
		return nil
	}

	body := alGQLRequest{
		Query:     alMediaQuery,
		Variables: map[string]any{"id": id},
	}

	var resp alMediaResponse
	if !postJSON(ctx, c.Client, c.BaseURL, body, &resp) {
		return nil
	}
	if resp.Data.Media == nil || resp.Data.Media.ID == 0 {
		return nil
	}

	item := convertAniListMedia(*resp.Data.Media)
	return &item
}

// FetchChapters: AniList has no chapter model. Always empty.
func (c *AniList) FetchChapters(ctx context.Context, seriesID string, p models.Pagination) []models.ChapterItem {
	return nil
}

// FetchChapterContent: no content model either. Always nil.
func (c *AniList) FetchChapterContent(ctx context.Context, chapterID string) *models.ChapterContent {
	return nil
}

func (c *AniList) HealthCheck(ctx context.Context) models.ConnectorHealth {
	body := alGQLRequest{Query: `query { Media(id: 1) { id } }`}

	var resp alMediaResponse
	if !postJSON(ctx, c.Client, c.BaseURL, body, &resp) {
		return models.ConnectorHealth{OK: false, Message: "graphql endpoint unreachable"}
	}
	return models.ConnectorHealth{OK: true}
}

func convertAniListMedia(m alMedia) models.SeriesItem {
	title := firstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native)

	// The non-selected members of {romaji, native}, non-empty only.
	altTitles := make([]string, 0, 2)
	for _, alt := range []string{m.Title.Romaji, m.Title.Native} {
		if alt = strings.TrimSpace(alt); alt != "" && alt != title {
			altTitles = appendIfMissing(altTitles, alt)
		}
	}

	// Union of the genre vocabulary and the free-form tag names.
	tags := make([]string, 0, len(m.Genres)+len(m.Tags))
	for _, g := range m.Genres {
		if g != "" {
			tags = appendIfMissing(tags, g)
		}
	}
	for _, t := range m.Tags {
		if t.Name != "" {
			tags = appendIfMissing(tags, t.Name)
		}
	}

	return models.SeriesItem{
		ID:          strconv.Itoa(m.ID),
		Title:       title,
		AltTitles:   altTitles,
		Description: stripHTML(m.Description),
		Tags:        tags,
		Language:    strings.ToLower(m.CountryOfOrigin),
		CoverURL:    firstNonEmpty(m.CoverImage.ExtraLarge, m.CoverImage.Large),
	}
}
