package discovery

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mangatrack/internal/connector"
	"mangatrack/pkg/models"
)

// Handler serves the discovery feed and the per-source detail lookups.
// Lookup is swappable so tests can register fake connectors.
type Handler struct {
	Lookup func(id string) connector.Connector
}

func NewHandler() *Handler {
	return &Handler{Lookup: connector.Get}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:source/series/:id", h.series)
	rg.GET("/:source/series/:id/chapters", h.chapters)
	rg.GET("/:source/chapters/:id/content", h.content)
}

// list returns one page in the {items, page, hasMore} shape the feed
// client consumes. An unknown source yields an empty exhausted page:
// discovery degrades, it does not 500.
func (h *Handler) list(c *gin.Context) {
	source := strings.ToLower(c.DefaultQuery("source", "mangadex"))
	p := models.Pagination{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), models.DefaultPageLimit),
	}

	conn := h.Lookup(source)
	if conn == nil {
		c.JSON(http.StatusOK, gin.H{
			"items":   []models.SeriesItem{},
			"page":    p.PageOrDefault(),
			"hasMore": false,
		})
		return
	}

	items := conn.FetchSeriesList(c.Request.Context(), p)
	if items == nil {
		items = []models.SeriesItem{}
	}

	// Adapters expose no total count, so a full page means "probably
	// more". The worst case is one extra fetch that comes back empty.
	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"page":    p.PageOrDefault(),
		"hasMore": len(items) >= p.LimitOrDefault(),
	})
}

func (h *Handler) series(c *gin.Context) {
	conn := h.Lookup(strings.ToLower(c.Param("source")))
	if conn == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	item := conn.FetchSeriesMetadata(c.Request.Context(), c.Param("id"))
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "series not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) chapters(c *gin.Context) {
	conn := h.Lookup(strings.ToLower(c.Param("source")))
	if conn == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	p := models.Pagination{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), models.DefaultPageLimit),
	}

	chapters := conn.FetchChapters(c.Request.Context(), c.Param("id"), p)
	if chapters == nil {
		chapters = []models.ChapterItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": chapters,
		"page":  p.PageOrDefault(),
	})
}

func (h *Handler) content(c *gin.Context) {
	conn := h.Lookup(strings.ToLower(c.Param("source")))
	if conn == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		return
	}

	content := conn.FetchChapterContent(c.Request.Context(), c.Param("id"))
	if content == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not available"})
		return
	}
	c.JSON(http.StatusOK, content)
}

// HealthHandler reports every registered connector's reachability.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make(map[string]models.ConnectorHealth)
		for _, conn := range connector.All() {
			out[conn.ID()] = conn.HealthCheck(c.Request.Context())
		}
		c.JSON(http.StatusOK, out)
	}
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
