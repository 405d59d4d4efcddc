package library

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mangatrack/internal/auth"
	synchub "mangatrack/internal/sync"
	"mangatrack/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *synchub.Hub
}

func NewHandler(repo *Repo, hub *synchub.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/library", h.list)
	rg.POST("/library", h.addOrUpdate)
	rg.PUT("/library/:series_id", h.addOrUpdate)
	rg.DELETE("/library/:series_id", h.remove)
	rg.GET("/library/:series_id", h.getOne)
}

type upsertReq struct {
	SeriesID       string `json:"series_id"` // required for POST
	CurrentChapter int    `json:"current_chapter"`
	Status         string `json:"status"`
}

func (h *Handler) addOrUpdate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	seriesID := strings.TrimSpace(req.SeriesID)
	if seriesID == "" {
		seriesID = strings.TrimSpace(c.Param("series_id"))
	}
	if seriesID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "series_id required"})
		return
	}

	status := normalizeStatus(req.Status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: reading, completed, wish_list, blacklist",
		})
		return
	}

	if req.CurrentChapter < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_chapter must be >= 0"})
		return
	}

	item := models.LibraryItem{
		UserID:         claims.UserID,
		SeriesID:       seriesID,
		CurrentChapter: req.CurrentChapter,
		Status:         status,
	}
	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// return the canonical stored row including updated_at
	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, seriesID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastJSON(synchub.LibraryEvent{
			Type:           "library.update",
			UserID:         claims.UserID,
			SeriesID:       seriesID,
			CurrentChapter: saved.CurrentChapter,
			Status:         saved.Status,
			At:             time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	seriesID := strings.TrimSpace(c.Param("series_id"))
	if seriesID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "series_id required"})
		return
	}

	deleted, err := h.Repo.Delete(c.Request.Context(), claims.UserID, seriesID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not in library"})
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastJSON(synchub.LibraryEvent{
			Type:     "library.delete",
			UserID:   claims.UserID,
			SeriesID: seriesID,
			At:       time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := normalizeStatus(c.Query("status"))
	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	item, err := h.Repo.Get(c.Request.Context(), claims.UserID, strings.TrimSpace(c.Param("series_id")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not in library"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// normalizeStatus maps a user-supplied status to the stored vocabulary,
// "" when unrecognized. An empty input is "" too, which list() treats
// as "no filter" and addOrUpdate treats as invalid.
func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reading":
		return "reading"
	case "completed":
		return "completed"
	case "wish_list", "wishlist":
		return "wish_list"
	case "blacklist":
		return "blacklist"
	default:
		return ""
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
