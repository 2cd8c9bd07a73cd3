package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsportal/api/internal/news"
)

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func (h HandlerSet) Headlines(c *gin.Context) {
	ratio := 0.0
	if raw := c.Query("primaryRatio"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			ratio = v
		}
	}

	resp, err := h.news.Headlines(c.Request.Context(), news.HeadlinesQuery{
		Page:             queryInt(c, "page", 1),
		PageSize:         queryInt(c, "pageSize", h.cfg.News.PageSize),
		Sources:          c.Query("sources"),
		Category:         c.Query("category"),
		PrimarySource:    c.Query("primarySource"),
		SecondarySources: c.Query("secondarySources"),
		PrimaryRatio:     ratio,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("headlines fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch headlines"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) Category(c *gin.Context) {
	category := c.DefaultQuery("category", "general")

	resp, err := h.news.Category(c.Request.Context(), category, queryInt(c, "page", 1), queryInt(c, "pageSize", h.cfg.News.PageSize))
	if err != nil {
		h.log.Error().Err(err).Msg("category fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch category news"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "query parameter is required"})
		return
	}

	resp, err := h.news.Search(c.Request.Context(), query, queryInt(c, "page", 1), queryInt(c, "pageSize", h.cfg.News.PageSize))
	if err != nil {
		h.log.Error().Err(err).Msg("news search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to search news"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReactionCounts returns aggregate up/down totals for a set of article urls.
// The urls parameter is a JSON-encoded string array; bad input yields an
// empty map rather than an error so the feed never breaks on it.
func (h HandlerSet) ReactionCounts(c *gin.Context) {
	raw := c.Query("urls")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"reactions": gin.H{}})
		return
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		c.JSON(http.StatusOK, gin.H{"reactions": gin.H{}})
		return
	}

	counts, err := h.engagement.ReactionCounts(c.Request.Context(), urls)
	if err != nil {
		h.log.Error().Err(err).Msg("reaction counts failed")
		c.JSON(http.StatusOK, gin.H{"reactions": gin.H{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reactions": counts})
}
