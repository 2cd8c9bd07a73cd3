package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsportal/api/internal/middleware"
	"newsportal/api/internal/models"
	"newsportal/api/internal/repository"
	"newsportal/api/internal/service"
)

type bookmarkResponse struct {
	ID          string          `json:"id"`
	ArticleURL  string          `json:"articleUrl"`
	ArticleData json.RawMessage `json:"articleData"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type reactionResponse struct {
	ID          string              `json:"id"`
	ArticleURL  string              `json:"articleUrl"`
	Type        models.ReactionType `json:"type"`
	ArticleData json.RawMessage     `json:"articleData"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func (h HandlerSet) ListBookmarks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	bookmarks, err := h.engagement.ListBookmarks(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("list bookmarks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	resp := make([]bookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		resp = append(resp, bookmarkResponse{
			ID:          b.ID,
			ArticleURL:  b.ArticleURL,
			ArticleData: b.ArticleData,
			CreatedAt:   b.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": resp})
}

// articleRequest carries the article snapshot the client saw. The snapshot
// is stored verbatim; only the url is pulled out of it.
type articleRequest struct {
	Article json.RawMessage `json:"article"`
	Type    string          `json:"type"`
}

func articleURL(snapshot json.RawMessage) string {
	var probe struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(snapshot, &probe); err != nil {
		return ""
	}
	return probe.URL
}

func (h HandlerSet) AddBookmark(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Article) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "article is required"})
		return
	}

	bookmark, err := h.engagement.AddBookmark(c.Request.Context(), user.ID, articleURL(req.Article), req.Article)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
			return
		}
		h.log.Error().Err(err).Msg("add bookmark failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "bookmark saved",
		"bookmark": bookmarkResponse{
			ID:          bookmark.ID,
			ArticleURL:  bookmark.ArticleURL,
			ArticleData: bookmark.ArticleData,
			CreatedAt:   bookmark.CreatedAt,
		},
	})
}

func (h HandlerSet) RemoveBookmark(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	articleURL := c.Query("articleUrl")
	if articleURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "articleUrl is required"})
		return
	}

	if err := h.engagement.RemoveBookmark(c.Request.Context(), user.ID, articleURL); err != nil {
		if errors.Is(err, repository.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "bookmark not found"})
			return
		}
		h.log.Error().Err(err).Msg("remove bookmark failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bookmark removed"})
}

func (h HandlerSet) ListReactions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	reactions, err := h.engagement.ListReactions(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("list reactions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	resp := make([]reactionResponse, 0, len(reactions))
	for _, r := range reactions {
		resp = append(resp, reactionResponse{
			ID:          r.ID,
			ArticleURL:  r.ArticleURL,
			Type:        r.Type,
			ArticleData: r.ArticleData,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reactions": resp})
}

func (h HandlerSet) AddReaction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Article) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "article is required"})
		return
	}

	outcome, reaction, err := h.engagement.React(
		c.Request.Context(),
		user.ID,
		articleURL(req.Article),
		models.ReactionType(req.Type),
		req.Article,
	)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
			return
		}
		h.log.Error().Err(err).Msg("reaction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	body := gin.H{
		"message": "reaction " + string(outcome),
		"action":  outcome,
	}
	if outcome != service.ReactionDeleted {
		body["reaction"] = reactionResponse{
			ID:          reaction.ID,
			ArticleURL:  reaction.ArticleURL,
			Type:        reaction.Type,
			ArticleData: reaction.ArticleData,
			CreatedAt:   reaction.CreatedAt,
			UpdatedAt:   reaction.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, body)
}
