package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsportal/api/internal/middleware"
	"newsportal/api/internal/models"
	"newsportal/api/internal/repository"
)

type blockedUserResponse struct {
	UID       string                  `json:"uid"`
	FullName  string                  `json:"fullName"`
	Email     string                  `json:"email"`
	BirthYear int                     `json:"birthYear"`
	Role      models.Role             `json:"role"`
	IsBlocked bool                    `json:"isBlocked"`
	CreatedAt time.Time               `json:"createdAt"`
	Counts    models.EngagementCounts `json:"_count"`
}

func (h HandlerSet) AdminListBlocked(c *gin.Context) {
	users, err := h.users.ListBlocked(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list blocked users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	resp := make([]blockedUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, blockedUserResponse{
			UID:       u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			BirthYear: u.BirthYear,
			Role:      u.Role,
			IsBlocked: u.IsBlocked,
			CreatedAt: u.CreatedAt,
			Counts:    u.Counts,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

type toggleBlockRequest struct {
	UserID    string `json:"userId"`
	IsBlocked bool   `json:"isBlocked"`
}

func (h HandlerSet) AdminToggleBlock(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	var req toggleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userId is required"})
		return
	}

	if req.UserID == admin.ID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot change own status"})
		return
	}

	target, err := h.users.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("load target user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	// Unblocking wipes the attempt history so the counter restarts from
	// zero; blocking leaves it in place.
	if !req.IsBlocked {
		if err := h.attempts.DeleteByUser(c.Request.Context(), target.ID); err != nil {
			h.log.Error().Err(err).Msg("clear failed attempts failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
	}

	if err := h.users.SetBlocked(c.Request.Context(), target.ID, req.IsBlocked); err != nil {
		h.log.Error().Err(err).Msg("set blocked failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	message := "user unblocked"
	if req.IsBlocked {
		message = "user blocked"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user": gin.H{
			"uid":       target.ID,
			"fullName":  target.FullName,
			"email":     target.Email,
			"isBlocked": req.IsBlocked,
		},
	})
}
