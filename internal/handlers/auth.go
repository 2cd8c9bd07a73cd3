package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsportal/api/internal/middleware"
	"newsportal/api/internal/models"
	"newsportal/api/internal/service"
)

type userResponse struct {
	UID       string      `json:"uid"`
	FullName  string      `json:"fullName"`
	Email     string      `json:"email"`
	BirthYear int         `json:"birthYear"`
	Role      models.Role `json:"role"`
}

func publicUser(user models.User) userResponse {
	return userResponse{
		UID:       user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		BirthYear: user.BirthYear,
		Role:      user.Role,
	}
}

type registerRequest struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	BirthYear      int    `json:"birthYear"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		BirthYear:      req.BirthYear,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "email already registered"})
		default:
			h.log.Error().Err(err).Msg("register failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    publicUser(result.User),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var credErr *service.CredentialsError
		switch {
		case errors.Is(err, service.ErrAccountBlocked):
			c.JSON(http.StatusForbidden, gin.H{"message": service.ErrAccountBlocked.Error()})
		case errors.As(err, &credErr):
			body := gin.H{"message": credErr.Error()}
			if credErr.Reveal {
				body["remainingAttempts"] = credErr.Remaining
			}
			c.JSON(http.StatusUnauthorized, body)
		default:
			h.log.Error().Err(err).Msg("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    publicUser(result.User),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicUser(user)})
}

func (h HandlerSet) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"available": false, "message": "email is required"})
		return
	}

	available, err := h.auth.EmailAvailable(c.Request.Context(), email)
	if err != nil {
		h.log.Error().Err(err).Msg("check email failed")
		// Availability probes stay permissive on backend trouble; the
		// unique constraint has the final say at registration.
		c.JSON(http.StatusOK, gin.H{"available": true, "message": "could not verify email"})
		return
	}

	message := "email available"
	if !available {
		message = "email already registered"
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "message": message})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.AuthCookieName,
		token,
		int(h.cfg.Security.SessionTTL/time.Second),
		"/",
		"",
		h.cfg.Environment == "production",
		true,
	)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.AuthCookieName,
		"",
		-1,
		"/",
		"",
		h.cfg.Environment == "production",
		true,
	)
}
