package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"handyhub-session-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	GetSession(c *gin.Context)
	GetToken(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

// LoginRequest is the login payload. ExpirationTime may be omitted when the
// token is a JWT carrying an exp claim.
type LoginRequest struct {
	Token          string `json:"token"`
	ExpirationTime string `json:"expirationTime"`
}

type sessionResponse struct {
	IsLoggedIn  bool   `json:"isLoggedIn"`
	ExpiresAt   string `json:"expirationTime,omitempty"`
	RemainingMs int64  `json:"remainingMs"`
}

type handler struct {
	manager *Manager
	timeout time.Duration
	bearer  func(c *gin.Context) string
}

// NewHandler exposes the manager over HTTP. bearer returns the token from
// the request's Authorization header, if any.
func NewHandler(manager *Manager, timeout time.Duration, bearer func(c *gin.Context) string) Handler {
	if bearer == nil {
		bearer = func(*gin.Context) string { return "" }
	}
	return &handler{
		manager: manager,
		timeout: timeout,
		bearer:  bearer,
	}
}

func (h *handler) GetSession(c *gin.Context) {
	state := h.manager.Session()

	response := sessionResponse{IsLoggedIn: state.LoggedIn}
	if state.LoggedIn {
		response.ExpiresAt = FormatExpiration(state.ExpiresAt)
		response.RemainingMs = state.Remaining.Milliseconds()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) GetToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":      h.manager.Token(),
			"isLoggedIn": h.manager.IsLoggedIn(),
		},
	})
}

func (h *handler) Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var req LoginRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logrus.WithError(err).Warn("Invalid login payload")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"message": err.Error(),
			})
			return
		}
	}
	if req.Token == "" {
		req.Token = h.bearer(c)
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Token is required",
			"message": models.ErrTokenRequired.Error(),
		})
		return
	}

	var err error
	if req.ExpirationTime == "" {
		err = h.manager.LoginWithToken(ctx, req.Token)
	} else {
		var expiresAt time.Time
		expiresAt, err = ParseExpiration(req.ExpirationTime)
		if err == nil {
			err = h.manager.Login(ctx, req.Token, expiresAt)
		}
	}

	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to persist session"
		switch {
		case errors.Is(err, models.ErrSessionInvalid):
			status, message = http.StatusBadRequest, "Invalid expiration time"
		case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenNoExpiration):
			status, message = http.StatusBadRequest, "Expiration time is required for this token"
		case errors.Is(err, models.ErrTokenRequired):
			status, message = http.StatusBadRequest, "Token is required"
		}

		logrus.WithError(err).WithField("status", status).Warn("Login request failed")
		c.JSON(status, gin.H{
			"error":   message,
			"message": err.Error(),
		})
		return
	}

	h.GetSession(c)
}

func (h *handler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.manager.Logout(ctx); err != nil {
		logrus.WithError(err).Error("Logout did not clear storage")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to clear persisted session",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
