package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/auth"
	"filechat-lite/internal/hub"
	"filechat-lite/internal/middleware"
	"filechat-lite/internal/model"
	"filechat-lite/internal/session"
)

type AuthHandler struct {
	Sessions    *session.Store
	Hub         *hub.Hub
	TokenConfig auth.TokenConfig
	Logger      *zap.Logger
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	id, err := h.Sessions.Login(c.Request.Context(), body.Email, body.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	h.issue(c, http.StatusOK, id)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	id, err := h.Sessions.Register(c.Request.Context(), body.Username, body.Email, body.Password)
	if errors.Is(err, session.ErrInvalidRegistration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	h.issue(c, http.StatusCreated, id)
}

// Logout ends the session and drops the change feed connections opened
// under it.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := middleware.IdentityFromContext(c); ok && h.Hub != nil {
		h.Hub.Disconnect(id.ID)
	}
	h.Sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identity": id})
}

func (h *AuthHandler) issue(c *gin.Context, status int, id model.Identity) {
	token, err := auth.CreateToken(id, h.TokenConfig)
	if err != nil {
		logger(h.Logger).Error("token creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token creation failed"})
		return
	}
	c.JSON(status, gin.H{"identity": id, "token": token})
}
