package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/auth"
)

type AuthHandler struct {
	svc       SyncService
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(svc SyncService, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, jwtSecret: jwtSecret, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login is a placeholder: every login resolves to the demo user and no
// credential check is performed. Nothing downstream enforces the token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)

	user, err := h.svc.EnsureUser(c.Request.Context())
	if err != nil {
		h.logger.Error("Login: failed to resolve user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, h.jwtSecret)
	if err != nil {
		h.logger.Error("Login: failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullName": user.FullName,
		},
	}})
}
