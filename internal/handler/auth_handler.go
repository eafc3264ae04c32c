package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_api/internal/middleware"
	"github.com/GTDGit/catalog_api/internal/utils"
)

type AuthHandler struct {
	authService Authenticator
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService Authenticator, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, rateLimiter: rateLimiter}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ip := c.ClientIP()
	if h.rateLimiter != nil && h.rateLimiter.Blocked(ip) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) || errors.Is(err, utils.ErrAccountInactive) {
			if h.rateLimiter != nil {
				h.rateLimiter.Allow(ip)
			}
			utils.Error(c, 401, utils.ErrorCode(err), "Invalid credentials")
			return
		}
		_ = c.Error(err)
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
	})
}
