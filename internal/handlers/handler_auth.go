package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/gin-gonic/gin"
)

// authHandler handles operator login.
type authHandler struct {
	authService   portssvc.OperatorAuthSvc
	googleService portssvc.GoogleOAuthSvc
}

// registerAuthRoutes sets up the public authentication routes. loginLimit may be nil.
func registerAuthRoutes(rg *gin.Engine, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := &authHandler{authService: services.Auth, googleService: services.Google}

	withLimit := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if loginLimit == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{loginLimit, handler}
	}

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", withLimit(h.login)...)
		if h.googleService != nil {
			auth.POST("/google/exchange-code", withLimit(h.exchangeCodeGoogle)...)
		}
	}
}

// login godoc
// @Summary Operator login
// @Description Authenticates the operator and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, expiresAt, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
