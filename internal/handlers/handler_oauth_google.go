package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeCodeGoogle handles the POST request from the frontend containing the authorization code from Google.
// @Summary Exchange a Google authorization code for an access token
// @Description Only the configured operator's verified Google account is accepted.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not the operator's account"
// @Failure 504 {object} dto.ErrorResponse "Google unreachable"
// @Router /auth/google/exchange-code [post]
func (h *authHandler) exchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnContext(ctx, "Failed to bind JSON for exchange code request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request: authorization code is required."})
		return
	}

	token, expiresAt, err := h.googleService.ExchangeCode(ctx, req.Code)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
