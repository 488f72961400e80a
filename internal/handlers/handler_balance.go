package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/SscSPs/balance_updater/internal/utils"
	"github.com/gin-gonic/gin"
)

// unavailableIndicator replaces the amount when the store cannot be read.
const unavailableIndicator = "Error"

// balanceHandler handles HTTP requests related to balance records.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs}
}

// RegisterBalanceRoutes registers routes related to balances. writeLimit may be nil.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, writeLimit gin.HandlerFunc) {
	h := newBalanceHandler(balanceService)

	submit := []gin.HandlerFunc{h.submitBalance}
	if writeLimit != nil {
		submit = append([]gin.HandlerFunc{writeLimit}, submit...)
	}

	balance := rg.Group("/balance")
	{
		balance.GET("", h.getCurrentBalance)
		balance.POST("", submit...)
		balance.GET("/history", h.listBalanceHistory)
	}
}

// getCurrentBalance godoc
// @Summary Get the current balance
// @Description Returns the most recent balance. hasData is false when nothing has been recorded yet.
// @Tags balance
// @Produce json
// @Success 200 {object} dto.CurrentBalanceResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.CurrentBalanceResponse "Store unreachable; formatted is \"Error\""
// @Security BearerAuth
// @Router /balance [get]
func (h *balanceHandler) getCurrentBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	current, err := h.balanceService.GetCurrentBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read current balance", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.CurrentBalanceResponse{Formatted: unavailableIndicator})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrentBalanceResponse(current))
}

// submitBalance godoc
// @Summary Record today's balance
// @Description Normalizes the raw text (e.g. "$12,345.67") and records it for the current day. Only one record per day is accepted.
// @Tags balance
// @Accept json
// @Produce json
// @Param balance body dto.SubmitBalanceRequest true "Raw balance text"
// @Success 201 {object} dto.BalanceRecordResponse
// @Failure 400 {object} dto.ErrorResponse "InvalidInput"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "DuplicateEntryForDay"
// @Failure 429 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "ConnectionFailure"
// @Security BearerAuth
// @Router /balance [post]
func (h *balanceHandler) submitBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitBalance", slog.String("error", err.Error()))
		msg := "Invalid balance input"
		if strings.TrimSpace(req.Input) == "" {
			msg = "Please enter a balance."
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg, Kind: string(apperrors.KindInvalidInput)})
		return
	}

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Operator ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.balanceService.SubmitBalance(c.Request.Context(), req.Input, operatorID)
	if err != nil {
		respondError(c, err, "Failed to record balance")
		return
	}

	logger.Info("Balance recorded via API",
		slog.String("record_id", record.RecordID),
		slog.String("formatted", utils.FormatCurrency(record.Amount)))
	c.JSON(http.StatusCreated, dto.ToBalanceRecordResponse(record))
}

// listBalanceHistory godoc
// @Summary List balance history
// @Description Lists recorded balances newest first using token-based pagination.
// @Tags balance
// @Produce json
// @Param limit query int false "Page size (1-366)" default(30)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListBalancesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /balance/history [get]
func (h *balanceHandler) listBalanceHistory(c *gin.Context) {
	var params dto.ListBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.balanceService.ListBalanceHistory(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list balance history")
		return
	}
	c.JSON(http.StatusOK, resp)
}
