package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes err as an ErrorResponse. AppError messages and the operator-facing kinds
// are passed through, connection failures with their store detail; anything else becomes fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)
	kind := apperrors.Kind(err)

	msg := fallback
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		msg = appErr.Message
	case kind == apperrors.KindDuplicateEntryForDay:
		msg = apperrors.ErrDuplicateEntryForDay.Error()
	case kind == apperrors.KindConnectionFailure:
		msg = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}

	resp := dto.ErrorResponse{Error: msg}
	if kind != apperrors.KindUnknown {
		resp.Kind = string(kind)
	}
	c.JSON(status, resp)
}
