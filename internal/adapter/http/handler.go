package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

const defaultTimeout = 5 * time.Second

// statusOf maps a use case error to an HTTP status and the public error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrPartialOrder):
		return http.StatusBadGateway, usecase.ErrPartialOrder.Error()
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest, usecase.ErrValidation.Error()
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized, usecase.ErrUnauthorized.Error()
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden, usecase.ErrForbidden.Error()
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, usecase.ErrNotFound.Error()
	case errors.Is(err, usecase.ErrDuplicate):
		return http.StatusConflict, "duplicate_request"
	case errors.Is(err, usecase.ErrUpstream):
		return http.StatusBadGateway, usecase.ErrUpstream.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(c *gin.Context, err error) {
	status, code := statusOf(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "internal error"
	}

	body := gin.H{"success": false, "error": code, "detail": detail}
	if id := usecase.OrderIDOf(err); id != "" {
		body["order_id"] = id
	}

	if status >= http.StatusInternalServerError {
		logging.From(c).Error("request failed", "status", status, "err", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   usecase.ErrValidation.Error(),
		"detail":  detail,
	})
}

// bindJSON decodes the body into dst or answers 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// bindPatch decodes a JSON object body into a field-presence patch.
func bindPatch(c *gin.Context, schema usecase.Schema) (usecase.Patch, bool) {
	var raw map[string]json.RawMessage
	if !bindJSON(c, &raw) {
		return usecase.Patch{}, false
	}
	p, err := schema.PatchFromJSON(raw)
	if err != nil {
		writeError(c, err)
		return usecase.Patch{}, false
	}
	return p, true
}

func requestCtx(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), d)
}

func ok(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusOK, body)
}
