package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/httputil"
	"github.com/3GHCRE/atlas-sub000/internal/metrics"
	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternalError    = "internal_error"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeStoreUnavailable = "store_unavailable"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service error onto its HTTP status. Unexpected
// errors are logged and hidden behind a generic message.
func respondServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case models.IsClientError(err):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, clientMessage(err))
	case errors.Is(err, models.ErrNodeNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")
	case errors.Is(err, models.ErrStoreUnavailable):
		log.WithError(err).Error(op)
		respondError(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "ownership store unavailable")
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// clientMessage returns the innermost validation message, dropping any
// wrapping added on the way up.
func clientMessage(err error) string {
	for _, sentinel := range []error{
		models.ErrMissingStartID,
		models.ErrInvalidStartID,
		models.ErrInvalidStartType,
		models.ErrInvalidDirection,
		models.ErrMaxDepthOutOfRange,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return err.Error()
}
