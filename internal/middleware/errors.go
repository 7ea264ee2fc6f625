package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/3GHCRE/atlas-sub000/internal/httputil"
)

// Error codes written by middleware. The API layer uses the same strings.
const (
	codeUnauthorized = "unauthorized"
	codeRateLimited  = "rate_limited"
)

func respondError(c *gin.Context, code int, errCode, message string) {
	httputil.RespondError(c, code, errCode, message)
}
