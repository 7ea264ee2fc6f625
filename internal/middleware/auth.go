package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/security"
)

// authTimingFloor is the minimum duration of a rejected request, so response
// time does not reveal how much of a key matched.
const authTimingFloor = 50 * time.Millisecond

func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// APIKeyAuth requires "Authorization: Bearer <key>" matching apiKey. An empty
// apiKey disables authentication. A non-nil lockout rejects clients with too
// many recent failures before the key is checked.
func APIKeyAuth(apiKey string, log *logrus.Logger, lockout *security.Lockout) gin.HandlerFunc {
	if apiKey == "" {
		return func(c *gin.Context) { c.Next() }
	}

	want := []byte(apiKey)

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		client := c.ClientIP()

		if lockout != nil && lockout.Blocked(client) {
			respondError(c, http.StatusTooManyRequests, codeRateLimited, "too many failed authentication attempts")
			return
		}

		got := ExtractBearerToken(c)
		if got == "" {
			respondError(c, http.StatusUnauthorized, codeUnauthorized, "missing or invalid authorization header")
			return
		}

		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			logAuthFailure(log, c)

			if lockout != nil {
				lockout.Fail(client)
			}

			respondError(c, http.StatusUnauthorized, codeUnauthorized, "invalid api key")
			return
		}

		if lockout != nil {
			lockout.Reset(client)
		}

		c.Next()
	}
}

// ExtractBearerToken returns the token of a Bearer Authorization header, or
// "" when the header is absent or uses another scheme.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}

func logAuthFailure(log *logrus.Logger, c *gin.Context) {
	log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
	}).Warn("authentication failed: invalid api key")
}
