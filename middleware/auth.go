package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rxscan/prescription-ocr/dto"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth rejects any request whose X-API-Key header does not match the
// configured secret. The check runs before any handler work, so a rejected
// request performs no OCR and no storage calls.
func APIKeyAuth(apiKey string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(apiKeyHeader)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "MISSING_API_KEY",
				Message: "missing " + apiKeyHeader + " header",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			logger.Warn().Str("path", c.FullPath()).Msg("rejected request with invalid api key")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "INVALID_API_KEY",
				Message: "could not validate credentials",
				Code:    http.StatusForbidden,
			})
			return
		}

		c.Next()
	}
}
