package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"antiscam/internal/pkg/retell"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RawBodyKey is where the verified request body is stored on the context.
const RawBodyKey = "rawBody"

const maxWebhookBody = 1 << 20

// RetellSignature rejects webhook calls whose x-retell-signature does not
// match the raw request body.
func RetellSignature(apiKey string, logger *zap.Logger) gin.HandlerFunc {
	return retellSignature(apiKey, logger, time.Now)
}

func retellSignature(apiKey string, logger *zap.Logger, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(retell.SignatureHeader)
		if signature == "" {
			logger.Warn("webhook without signature", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			logger.Warn("failed to read webhook body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := retell.Verify(body, apiKey, signature, now()); err != nil {
			logger.Warn("invalid webhook signature", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(RawBodyKey, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
