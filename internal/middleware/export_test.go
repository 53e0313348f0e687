package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RetellSignatureAt(apiKey string, logger *zap.Logger, now func() time.Time) gin.HandlerFunc {
	return retellSignature(apiKey, logger, now)
}
