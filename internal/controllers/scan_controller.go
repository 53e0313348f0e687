package controllers

import (
	"errors"
	"net/http"

	"antiscam/internal/pkg/urlscan"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const scanErrorMessage = "Invalid URL or an error occurred while processing the request"

type ScanController struct {
	Scanner URLScanner
	Logger  *zap.Logger
}

type scanRequest struct {
	URL string `json:"url"`
}

// Scan submits the URL for a reputation scan and returns the latest
// known report for its host.
func (sc *ScanController) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": scanErrorMessage})
		return
	}

	result, err := sc.Scanner.Lookup(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, urlscan.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": scanErrorMessage})
			return
		}
		sc.Logger.Error("url lookup failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": scanErrorMessage})
		return
	}

	c.JSON(http.StatusOK, result)
}
