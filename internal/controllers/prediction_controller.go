package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictionController struct {
	Predictor Predictor
	Logger    *zap.Logger
}

// Predict asks the hosted flow what kind of scam the situation describes.
func (pc *PredictionController) Predict(c *gin.Context) {
	var req agentArgs
	if err := c.ShouldBindJSON(&req); err != nil || req.get("situation") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing situation in request body"})
		return
	}

	if pc.Predictor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Prediction is not configured"})
		return
	}

	msg, err := pc.Predictor.Predict(c.Request.Context(), req.get("situation"))
	if err != nil {
		pc.Logger.Error("prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error calling Langflow API"})
		return
	}

	c.JSON(http.StatusOK, msg)
}
