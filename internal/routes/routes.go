package routes

import (
	"net/http"
	"slices"
	"time"

	"antiscam/internal/config"
	"antiscam/internal/controllers"
	"antiscam/internal/logger"
	"antiscam/internal/middleware"
	"antiscam/internal/tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxMultipartMemory bounds the in-memory part of evidence uploads.
const maxMultipartMemory = 32 << 20

// Dependencies are the services the handlers call.
type Dependencies struct {
	Submitter controllers.Submitter
	Analyzer  controllers.EvidenceAnalyzer
	Cases     controllers.CaseReader
	Stations  controllers.StationFinder
	Scanner   controllers.URLScanner
	Caller    controllers.CallPlacer
	Reports   controllers.ReportGenerator
	Queue     tasks.Enqueuer
	Predictor controllers.Predictor
}

// SetupRouter initializes all controllers and API routes
func SetupRouter(deps Dependencies, cfg *config.Config, log *zap.Logger) *gin.Engine {
	submissionController := controllers.SubmissionController{Orchestrator: deps.Submitter, Logger: log}
	evidenceController := controllers.EvidenceController{Analyzer: deps.Analyzer, Logger: log}
	scanController := controllers.ScanController{Scanner: deps.Scanner, Logger: log}
	callController := controllers.CallController{Caller: deps.Caller, Logger: log}
	caseController := controllers.CaseController{Cases: deps.Cases, Logger: log}
	stationController := controllers.StationController{Stations: deps.Stations, Logger: log}
	predictionController := controllers.PredictionController{Predictor: deps.Predictor, Logger: log}
	reportController := controllers.ReportController{
		Reports: deps.Reports,
		Cases:   deps.Cases,
		Queue:   deps.Queue,
		Logger:  log,
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(logger.GinLogger(log), gin.Recovery(), cors.New(corsConfig(cfg.AllowedOrigins)))

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	api := router.Group("/api")
	{
		api.POST("/submit-form", submissionController.Submit)
		api.POST("/urlscan", scanController.Scan)

		api.POST("/call", callController.Trigger)
		api.POST("/webhook", middleware.RetellSignature(cfg.RetellAPIKey, log), callController.Webhook)

		api.GET("/user", caseController.GetUser)
		api.GET("/station", stationController.GetStation)

		// Retell custom functions
		api.POST("/proof", caseController.Proof)
		api.POST("/prediction", predictionController.Predict)

		azure := api.Group("/azure")
		{
			azure.POST("/ocr", evidenceController.OCR)
			azure.POST("/return-url", evidenceController.ReadURL)
			azure.POST("/returnUrl", evidenceController.ReadURL)
		}
		api.POST("/openai/whisper", evidenceController.Transcribe)

		api.POST("/generate-pdf", reportController.GeneratePDF)
		api.POST("/cases/:id/report", reportController.EnqueueReport)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Retell-Signature"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
