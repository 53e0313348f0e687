package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"antiscam/internal/models"
	"antiscam/internal/repository"
	"antiscam/internal/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportController struct {
	Reports ReportGenerator
	Cases   CaseReader
	Queue   tasks.Enqueuer
	Logger  *zap.Logger
}

type generatePDFRequest struct {
	Name           string          `json:"name"`
	Contact        string          `json:"contact"`
	Address        string          `json:"address"`
	Email          string          `json:"email"`
	Context        json.RawMessage `json:"context"`
	AdditionalInfo string          `json:"additionalInfo"`
}

// GeneratePDF prints a report for the posted case data and returns its URL.
func (rc *ReportController) GeneratePDF(c *gin.Context) {
	var req generatePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Name == "" || req.Contact == "" || req.Address == "" || req.Email == "" ||
		len(req.Context) == 0 || string(req.Context) == "null" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All required data fields must be provided"})
		return
	}

	var caseContext models.CaseContext
	if err := json.Unmarshal(req.Context, &caseContext); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All required data fields must be provided"})
		return
	}

	url, err := rc.Reports.Generate(c.Request.Context(), models.Case{
		Name:    req.Name,
		Contact: req.Contact,
		Address: req.Address,
		Email:   req.Email,
		Context: caseContext,
	}, req.AdditionalInfo)
	if err != nil {
		rc.Logger.Error("failed to generate pdf", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate and upload PDF"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pdfUrl": url})
}

type enqueueReportRequest struct {
	AdditionalInfo string `json:"additionalInfo"`
}

// EnqueueReport schedules report generation for a stored case.
func (rc *ReportController) EnqueueReport(c *gin.Context) {
	id := c.Param("id")

	var req enqueueReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	ctx := c.Request.Context()
	if _, err := rc.Cases.FindSummary(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			rc.Logger.Error("failed to load case", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	task, err := tasks.NewGenerateReportTask(id, req.AdditionalInfo)
	if err != nil {
		rc.Logger.Error("failed to build report task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	info, err := rc.Queue.EnqueueContext(ctx, task)
	if err != nil {
		rc.Logger.Error("failed to enqueue report task", zap.String("case_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule report"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"taskId": info.ID})
}
