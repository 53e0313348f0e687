package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"antiscam/internal/models"
	"antiscam/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CaseController struct {
	Cases  CaseReader
	Logger *zap.Logger
}

// GetUser answers ?id= with the reporter's name, which is what the call agent
// reads. view=full returns the stored case and view=summary its id, name and
// email.
func (cc *CaseController) GetUser(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	ctx := c.Request.Context()
	var (
		fields any
		err    error
	)
	switch c.Query("view") {
	case "summary":
		fields, err = cc.Cases.FindSummary(ctx, id)
	case "full":
		fields, err = cc.Cases.FindByID(ctx, id)
	default:
		var found *models.Case
		if found, err = cc.Cases.FindByID(ctx, id); err == nil {
			fields = found.Name
		}
	}
	if err != nil {
		cc.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

type agentArgs struct {
	Args map[string]any `json:"args"`
}

func (a agentArgs) get(key string) string {
	v, ok := a.Args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Proof tells the voice agent whether the case has evidence attached.
func (cc *CaseController) Proof(c *gin.Context) {
	if c.ContentType() != "application/json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content-Type must be application/json"})
		return
	}

	var req agentArgs
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'user id' in request body"})
		return
	}
	id := req.get("user id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'user id' in request body"})
		return
	}

	found, err := cc.Cases.FindByID(c.Request.Context(), id)
	if err != nil {
		cc.writeLookupError(c, err)
		return
	}

	if found.Context.HasEvidence() {
		c.JSON(http.StatusOK, "Documents are uploaded")
		return
	}
	c.JSON(http.StatusOK, "No documents are uploaded")
}

func (cc *CaseController) writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		cc.Logger.Error("failed to load case", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
