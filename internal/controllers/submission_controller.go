package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"antiscam/internal/ingest"
	aiclient "antiscam/internal/pkg/openai"
	"antiscam/internal/pkg/storage"
	"antiscam/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubmissionController struct {
	Orchestrator Submitter
	Logger       *zap.Logger
}

// Submit handles the reporter form: identity fields, a JSON context and
// optional image and audio evidence.
func (sc *SubmissionController) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
		return
	}

	var extra map[string]any
	if raw := strings.TrimSpace(c.PostForm("context")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &extra); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Context must be a JSON object"})
			return
		}
	}

	images, err := readAssets(formFiles(form, "images", "imageFiles"), storage.KindImage)
	if err != nil {
		sc.Logger.Error("failed to read image upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read uploaded images"})
		return
	}

	audioFiles := formFiles(form, "audio", "audioFile")
	if len(audioFiles) > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only one audio file is allowed"})
		return
	}

	var audio *aiclient.Audio
	if len(audioFiles) == 1 {
		data, err := readFile(audioFiles[0])
		if err != nil {
			sc.Logger.Error("failed to read audio upload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read uploaded audio"})
			return
		}
		audio = &aiclient.Audio{
			Data:        data,
			ContentType: audioFiles[0].Header.Get("Content-Type"),
			Filename:    audioFiles[0].Filename,
		}
	}

	created, err := sc.Orchestrator.Submit(c.Request.Context(), ingest.Submission{
		Identity: ingest.Identity{
			Name:    c.PostForm("name"),
			Contact: c.PostForm("contact"),
			Address: c.PostForm("address"),
			Email:   c.PostForm("email"),
		},
		Images: images,
		Audio:  audio,
		Extra:  extra,
	})
	if err != nil {
		var verr *ingest.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": verr.Error()})
		case errors.Is(err, repository.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A case with this email already exists"})
		default:
			sc.Logger.Error("failed to process submission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process submitted data"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully processed and saved submitted data",
		"data":    created,
	})
}
