package controllers

import (
	"errors"
	"net/http"

	aiclient "antiscam/internal/pkg/openai"
	"antiscam/internal/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EvidenceController exposes the ingestion stages one at a time.
type EvidenceController struct {
	Analyzer EvidenceAnalyzer
	Logger   *zap.Logger
}

// OCR uploads, reads and summarizes the posted images.
func (ec *EvidenceController) OCR(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
		return
	}

	files := formFiles(form, "images", "imageFiles")
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image file found"})
		return
	}

	images, err := readAssets(files, storage.KindImage)
	if err != nil {
		ec.Logger.Error("failed to read image upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read uploaded images"})
		return
	}

	ctx := c.Request.Context()
	analysis, err := ec.Analyzer.AnalyzeImages(ctx, images)
	if err != nil {
		ec.Logger.Error("failed to analyze images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process images"})
		return
	}

	summary, err := ec.Analyzer.Summarize(ctx, analysis)
	if err != nil {
		ec.Logger.Error("failed to summarize images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully processed images",
		"data":    summary,
	})
}

type imageURLRequest struct {
	ImageURL string `json:"imageUrl"`
}

// ReadURL reads the text of an already hosted image.
func (ec *EvidenceController) ReadURL(c *gin.Context) {
	var req imageURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image URL provided"})
		return
	}

	analysis, err := ec.Analyzer.AnalyzeImageURL(c.Request.Context(), req.ImageURL)
	if err != nil {
		ec.Logger.Error("failed to read image url", zap.String("image_url", req.ImageURL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"concatenatedText": analysis.ConcatenatedText,
			"analysisResults":  analysis.Images,
		},
	})
}

// Transcribe converts one posted recording to text.
func (ec *EvidenceController) Transcribe(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
		return
	}

	files := formFiles(form, "audio", "audioFile")
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No audio file provided"})
		return
	}

	data, err := readFile(files[0])
	if err != nil {
		ec.Logger.Error("failed to read audio upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read uploaded audio"})
		return
	}

	text, err := ec.Analyzer.Transcribe(c.Request.Context(), aiclient.Audio{
		Data:        data,
		ContentType: files[0].Header.Get("Content-Type"),
		Filename:    files[0].Filename,
	})
	if err != nil {
		ec.Logger.Error("failed to transcribe audio", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to transcribe audio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": text})
}
