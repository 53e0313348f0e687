package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"antiscam/internal/models"
	"antiscam/internal/pkg/storage"

	"go.uber.org/zap"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html").
		Funcs(template.FuncMap{
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			"inc": func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/report.html"),
)

var ErrReport = errors.New("report generation failed")

var now = time.Now

type reportData struct {
	Case           models.Case
	AdditionalInfo string
	GeneratedAt    time.Time
}

// Render produces the complaint report HTML for a case.
func Render(c models.Case, additionalInfo string) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, reportData{
		Case:           c,
		AdditionalInfo: additionalInfo,
		GeneratedAt:    now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Generator renders a case report, prints it and stores the PDF.
type Generator struct {
	renderer PDFRenderer
	uploader storage.Uploader
	logger   *zap.Logger
}

func NewGenerator(renderer PDFRenderer, uploader storage.Uploader, logger *zap.Logger) *Generator {
	return &Generator{renderer: renderer, uploader: uploader, logger: logger}
}

// Generate returns the public URL of the uploaded PDF.
func (g *Generator) Generate(ctx context.Context, c models.Case, additionalInfo string) (string, error) {
	html, err := Render(c, additionalInfo)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReport, err)
	}

	pdf, err := g.renderer.RenderPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReport, err)
	}

	url, err := g.uploader.UploadBuffer(ctx, storage.Asset{
		Data:        pdf,
		ContentType: "application/pdf",
		Kind:        storage.KindDocument,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReport, err)
	}

	g.logger.Info("case report generated",
		zap.String("case_id", c.ID.Hex()),
		zap.Int("pdf_bytes", len(pdf)),
		zap.String("url", url),
	)
	return url, nil
}
