package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"antiscam/internal/models"
	aiclient "antiscam/internal/pkg/openai"
	"antiscam/internal/pkg/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrProcessing = errors.New("failed to process submission")
	ErrNoImages   = errors.New("no images provided")
)

type TextReader interface {
	ReadText(ctx context.Context, imageURL string) ([]string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio aiclient.Audio) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, in aiclient.SummaryInput) (string, error)
}

type CaseCreator interface {
	Create(ctx context.Context, c *models.Case) (*models.Case, error)
}

// Submission is one reporter's form post.
type Submission struct {
	Identity
	Images []storage.Asset
	Audio  *aiclient.Audio
	Extra  map[string]any
}

// ImageAnalysis holds per-image OCR output in upload order.
type ImageAnalysis struct {
	Images           []aiclient.ImageText
	ConcatenatedText string
}

// URLs lists the uploaded image URLs in upload order.
func (a *ImageAnalysis) URLs() []string {
	urls := make([]string, len(a.Images))
	for i, img := range a.Images {
		urls[i] = img.ImageURL
	}
	return urls
}

func (a *ImageAnalysis) summaryInput() aiclient.SummaryInput {
	return aiclient.SummaryInput{AnalysisResults: a.Images, ConcatenatedText: a.ConcatenatedText}
}

// Orchestrator turns raw evidence into a persisted case.
type Orchestrator struct {
	uploader    storage.Uploader
	ocr         TextReader
	transcriber Transcriber
	summarizer  Summarizer
	cases       CaseCreator
	logger      *zap.Logger
}

func NewOrchestrator(
	uploader storage.Uploader,
	ocr TextReader,
	transcriber Transcriber,
	summarizer Summarizer,
	cases CaseCreator,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		uploader:    uploader,
		ocr:         ocr,
		transcriber: transcriber,
		summarizer:  summarizer,
		cases:       cases,
		logger:      logger,
	}
}

// Submit runs the evidence stages concurrently and creates the case only
// when every stage succeeded.
func (o *Orchestrator) Submit(ctx context.Context, s Submission) (*models.Case, error) {
	if err := ValidateIdentity(&s.Identity); err != nil {
		return nil, err
	}

	var (
		imageAnalysis *string
		transcript    *string
		audioURL      *string
		imageURLs     = []string{}
	)

	g, gctx := errgroup.WithContext(ctx)

	if len(s.Images) > 0 {
		g.Go(func() error {
			analysis, err := o.AnalyzeImages(gctx, s.Images)
			if err != nil {
				return err
			}
			summary, err := o.summarizer.Summarize(gctx, analysis.summaryInput())
			if err != nil {
				return err
			}
			imageURLs = analysis.URLs()
			imageAnalysis = &summary
			return nil
		})
	}

	if s.Audio != nil {
		audio := *s.Audio
		g.Go(func() error {
			text, err := o.transcriber.Transcribe(gctx, audio)
			if err != nil {
				return err
			}
			transcript = &text
			return nil
		})
		g.Go(func() error {
			url, err := o.uploader.UploadBuffer(gctx, storage.Asset{
				Data:        audio.Data,
				ContentType: audio.ContentType,
				Kind:        storage.KindAudio,
			})
			if err != nil {
				return err
			}
			audioURL = &url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Error("submission aborted", zap.String("email", s.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	c := &models.Case{
		Name:    s.Name,
		Contact: s.Contact,
		Address: s.Address,
		Email:   s.Email,
		Context: models.CaseContext{
			ImageAnalysis:      imageAnalysis,
			AudioTranscription: transcript,
			ImageURLs:          imageURLs,
			AudioURL:           audioURL,
			Extra:              pipelineFree(s.Extra),
		},
	}

	created, err := o.cases.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	o.logger.Info("case created",
		zap.String("case_id", created.ID.Hex()),
		zap.Int("images", len(s.Images)),
		zap.Bool("audio", s.Audio != nil),
	)
	return created, nil
}

// AnalyzeImages uploads the images as one batch, then reads the text of
// each stored copy. Results keep the input order whatever order the remote
// calls finish in.
func (o *Orchestrator) AnalyzeImages(ctx context.Context, images []storage.Asset) (*ImageAnalysis, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	assets := make([]storage.Asset, len(images))
	for i, img := range images {
		img.Kind = storage.KindImage
		assets[i] = img
	}
	urls, err := o.uploader.UploadBatch(ctx, assets)
	if err != nil {
		return nil, err
	}

	results := make([]aiclient.ImageText, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			lines, err := o.ocr.ReadText(gctx, url)
			if err != nil {
				return err
			}
			results[i] = aiclient.ImageText{ImageURL: url, ReadResults: lines}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newImageAnalysis(results), nil
}

// AnalyzeImageURL reads the text of an image that is already hosted.
func (o *Orchestrator) AnalyzeImageURL(ctx context.Context, imageURL string) (*ImageAnalysis, error) {
	lines, err := o.ocr.ReadText(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	return newImageAnalysis([]aiclient.ImageText{{ImageURL: imageURL, ReadResults: lines}}), nil
}

// Summarize condenses an image analysis into the case summary text.
func (o *Orchestrator) Summarize(ctx context.Context, a *ImageAnalysis) (string, error) {
	return o.summarizer.Summarize(ctx, a.summaryInput())
}

// Transcribe converts one audio recording to text.
func (o *Orchestrator) Transcribe(ctx context.Context, audio aiclient.Audio) (string, error) {
	return o.transcriber.Transcribe(ctx, audio)
}

func newImageAnalysis(results []aiclient.ImageText) *ImageAnalysis {
	var lines []string
	for _, r := range results {
		lines = append(lines, r.ReadResults...)
	}
	return &ImageAnalysis{Images: results, ConcatenatedText: strings.Join(lines, " ")}
}

// pipelineFree drops caller keys the pipeline owns.
func pipelineFree(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		switch k {
		case models.ContextImageAnalysis, models.ContextAudioTranscription,
			models.ContextImageURLs, models.ContextAudioURL:
			continue
		}
		out[k] = v
	}
	return out
}
