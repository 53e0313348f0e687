package controllers

import (
	"context"

	"antiscam/internal/ingest"
	"antiscam/internal/models"
	aiclient "antiscam/internal/pkg/openai"
	"antiscam/internal/pkg/retell"
	"antiscam/internal/pkg/storage"
	"antiscam/internal/pkg/urlscan"
)

type Submitter interface {
	Submit(ctx context.Context, s ingest.Submission) (*models.Case, error)
}

type EvidenceAnalyzer interface {
	AnalyzeImages(ctx context.Context, images []storage.Asset) (*ingest.ImageAnalysis, error)
	AnalyzeImageURL(ctx context.Context, imageURL string) (*ingest.ImageAnalysis, error)
	Summarize(ctx context.Context, a *ingest.ImageAnalysis) (string, error)
	Transcribe(ctx context.Context, audio aiclient.Audio) (string, error)
}

type URLScanner interface {
	Lookup(ctx context.Context, rawURL string) (*urlscan.LookupResult, error)
}

type CallPlacer interface {
	CreatePhoneCall(ctx context.Context, r retell.CallRequest) (string, error)
}

type CaseReader interface {
	FindByID(ctx context.Context, id string) (*models.Case, error)
	FindSummary(ctx context.Context, id string) (*models.CaseSummary, error)
}

type StationFinder interface {
	FindByName(ctx context.Context, city, name string) (*models.Station, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, c models.Case, additionalInfo string) (string, error)
}

type Predictor interface {
	Predict(ctx context.Context, situation string) (string, error)
}
