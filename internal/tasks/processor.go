package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"antiscam/internal/models"
	"antiscam/internal/repository"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type CaseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Case, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, c models.Case, additionalInfo string) (string, error)
}

// GenerateReportResult is written as the task result for status lookups.
type GenerateReportResult struct {
	CaseID string `json:"case_id"`
	PDFURL string `json:"pdf_url"`
}

// TaskProcessor holds dependencies for our task handlers
type TaskProcessor struct {
	cases   CaseFinder
	reports ReportGenerator
	logger  *zap.Logger
}

// NewTaskProcessor creates a new TaskProcessor
func NewTaskProcessor(cases CaseFinder, reports ReportGenerator, logger *zap.Logger) *TaskProcessor {
	return &TaskProcessor{
		cases:   cases,
		reports: reports,
		logger:  logger,
	}
}

// NewServeMux routes every task type to its handler.
func (p *TaskProcessor) NewServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGenerateReport, p.HandleGenerateReportTask)
	return mux
}

func (p *TaskProcessor) HandleGenerateReportTask(ctx context.Context, t *asynq.Task) error {
	var payload GenerateReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	if payload.CaseID == "" {
		return fmt.Errorf("payload has no case_id: %w", asynq.SkipRetry)
	}

	log := p.logger.With(zap.String("case_id", payload.CaseID))
	log.Info("generating case report")

	c, err := p.cases.FindByID(ctx, payload.CaseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			log.Warn("case not found, dropping report task", zap.Error(err))
			return fmt.Errorf("case %s: %v: %w", payload.CaseID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to load case: %w", err)
	}

	url, err := p.reports.Generate(ctx, *c, payload.AdditionalInfo)
	if err != nil {
		log.Error("failed to generate report", zap.Error(err))
		return err
	}

	if w := t.ResultWriter(); w != nil {
		result, _ := json.Marshal(GenerateReportResult{CaseID: payload.CaseID, PDFURL: url})
		if _, err := w.Write(result); err != nil {
			log.Warn("failed to write task result", zap.Error(err))
		}
	}

	log.Info("case report stored", zap.String("url", url))
	return nil
}
