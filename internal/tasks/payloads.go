package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeGenerateReport = "case:generate_report"
)

const reportMaxRetry = 3

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// GenerateReportPayload is the data a report job needs to run
type GenerateReportPayload struct {
	CaseID         string `json:"case_id"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// NewGenerateReportTask creates a new task for asynq
func NewGenerateReportTask(caseID, additionalInfo string) (*asynq.Task, error) {
	payload := GenerateReportPayload{
		CaseID:         caseID,
		AdditionalInfo: additionalInfo,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeGenerateReport, payloadBytes, asynq.MaxRetry(reportMaxRetry), asynq.Queue("default")), nil
}
