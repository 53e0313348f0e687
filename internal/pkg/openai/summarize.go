package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// NoResponseText is returned when the model produced no content.
const NoResponseText = "No response text available"

// ImageText is the OCR output of one image.
type ImageText struct {
	ImageURL    string   `json:"imageUrl,omitempty"`
	ReadResults []string `json:"readResults"`
}

// SummaryInput is sent to the model as the user message.
type SummaryInput struct {
	AnalysisResults  []ImageText `json:"analysisResults"`
	ConcatenatedText string      `json:"concatenatedText"`
}

// Summarizer condenses OCR text into a short bulleted summary.
type Summarizer struct {
	client *openai.Client
	model  openai.ChatModel
	logger *zap.Logger
}

func NewSummarizer(client *openai.Client, logger *zap.Logger) *Summarizer {
	return &Summarizer{client: client, model: openai.ChatModelGPT3_5Turbo, logger: logger}
}

func (s *Summarizer) Summarize(ctx context.Context, in SummaryInput) (string, error) {
	if in.AnalysisResults == nil {
		in.AnalysisResults = []ImageText{}
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarySystemPrompt),
			openai.UserMessage(string(payload)),
		},
		Temperature: openai.Float(1),
		MaxTokens:   openai.Int(2048),
		TopP:        openai.Float(1),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarization, err)
	}

	if len(resp.Choices) == 0 {
		return NoResponseText, nil
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return NoResponseText, nil
	}

	s.logger.Debug("summary generated", zap.Int("chars", len(content)))
	return content, nil
}
