package openai

import (
	"errors"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrMissingAPIKey is returned when OPENAI_API_KEY was not configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

	ErrTranscription = errors.New("transcription failed")
	ErrSummarization = errors.New("summarization failed")
)

// NewClient builds an SDK client with retries disabled; callers decide
// whether to resubmit.
func NewClient(apiKey string, opts ...option.RequestOption) (*openai.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	client := openai.NewClient(opts...)
	return &client, nil
}

// NewClientFromEnv builds a client using the OPENAI_API_KEY env var.
func NewClientFromEnv(opts ...option.RequestOption) (*openai.Client, error) {
	return NewClient(os.Getenv("OPENAI_API_KEY"), opts...)
}
