package langflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("langflow url is not configured")
	ErrPrediction    = errors.New("langflow prediction failed")
)

// Client runs a hosted Langflow chat flow.
type Client struct {
	runURL string
	token  string
	client *http.Client
	logger *zap.Logger
}

// New takes the full run URL of the flow, e.g.
// https://api.langflow.astra.datastax.com/lf/<org>/api/v1/run/<flow>.
func New(runURL, token string, logger *zap.Logger) (*Client, error) {
	if runURL == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(runURL); err != nil {
		return nil, fmt.Errorf("invalid langflow url: %w", err)
	}
	return &Client{
		runURL: runURL,
		token:  token,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}, nil
}

func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

type runRequest struct {
	InputValue string         `json:"input_value"`
	OutputType string         `json:"output_type"`
	InputType  string         `json:"input_type"`
	Tweaks     map[string]any `json:"tweaks"`
}

type runResponse struct {
	Outputs []struct {
		Outputs []struct {
			Messages []struct {
				Message string `json:"message"`
			} `json:"messages"`
		} `json:"outputs"`
	} `json:"outputs"`
}

// firstMessage returns "" when the flow produced no chat message.
func (r runResponse) firstMessage() string {
	if len(r.Outputs) == 0 || len(r.Outputs[0].Outputs) == 0 {
		return ""
	}
	msgs := r.Outputs[0].Outputs[0].Messages
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0].Message
}

// Predict sends the described situation through the flow and returns the
// first chat message it produced.
func (c *Client) Predict(ctx context.Context, situation string) (string, error) {
	payload, err := json.Marshal(runRequest{
		InputValue: situation,
		OutputType: "chat",
		InputType:  "chat",
		Tweaks:     map[string]any{},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	u, _ := url.Parse(c.runURL)
	q := u.Query()
	q.Set("stream", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrPrediction, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrPrediction, resp.StatusCode, string(body))
	}

	var out runResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrPrediction, err)
	}

	msg := out.firstMessage()
	c.logger.Debug("langflow prediction", zap.Int("message_len", len(msg)))
	return msg, nil
}
