package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.retellai.com"

var (
	ErrMissingAPIKey = errors.New("RETELL_API_KEY is not set")
	ErrCallFailed    = errors.New("failed to trigger call")
)

// Client places outbound calls through Retell.
type Client struct {
	apiKey     string
	fromNumber string
	toNumber   string
	baseURL    string
	client     *http.Client
	logger     *zap.Logger
}

// New creates a client. A non-empty toNumber overrides the number of every
// call, which keeps test deployments from dialing reporters.
func New(apiKey, fromNumber, toNumber string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		apiKey:     apiKey,
		fromNumber: fromNumber,
		toNumber:   toNumber,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

// CallRequest carries the case details the voice agent reads back.
type CallRequest struct {
	CaseID  string
	Name    string
	Contact string
	Address string
}

// DynamicVariables are the agent prompt variables, keyed as the agent expects.
func (r CallRequest) DynamicVariables() map[string]string {
	return map[string]string{
		"user id":        r.CaseID,
		"user name":      r.Name,
		"contact number": r.Contact,
		"address":        r.Address,
	}
}

type createPhoneCallRequest struct {
	FromNumber                string            `json:"from_number"`
	ToNumber                  string            `json:"to_number"`
	RetellLLMDynamicVariables map[string]string `json:"retell_llm_dynamic_variables"`
}

type createPhoneCallResponse struct {
	CallID     string `json:"call_id"`
	CallStatus string `json:"call_status"`
}

// CreatePhoneCall starts the call and returns its id.
func (c *Client) CreatePhoneCall(ctx context.Context, r CallRequest) (string, error) {
	to := c.toNumber
	if to == "" {
		to = r.Contact
	}

	payload, err := json.Marshal(createPhoneCallRequest{
		FromNumber:                c.fromNumber,
		ToNumber:                  to,
		RetellLLMDynamicVariables: r.DynamicVariables(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/create-phone-call", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", ErrCallFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrCallFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: retell returned status %d: %s", ErrCallFailed, resp.StatusCode, string(body))
	}

	var out createPhoneCallResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrCallFailed, err)
	}
	if out.CallID == "" {
		return "", fmt.Errorf("%w: response has no call_id", ErrCallFailed)
	}

	c.logger.Info("call triggered", zap.String("case_id", r.CaseID), zap.String("call_id", out.CallID))
	return out.CallID, nil
}
