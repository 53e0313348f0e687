package azure

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

// NoTextFound stands in for an image without recognizable text.
const NoTextFound = "No text found"

const apiVersion = "2023-10-01"

var (
	ErrMissingCredentials = errors.New("azure vision endpoint and key are required")
	ErrOCR                = errors.New("ocr failed")
)

// Client calls the Image Analysis read feature.
type Client struct {
	endpoint string
	key      string
	client   *http.Client
	logger   *zap.Logger
}

func New(endpoint, key string, logger *zap.Logger) (*Client, error) {
	if endpoint == "" || key == "" {
		return nil, ErrMissingCredentials
	}
	return &Client{
		endpoint: endpoint,
		key:      key,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}, nil
}

func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

type analyzeResponse struct {
	ReadResult *struct {
		Blocks []struct {
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"blocks"`
	} `json:"readResult"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ReadText returns the text lines of the image in reading order. An image
// without text yields a single NoTextFound line.
func (c *Client) ReadText(ctx context.Context, imageURL string) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"url": imageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("features", "read")
	q.Set("api-version", apiVersion)
	endpoint := c.endpoint + "/computervision/imageanalysis:analyze?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrOCR, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrOCR, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: azure vision returned status %d: %s", ErrOCR, resp.StatusCode, string(body))
	}

	var out analyzeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrOCR, err)
	}

	var lines []string
	if out.ReadResult != nil {
		for _, block := range out.ReadResult.Blocks {
			for _, line := range block.Lines {
				lines = append(lines, line.Text)
			}
		}
	}

	if len(lines) == 0 {
		c.logger.Debug("no text found in image", zap.String("url", imageURL))
		return []string{NoTextFound}, nil
	}
	return lines, nil
}
