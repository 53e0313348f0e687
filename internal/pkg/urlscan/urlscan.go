package urlscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://urlscan.io"

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrLookup     = errors.New("url lookup failed")
)

// Client submits URLs to urlscan.io and looks up prior reports.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

// Report is the subset of a search hit the UI renders.
type Report struct {
	URL          string    `json:"url"`
	Domain       string    `json:"domain"`
	IP           string    `json:"ip"`
	ASN          string    `json:"asn"`
	ASNName      string    `json:"asnname"`
	Country      string    `json:"country"`
	Server       string    `json:"server"`
	TLSIssuer    string    `json:"tlsIssuer"`
	TLSValidFrom time.Time `json:"tlsValidFrom"`
	TLSValidDays int       `json:"tlsValidDays"`
	ResultURL    string    `json:"result"`
}

// TLSValidUntil is the end of the certificate validity window.
func (r Report) TLSValidUntil() time.Time {
	if r.TLSValidFrom.IsZero() {
		return time.Time{}
	}
	return r.TLSValidFrom.AddDate(0, 0, r.TLSValidDays)
}

// LookupResult pairs the scan acknowledgement with the first prior report.
// SearchResult and Report are nil when the search found nothing.
type LookupResult struct {
	SubmittedURL string          `json:"-"`
	ScanResult   json.RawMessage `json:"scanResult"`
	SearchResult json.RawMessage `json:"searchResult,omitempty"`
	Report       *Report         `json:"report,omitempty"`
}

// NormalizeURL defaults the scheme to https and requires a host.
func NormalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}
	if !strings.HasPrefix(strings.ToLower(raw), "http") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// Lookup submits a public scan, then searches prior results for the host.
// The search runs right away and may not include the scan just submitted.
func (c *Client) Lookup(ctx context.Context, rawURL string) (*LookupResult, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	scan, err := c.submit(ctx, u.String())
	if err != nil {
		return nil, err
	}

	hit, err := c.search(ctx, u.Hostname())
	if err != nil {
		return nil, err
	}

	result := &LookupResult{SubmittedURL: u.String(), ScanResult: scan}
	if hit != nil {
		result.SearchResult = hit
		var parsed struct {
			Page   Report `json:"page"`
			Result string `json:"result"`
		}
		if err := json.Unmarshal(hit, &parsed); err == nil {
			parsed.Page.ResultURL = parsed.Result
			result.Report = &parsed.Page
		}
	}

	c.logger.Info("url looked up", zap.String("url", u.String()), zap.Bool("found", hit != nil))
	return result, nil
}

func (c *Client) submit(ctx context.Context, target string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{"url": target, "visibility": "public"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/scan/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-Key", c.apiKey)

	return c.do(req)
}

func (c *Client) search(ctx context.Context, host string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("q", "domain:"+host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/search/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("API-Key", c.apiKey)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search: %v", ErrLookup, err)
	}
	if len(out.Results) == 0 {
		return nil, nil
	}
	return out.Results[0], nil
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrLookup, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrLookup, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: urlscan returned status %d: %s", ErrLookup, resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: urlscan returned invalid json", ErrLookup)
	}
	return json.RawMessage(body), nil
}
