package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server exposes the case, scan and station lookups of the HTTP API as MCP
// tools.
type Server struct {
	MCPServer *sdkmcp.Server

	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewServer(baseURL, version string, logger *zap.Logger) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "antiscam", Version: version}, nil),
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Run serves one session on t until the peer disconnects, the transport
// fails or ctx is done.
func (s *Server) Run(ctx context.Context, t sdkmcp.Transport) error {
	err := s.MCPServer.Run(ctx, t)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("mcp session ended", zap.Error(err))
	}
	return err
}

func textResult(text string, isError bool) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: isError,
	}
}

// upstream calls the API and hands its body back as text. A non-2xx answer
// becomes a tool error carrying the API's message.
func (s *Server) upstream(ctx context.Context, method, path string, body any) (*sdkmcp.CallToolResult, any, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.logger.Debug("calling upstream", zap.String("method", method), zap.String("path", path))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		s.logger.Warn("upstream rejected tool call",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return textResult(fmt.Sprintf("upstream error: %s: %s", resp.Status, data), true), nil, nil
	}

	return textResult(string(data), false), nil, nil
}
