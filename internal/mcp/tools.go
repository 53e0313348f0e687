package mcp

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "lookup_case",
		Description: "Fetch a reported scam case by its id.",
	}, s.handleLookupCase)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "scan_url",
		Description: "Submit a suspicious URL to urlscan.io and return the latest report for its host.",
	}, s.handleScanURL)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "find_station",
		Description: "Find a police station by city and (partial) name.",
	}, s.handleFindStation)
}

type lookupCaseInput struct {
	ID      string `json:"id" jsonschema:"case id (24 hex characters)"`
	Summary bool   `json:"summary,omitempty" jsonschema:"return only id, name and email"`
}

type scanURLInput struct {
	URL string `json:"url" jsonschema:"URL or bare host name; https is assumed when no scheme is given"`
}

type findStationInput struct {
	City string `json:"city" jsonschema:"city the station is in"`
	Name string `json:"name" jsonschema:"full or partial station name, at least 2 characters"`
}

func required(name, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", errors.New(name + " must be a non-empty string")
	}
	return v, nil
}

func (s *Server) handleLookupCase(ctx context.Context, _ *sdkmcp.CallToolRequest, in lookupCaseInput) (*sdkmcp.CallToolResult, any, error) {
	id, err := required("id", in.ID)
	if err != nil {
		return nil, nil, err
	}

	q := url.Values{}
	q.Set("id", id)
	if in.Summary {
		q.Set("view", "summary")
	} else {
		q.Set("view", "full")
	}
	return s.upstream(ctx, http.MethodGet, "/api/user?"+q.Encode(), nil)
}

func (s *Server) handleScanURL(ctx context.Context, _ *sdkmcp.CallToolRequest, in scanURLInput) (*sdkmcp.CallToolResult, any, error) {
	target, err := required("url", in.URL)
	if err != nil {
		return nil, nil, err
	}
	return s.upstream(ctx, http.MethodPost, "/api/urlscan", map[string]string{"url": target})
}

func (s *Server) handleFindStation(ctx context.Context, _ *sdkmcp.CallToolRequest, in findStationInput) (*sdkmcp.CallToolResult, any, error) {
	city, err := required("city", in.City)
	if err != nil {
		return nil, nil, err
	}
	name, err := required("name", in.Name)
	if err != nil {
		return nil, nil, err
	}

	q := url.Values{}
	q.Set("city", city)
	q.Set("name", name)
	return s.upstream(ctx, http.MethodGet, "/api/station?"+q.Encode(), nil)
}
