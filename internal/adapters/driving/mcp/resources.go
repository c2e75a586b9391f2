package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for workspace resources.
	uriScheme = "annotate://"

	stateURI   = uriScheme + "state"
	historyURI = uriScheme + "history"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         stateURI,
		Name:        "state",
		Description: "Live workspace state: image, mask, annotation files and class colours",
		MIMEType:    "application/json",
	}, s.handleStateResource)

	s.server.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "history",
		Description: "Action history with the active entry",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleStateResource returns the workspace summary.
func (s *Server) handleStateResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	out := stateOutput(s.ports.Workspace)
	s.mu.Unlock()
	return jsonResource(req.Params.URI, out)
}

// handleHistoryResource returns the action log.
func (s *Server) handleHistoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	out := historyOutput(s.ports.Workspace)
	s.mu.Unlock()
	return jsonResource(req.Params.URI, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
