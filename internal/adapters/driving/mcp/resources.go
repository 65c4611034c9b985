package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for SportsCom resources.
	uriScheme = "sportscom://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "knowledge",
		Name:        "knowledge",
		Description: "Statistics about the loaded knowledge base",
		MIMEType:    "application/json",
	}, s.handleKnowledgeResource)

	// Template for the context a chat request would send.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "context/{query}",
		Name:        "context",
		Description: "Knowledge context assembled for a query, after event isolation",
		MIMEType:    "text/plain",
	}, s.handleContextResource)
}

// knowledgeInfo is the JSON body of the knowledge resource.
type knowledgeInfo struct {
	Loaded   bool   `json:"loaded"`
	Source   string `json:"source,omitempty"`
	Chunks   int    `json:"chunks"`
	Indexed  int    `json:"indexed"`
	LoadedAt string `json:"loaded_at,omitempty"`
}

// handleKnowledgeResource describes the live snapshot.
func (s *Server) handleKnowledgeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := knowledgeInfo{}
	if s.ports.Knowledge != nil {
		stats, err := s.ports.Knowledge.Stats()
		if err == nil {
			info = knowledgeInfo{
				Loaded:   true,
				Source:   stats.Source,
				Chunks:   stats.Chunks,
				Indexed:  stats.Indexed,
				LoadedAt: stats.LoadedAt.UTC().Format(time.RFC3339),
			}
		}
	}

	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshalling knowledge stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleContextResource returns the assembled context for the query in the URI.
func (s *Server) handleContextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	query := extractQuery(req.Params.URI)
	if query == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	assembled, err := s.ports.Retrieval.Context(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("assembling context: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     assembled.Text,
		}},
	}, nil
}

// extractQuery extracts the query from a URI like sportscom://context/{query}.
// The query may be percent-encoded.
func extractQuery(uri string) string {
	const prefix = uriScheme + "context/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	raw := strings.TrimPrefix(uri, prefix)
	query, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(query)
}
