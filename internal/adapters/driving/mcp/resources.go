package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for relevance resources.
	uriScheme = "relevance://"
)

// registerResources registers resource handlers when curated sections are wired.
func (s *Server) registerResources() {
	if s.ports.Contexts == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sections",
		Name:        "sections",
		Description: "Active curated context sections, without their content",
		MIMEType:    "application/json",
	}, s.handleSectionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "context/{section}",
		Name:        "context-section",
		Description: "Content of a curated context section",
		MIMEType:    "text/markdown",
	}, s.handleSectionResource)
}

// handleSectionsResource lists section metadata in display order.
func (s *Server) handleSectionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sections := s.ports.Contexts.List(ctx)

	type sectionInfo struct {
		Section  string `json:"section"`
		Title    string `json:"title"`
		URI      string `json:"uri"`
		Keywords string `json:"keywords"`
	}

	infos := make([]sectionInfo, len(sections))
	for i, sec := range sections {
		infos[i] = sectionInfo{
			Section:  sec.Section,
			Title:    sec.Title,
			URI:      uriScheme + "context/" + sec.Section,
			Keywords: sec.Keywords,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sections: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSectionResource returns one section's content.
func (s *Server) handleSectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractSection(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, ok := s.ports.Contexts.GetContextContent(ctx, key)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		}},
	}, nil
}

// extractSection extracts the key from a URI like relevance://context/{section}.
func extractSection(uri string) string {
	const prefix = uriScheme + "context/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
