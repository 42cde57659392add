// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// relevance engine. It lets agent runtimes search indexed content and fetch
// the assembled context for a chat message.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingIndexer is returned by index tools when no indexer is wired.
var ErrMissingIndexer = errors.New("mcp: indexer is not available")
