package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/logger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

type searchResponse struct {
	Results []domain.FormattedResult `json:"results"`
	Count   int                      `json:"count"`
}

type messageRequest struct {
	Message    string `json:"message"`
	MaxResults int    `json:"max_results,omitempty"`
}

type sectionMatch struct {
	Section string  `json:"section"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

type sectionResponse struct {
	domain.ContextMetadata
	Content string `json:"content"`
}

type indexStatsResponse struct {
	Content []domain.ContentStats `json:"content"`
	Runs    []domain.IndexStatus  `json:"runs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch serves GET /v1/search?q=&limit=&type=a,b.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := domain.SearchOptions{}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	if raw := q.Get("type"); raw != "" {
		types, err := domain.ParseContentTypes(strings.Split(raw, ","))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown content type in "+strconv.Quote(raw))
			return
		}
		opts.ContentTypes = types
	}

	results := s.ports.Search.SearchWithFallback(r.Context(), q.Get("q"), opts)
	if results == nil {
		results = []domain.FormattedResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results, Count: len(results)})
}

// handleBuildContext serves POST /v1/context.
func (s *Server) handleBuildContext(w http.ResponseWriter, r *http.Request) {
	if s.ports.Orchestrator == nil {
		writeError(w, http.StatusNotImplemented, "context building is not enabled")
		return
	}
	var req messageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.ports.Orchestrator.Explain(r.Context(), req.Message))
}

// handleFindContext serves POST /v1/context/find.
func (s *Server) handleFindContext(w http.ResponseWriter, r *http.Request) {
	if s.ports.Contexts == nil {
		writeError(w, http.StatusNotImplemented, "curated context is not enabled")
		return
	}
	var req messageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	matches := s.ports.Contexts.FindRelevant(r.Context(), req.Message, req.MaxResults)
	out := make([]sectionMatch, len(matches))
	for i, m := range matches {
		out[i] = sectionMatch{Section: m.Section.Section, Title: m.Section.Title, Score: m.Score}
	}
	writeJSON(w, http.StatusOK, map[string][]sectionMatch{"sections": out})
}

// handleListSections serves GET /v1/context/sections.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	if s.ports.Contexts == nil {
		writeError(w, http.StatusNotImplemented, "curated context is not enabled")
		return
	}

	sections := s.ports.Contexts.List(r.Context())
	out := make([]domain.ContextMetadata, 0, len(sections))
	for _, sec := range sections {
		if meta, ok := s.ports.Contexts.Metadata(r.Context(), sec.Section); ok {
			out = append(out, meta)
		}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.ContextMetadata{"sections": out})
}

// handleGetSection serves GET /v1/context/sections/{section}.
func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	if s.ports.Contexts == nil {
		writeError(w, http.StatusNotImplemented, "curated context is not enabled")
		return
	}

	key := chi.URLParam(r, "section")
	meta, ok := s.ports.Contexts.Metadata(r.Context(), key)
	if !ok {
		writeError(w, http.StatusNotFound, "section not found: "+key)
		return
	}
	content, _ := s.ports.Contexts.GetContextContent(r.Context(), key)
	writeJSON(w, http.StatusOK, sectionResponse{ContextMetadata: meta, Content: content})
}

// handleIndexStats serves GET /v1/index/stats.
func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	if s.ports.Indexer == nil {
		writeError(w, http.StatusNotImplemented, "indexing is not enabled")
		return
	}

	stats, err := s.ports.Indexer.Stats(r.Context())
	if err != nil {
		logger.Error(err, "Reading index stats")
		writeError(w, http.StatusInternalServerError, "failed to read index stats")
		return
	}
	runs := s.ports.Indexer.Status(r.Context())
	if runs == nil {
		runs = []domain.IndexStatus{}
	}
	writeJSON(w, http.StatusOK, indexStatsResponse{Content: stats, Runs: runs})
}

// handleIndexAll serves POST /v1/index.
func (s *Server) handleIndexAll(w http.ResponseWriter, r *http.Request) {
	if s.ports.Indexer == nil {
		writeError(w, http.StatusNotImplemented, "indexing is not enabled")
		return
	}

	stats, err := s.ports.Indexer.IndexAll(r.Context())
	if err != nil {
		writeIndexError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleIndexType serves POST /v1/index/{type}.
func (s *Server) handleIndexType(w http.ResponseWriter, r *http.Request) {
	if s.ports.Indexer == nil {
		writeError(w, http.StatusNotImplemented, "indexing is not enabled")
		return
	}

	ct := domain.ContentType(strings.ToLower(chi.URLParam(r, "type")))
	stats, err := s.ports.Indexer.IndexContentType(r.Context(), ct)
	if err != nil {
		writeIndexError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeIndexError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownContentType):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIndexInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error(err, "Index run failed")
		writeError(w, http.StatusInternalServerError, "index run failed")
	}
}

// decodeBody decodes a JSON body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
