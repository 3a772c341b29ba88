// Package handlers implements the HTTP surface over the search engine:
// exact/prefix/contains search, fuzzy similar search with explanations,
// feedback ingestion, and telemetry/health introspection.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hangul-fuzzy-search/pkg/deploy"
	"hangul-fuzzy-search/pkg/feedback"
	"hangul-fuzzy-search/pkg/logger"
	"hangul-fuzzy-search/pkg/ranking"
	"hangul-fuzzy-search/pkg/searchindex"
)

// Item is the demo service's record type: an opaque payload plus the key
// the index was built against.
type Item struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SearchHandler wires the search index, feedback store, deployment
// config, and logger to the HTTP transport.
type SearchHandler struct {
	index       *searchindex.Index[Item]
	feedback    *feedback.Store
	deployment  deploy.DeploymentConfig
	environment string
	logger      logger.Logger
}

func NewSearchHandler(index *searchindex.Index[Item], store *feedback.Store, deployment deploy.DeploymentConfig, environment string, log logger.Logger) *SearchHandler {
	return &SearchHandler{index: index, feedback: store, deployment: deployment, environment: environment, logger: log}
}

// userID extracts the bucketing identity for A/B resolution: the
// X-User-Id header when present, falling back to the "userId" query
// parameter.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return r.URL.Query().Get("userId")
}

func (h *SearchHandler) sendError(w http.ResponseWriter, statusCode int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Details: details})
}

func (h *SearchHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (h *SearchHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.index.Telemetry().Snapshot())
}

func parseMode(s string) searchindex.Mode {
	switch s {
	case "prefix":
		return searchindex.Prefix
	case "exact":
		return searchindex.Exact
	default:
		return searchindex.Contains
	}
}

// Search handles GET /api/v1/search?q=...&mode=contains|prefix|exact.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")
	mode := parseMode(r.URL.Query().Get("mode"))

	results := h.index.Search(query, mode)

	h.logger.WithField("query", query).
		WithField("mode", mode.String()).
		WithField("results", len(results)).
		WithField("duration_ms", time.Since(start).Seconds()*1000).
		Info("search served")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"items": results})
}

type similarRequest struct {
	Query                 string  `json:"query"`
	Limit                 int     `json:"limit,omitempty"`
	IncludeLayoutVariants *bool   `json:"includeLayoutVariants,omitempty"`
	MinimumScore          float64 `json:"minimumScore,omitempty"`
}

func (h *SearchHandler) similarOptions(req similarRequest, r *http.Request) ranking.Options {
	opts := ranking.DefaultOptions()
	opts.Weights = h.deployment.ResolveOrDefault(h.environment, userID(r))
	if req.Limit > 0 {
		opts.Limit = req.Limit
	}
	if req.IncludeLayoutVariants != nil {
		opts.IncludeLayoutVariants = *req.IncludeLayoutVariants
	}
	if req.MinimumScore > 0 {
		opts.MinimumScore = req.MinimumScore
	}
	return opts
}

// Similar handles POST /api/v1/similar: ranked fuzzy search tolerant of
// typos and keyboard-layout slips.
func (h *SearchHandler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	results := h.index.SearchSimilar(req.Query, h.similarOptions(req, r))

	h.logger.WithField("query", req.Query).
		WithField("results", len(results)).
		WithField("duration_ms", time.Since(start).Seconds()*1000).
		Info("similar search served")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

// Explain handles POST /api/v1/explain: Similar plus the full scoring
// breakdown behind each result.
func (h *SearchHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	results := h.index.ExplainSimilar(req.Query, h.similarOptions(req, r))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

type feedbackRequest struct {
	Query       string `json:"query"`
	SelectedKey string `json:"selectedKey,omitempty"`
	Outcome     string `json:"outcome"`
	Locale      string `json:"locale,omitempty"`
}

func parseOutcome(s string) feedback.Outcome {
	switch s {
	case "acceptedSuggestion":
		return feedback.AcceptedSuggestion
	case "clickedResult":
		return feedback.ClickedResult
	case "noSuggestion":
		return feedback.NoSuggestion
	default:
		return feedback.Unknown
	}
}

// Feedback handles POST /api/v1/feedback: records one click-through event
// for the nightly weight tuner to train against.
func (h *SearchHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.feedback.Record(feedback.Event{
		Query:       req.Query,
		SelectedKey: req.SelectedKey,
		Timestamp:   time.Now(),
		Outcome:     parseOutcome(req.Outcome),
		Locale:      req.Locale,
	}, time.Now())

	w.WriteHeader(http.StatusAccepted)
}

// FeedbackSummary handles GET /api/v1/feedback/summary?top=N.
func (h *SearchHandler) FeedbackSummary(w http.ResponseWriter, r *http.Request) {
	topN := 20
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil {
			topN = n
		}
	}
	body, err := h.feedback.SummaryJSON(topN, time.Now())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to build summary", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
