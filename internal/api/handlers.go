// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/singwise/singwise/internal/logging"
	"github.com/singwise/singwise/internal/recommend"
	"github.com/singwise/singwise/internal/validation"
)

// maxBodyBytes bounds request bodies; history payloads are the largest
// legitimate input.
const maxBodyBytes = 8 << 20

// Handler serves the Singwise API endpoints.
type Handler struct {
	engine         *recommend.Engine
	maxPageSize    int
	requestTimeout time.Duration
}

// NewHandler creates a Handler around the engine.
func NewHandler(engine *recommend.Engine, maxPageSize int, requestTimeout time.Duration) *Handler {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &Handler{
		engine:         engine,
		maxPageSize:    maxPageSize,
		requestTimeout: requestTimeout,
	}
}

// decode reads and validates a JSON request body.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return validation.Struct(dst)
}

// requestContext derives the handler context, applying the configured
// per-request timeout when set.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.requestTimeout > 0 {
		return context.WithTimeout(r.Context(), h.requestTimeout)
	}
	return r.Context(), func() {}
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if err := decode(w, r, &req); err != nil {
		rw.ValidationError("invalid recommendation request", err.Error())
		return
	}
	for _, p := range []*PageParams{req.ForYou, req.CrowdPleasers, req.GenerateOnly} {
		if p != nil && p.Limit > h.maxPageSize {
			p.Limit = h.maxPageSize
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	bundle, err := h.engine.Recommend(ctx, req.toEngine())
	switch {
	case errors.Is(err, recommend.ErrNotReady):
		rw.ServiceUnavailable("catalog snapshot not loaded yet")
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		rw.Error(http.StatusGatewayTimeout, ErrCodeInternalError, "recommendation timed out")
		return
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
		rw.InternalError("recommendation failed")
		return
	}

	// Per-category cursors travel inside the bundle's pages field.
	rw.SuccessWithMeta(bundle, &APIMeta{
		Pagination: &PaginationMeta{Count: bundle.Size()},
	})
}

// Match handles POST /api/v1/match.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	matcher := h.engine.Matcher()
	if matcher == nil {
		rw.ServiceUnavailable("catalog snapshot not loaded yet")
		return
	}

	var req MatchRequest
	if err := decode(w, r, &req); err != nil {
		rw.ValidationError("invalid match request", err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	batch := matcher.MatchBatch(ctx, req.toInputs(), h.engine.MatchWorkers())

	resp := MatchResponse{
		Results: make([]MatchResultEntry, len(batch.Results)),
		Matched: batch.Matched,
		Skipped: batch.Skipped,
	}
	for i, res := range batch.Results {
		entry := MatchResultEntry{
			Artist:     res.Input.Artist,
			Title:      res.Input.Title,
			Confidence: res.Confidence,
			Method:     res.Method,
			Skipped:    res.Skipped,
		}
		if res.Matched() {
			entry.CatalogID = res.Entry.ID
		}
		resp.Results[i] = entry
	}

	rw.Success(resp)
}

// CatalogEntry handles GET /api/v1/catalog/{id}.
func (h *Handler) CatalogEntry(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	idx := h.engine.Catalog()
	if idx == nil {
		rw.ServiceUnavailable("catalog snapshot not loaded yet")
		return
	}

	id := chi.URLParam(r, "id")
	entry := idx.ByID(id)
	if entry == nil {
		rw.NotFound("catalog entry not found: " + id)
		return
	}

	rw.Success(entry)
}

// healthStatus is the health endpoint payload.
type healthStatus struct {
	Status         string `json:"status"`
	CatalogEntries int    `json:"catalog_entries"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := healthStatus{Status: "ok"}
	if idx := h.engine.Catalog(); idx != nil {
		status.CatalogEntries = idx.Len()
	} else {
		status.Status = "starting"
	}
	rw.Success(status)
}

// HealthLive handles GET /api/v1/health/live. The process is alive if it
// can answer at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. Ready means a catalog
// snapshot is loaded and recommendations can be served.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.engine.Ready() {
		rw.ServiceUnavailable("catalog snapshot not loaded yet")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
