// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/singwise/singwise/internal/catalog"
	"github.com/singwise/singwise/internal/recommend"
)

func intPtr(v int) *int { return &v }

func testEngine(loaded bool) *recommend.Engine {
	e := recommend.New(recommend.Options{Config: recommend.DefaultConfig()})
	if loaded {
		e.SetSnapshot(catalog.NewIndex([]*catalog.Entry{
			{ID: "sw-001", Artist: "Queen", Title: "Bohemian Rhapsody", Brands: []string{"a", "b"}, Popularity: intPtr(95), Year: 1975},
			{ID: "sw-002", Artist: "ABBA", Title: "Dancing Queen", Brands: []string{"a"}, Popularity: intPtr(88), Year: 1976},
			{ID: "sw-003", Artist: "Queen", Title: "Obscure B-Side", Popularity: intPtr(40), Year: 1978},
		}), nil)
	}
	return e
}

func testRouter(loaded bool) http.Handler {
	h := NewHandler(testEngine(loaded), 100, 5*time.Second)
	return NewRouter(h, RouterConfig{})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(true)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Errorf("health: code %d, success %v", rec.Code, resp.Success)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("live: code %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("ready: code %d", rec.Code)
	}
}

func TestHealthReadyBeforeSnapshot(t *testing.T) {
	rec, resp := doJSON(t, testRouter(false), http.MethodGet, "/api/v1/health/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestRecommendationsHappyPath(t *testing.T) {
	body := RecommendRequest{
		Signals: []SignalEntry{{Artist: "Queen", Source: "play_count", Strength: 300}},
	}
	rec, resp := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/recommendations", body)

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("code %d, body %s", rec.Code, rec.Body.String())
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var bundle recommend.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if bundle.Size() == 0 {
		t.Error("expected non-empty bundle")
	}
	if bundle.ColdStart {
		t.Error("expected warm profile")
	}
	if resp.Meta == nil || resp.Meta.Pagination == nil || resp.Meta.Pagination.Count != bundle.Size() {
		t.Errorf("unexpected pagination meta: %+v", resp.Meta)
	}
}

func TestRecommendationsPerCategoryPaging(t *testing.T) {
	body := RecommendRequest{
		Signals: []SignalEntry{{Artist: "Queen", Source: "play_count", Strength: 300}},
		ForYou:  &PageParams{Limit: 1},
	}
	rec, resp := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/recommendations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d, body %s", rec.Code, rec.Body.String())
	}

	raw, _ := json.Marshal(resp.Data)
	var bundle recommend.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if len(bundle.ForYou) > 1 {
		t.Errorf("for-you page limit ignored: %d results", len(bundle.ForYou))
	}
	if bundle.Pages.ForYou.Limit != 1 {
		t.Errorf("for-you cursor not echoed: %+v", bundle.Pages.ForYou)
	}
}

func TestRecommendationsGenerateOnlyFromHistory(t *testing.T) {
	body := RecommendRequest{
		History: []HistoryEntry{
			{Artist: "Queen", Title: "Obscure B-Side"},
			{Artist: "Garage Band Nine", Title: "Basement Tape"},
		},
	}
	rec, resp := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/recommendations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d, body %s", rec.Code, rec.Body.String())
	}

	raw, _ := json.Marshal(resp.Data)
	var bundle recommend.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if len(bundle.GenerateOnly) != 2 {
		t.Fatalf("expected both karaoke-less history songs, got %v", bundle.GenerateOnly)
	}
	ids := map[string]bool{}
	for _, c := range bundle.GenerateOnly {
		ids[c.ID] = true
	}
	if !ids["sw-003"] || !ids[""] {
		t.Errorf("expected matched karaoke-less song and raw entry, got %v", ids)
	}
}

func TestRecommendationsRejectsNegativeOffset(t *testing.T) {
	body := RecommendRequest{ForYou: &PageParams{Offset: -1}}
	rec, resp := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/recommendations", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestRecommendationsValidation(t *testing.T) {
	body := RecommendRequest{
		Signals: []SignalEntry{{Artist: "Queen", Source: "bogus_source"}},
	}
	rec, resp := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/recommendations", body)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestRecommendationsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	testRouter(true).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRecommendationsBeforeSnapshot(t *testing.T) {
	rec, _ := doJSON(t, testRouter(false), http.MethodPost, "/api/v1/recommendations", RecommendRequest{})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestMatchEndpoint(t *testing.T) {
	body := MatchRequest{Entries: []HistoryEntry{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "", Title: "skipped"},
		{Artist: "Nobody", Title: "Nothing Like This"},
	}}
	rec, resp := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/match", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("code %d, body %s", rec.Code, rec.Body.String())
	}

	raw, _ := json.Marshal(resp.Data)
	var mr MatchResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		t.Fatalf("decode match response: %v", err)
	}
	if len(mr.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(mr.Results))
	}
	if mr.Results[0].CatalogID != "sw-001" || mr.Results[0].Method != "exact" {
		t.Errorf("result 0: %+v", mr.Results[0])
	}
	if !mr.Results[1].Skipped {
		t.Errorf("result 1 should be skipped: %+v", mr.Results[1])
	}
	if mr.Matched != 1 || mr.Skipped != 1 {
		t.Errorf("matched/skipped = %d/%d", mr.Matched, mr.Skipped)
	}
}

func TestMatchRequiresEntries(t *testing.T) {
	rec, _ := doJSON(t, testRouter(true), http.MethodPost, "/api/v1/match", MatchRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCatalogEntry(t *testing.T) {
	router := testRouter(true)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/catalog/sw-001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d", rec.Code)
	}
	raw, _ := json.Marshal(resp.Data)
	var e catalog.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if e.ID != "sw-001" || e.Artist != "Queen" {
		t.Errorf("unexpected entry: %+v", e)
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/catalog/sw-999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	testRouter(true).ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestChartRankConversion(t *testing.T) {
	req := RecommendRequest{
		Signals: []SignalEntry{{Artist: "Queen", Source: "chart_rank", Rank: 1}},
	}
	eng := req.toEngine()
	if eng.Signals[0].Strength != 100 {
		t.Errorf("expected rank 1 converted to strength 100, got %f", eng.Signals[0].Strength)
	}
}
