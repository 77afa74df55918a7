// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package api

import (
	"github.com/singwise/singwise/internal/match"
	"github.com/singwise/singwise/internal/recommend"
	"github.com/singwise/singwise/internal/taste"
)

// HistoryEntry is one raw (artist, title) pair from listening history.
// Empty fields are accepted and counted as skipped by the matcher.
type HistoryEntry struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// SignalEntry is one precomputed affinity observation.
type SignalEntry struct {
	Artist string `json:"artist" validate:"required"`

	// Source is one of play_count, chart_rank, list_membership, manual.
	Source string `json:"source" validate:"required,oneof=play_count chart_rank list_membership manual"`

	// Strength is the raw magnitude; for chart_rank, Rank may be sent
	// instead and takes precedence.
	Strength float64 `json:"strength" validate:"gte=0"`

	// Rank is the 1-based chart position for chart_rank signals.
	Rank int `json:"rank,omitempty" validate:"gte=0"`
}

// QuizAnswers holds onboarding-quiz answers.
type QuizAnswers struct {
	Artists        []string `json:"artists,omitempty" validate:"max=200"`
	Genres         []string `json:"genres,omitempty" validate:"max=50"`
	Decades        []string `json:"decades,omitempty" validate:"max=20,dive,decade"`
	ExcludeArtists []string `json:"exclude_artists,omitempty" validate:"max=200"`
}

// PageParams windows one recommendation category. A zero limit falls back
// to the category's configured size.
type PageParams struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0"`
}

// RecommendRequest is the body of POST /api/v1/recommendations. Each
// category pages independently.
type RecommendRequest struct {
	History         []HistoryEntry `json:"history,omitempty" validate:"max=10000,dive"`
	Signals         []SignalEntry  `json:"signals,omitempty" validate:"max=10000,dive"`
	Quiz            QuizAnswers    `json:"quiz"`
	IncludeKnown    bool           `json:"include_known,omitempty"`
	ExcludeExplicit bool           `json:"exclude_explicit,omitempty"`
	ForYou          *PageParams    `json:"for_you,omitempty"`
	CrowdPleasers   *PageParams    `json:"crowd_pleasers,omitempty"`
	GenerateOnly    *PageParams    `json:"generate_only,omitempty"`
}

// toEngine converts the wire request into an engine request. Chart-rank
// signals sent as ranks are converted to strengths here.
func (req *RecommendRequest) toEngine() recommend.Request {
	out := recommend.Request{
		History:         make([]match.Input, len(req.History)),
		Signals:         make([]taste.Signal, len(req.Signals)),
		IncludeKnown:    req.IncludeKnown,
		ExcludeExplicit: req.ExcludeExplicit,
		ForYouPage:      enginePage(req.ForYou),
		CrowdPage:       enginePage(req.CrowdPleasers),
		GeneratePage:    enginePage(req.GenerateOnly),
		Quiz: taste.Quiz{
			Artists:        req.Quiz.Artists,
			Genres:         req.Quiz.Genres,
			Decades:        req.Quiz.Decades,
			ExcludeArtists: req.Quiz.ExcludeArtists,
		},
	}

	for i, h := range req.History {
		out.History[i] = match.Input{Artist: h.Artist, Title: h.Title}
	}
	for i, s := range req.Signals {
		strength := s.Strength
		if taste.Source(s.Source) == taste.SourceChartRank && s.Rank > 0 {
			strength = taste.ChartRankStrength(s.Rank)
		}
		out.Signals[i] = taste.Signal{
			Artist:   s.Artist,
			Source:   taste.Source(s.Source),
			Strength: strength,
		}
	}
	return out
}

// enginePage converts an optional wire page into an engine page.
func enginePage(p *PageParams) recommend.Page {
	if p == nil {
		return recommend.Page{}
	}
	return recommend.Page{Offset: p.Offset, Limit: p.Limit}
}

// MatchRequest is the body of POST /api/v1/match.
type MatchRequest struct {
	Entries []HistoryEntry `json:"entries" validate:"required,min=1,max=10000,dive"`
}

// toInputs converts the wire entries into matcher inputs.
func (req *MatchRequest) toInputs() []match.Input {
	out := make([]match.Input, len(req.Entries))
	for i, e := range req.Entries {
		out[i] = match.Input{Artist: e.Artist, Title: e.Title}
	}
	return out
}

// MatchResultEntry is one row of the match response.
type MatchResultEntry struct {
	Artist     string  `json:"artist"`
	Title      string  `json:"title"`
	CatalogID  string  `json:"catalog_id,omitempty"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method,omitempty"`
	Skipped    bool    `json:"skipped,omitempty"`
}

// MatchResponse is the body of the match endpoint response.
type MatchResponse struct {
	Results []MatchResultEntry `json:"results"`
	Matched int                `json:"matched"`
	Skipped int                `json:"skipped"`
}
