// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package recommend scores karaoke catalog entries against a user's taste
// profile and assembles the categorized recommendation bundle.
package recommend

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/singwise/singwise/internal/catalog"
	"github.com/singwise/singwise/internal/match"
	"github.com/singwise/singwise/internal/taste"
)

// Reason explains why a song was recommended. When several signals
// contribute equally, the earlier reason in declaration order wins.
type Reason int

const (
	// ReasonKnownArtist marks songs by artists the user already plays.
	ReasonKnownArtist Reason = iota

	// ReasonCollaborativeSimilar marks songs by artists similar to the
	// user's artists.
	ReasonCollaborativeSimilar

	// ReasonCrowdPleaser marks broadly popular, widely carried songs.
	ReasonCrowdPleaser

	// ReasonGenreMatch marks songs matching a quiz genre preference.
	ReasonGenreMatch

	// ReasonDecadeMatch marks songs matching a quiz decade preference.
	ReasonDecadeMatch

	// ReasonGenerateOnly marks songs from the user's own history that no
	// karaoke brand carries, offered for on-the-fly track generation.
	ReasonGenerateOnly
)

var reasonNames = map[Reason]string{
	ReasonKnownArtist:          "known_artist",
	ReasonCollaborativeSimilar: "collaborative_similar",
	ReasonCrowdPleaser:         "crowd_pleaser",
	ReasonGenreMatch:           "genre_match",
	ReasonDecadeMatch:          "decade_match",
	ReasonGenerateOnly:         "generate_only",
}

// String returns the wire name of the reason.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the reason as its wire name.
func (r Reason) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON decodes a reason from its wire name.
func (r *Reason) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for reason, n := range reasonNames {
		if n == name {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", name)
}

// SignalValues is the per-signal score breakdown of a candidate.
type SignalValues struct {
	Affinity      float64 `json:"affinity"`
	Collaborative float64 `json:"collaborative"`
	Popularity    float64 `json:"popularity"`
	Availability  float64 `json:"availability"`
	Genre         float64 `json:"genre"`
	Decade        float64 `json:"decade"`
}

// ScoredCandidate is one recommended song. Create-your-own candidates
// built from unresolved history entries have no catalog ID.
type ScoredCandidate struct {
	ID      string       `json:"id,omitempty"`
	Artist  string       `json:"artist"`
	Title   string       `json:"title"`
	Brands  []string     `json:"brands,omitempty"`
	Year    int          `json:"year,omitempty"`
	Genres  []string     `json:"genres,omitempty"`
	Score   float64      `json:"score"`
	Reason  Reason       `json:"reason"`
	Signals SignalValues `json:"signals"`

	// artistKey is the normalized artist, used by the per-artist cap.
	artistKey string

	// entry is the backing catalog row; nil for unresolved history
	// entries.
	entry *catalog.Entry
}

// Entry returns the underlying catalog entry, nil for candidates built
// from unresolved history entries.
func (c *ScoredCandidate) Entry() *catalog.Entry {
	return c.entry
}

// Page is one category's pagination window. A zero limit falls back to
// the category's configured size.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Request is one recommendation request.
type Request struct {
	// History is the raw listening history to match against the catalog.
	History []match.Input

	// Signals are precomputed affinity observations.
	Signals []taste.Signal

	// Quiz holds onboarding-quiz answers.
	Quiz taste.Quiz

	// IncludeKnown keeps songs the user already plays in the results.
	// By default known catalog entries are filtered out.
	IncludeKnown bool

	// ExcludeExplicit filters out explicit songs.
	ExcludeExplicit bool

	// ForYouPage, CrowdPage, and GeneratePage window each category
	// independently, so a client can page one list without shifting the
	// others.
	ForYouPage   Page
	CrowdPage    Page
	GeneratePage Page
}

// Bundle is the categorized recommendation response.
type Bundle struct {
	// ForYou holds personalized picks from known and similar artists.
	ForYou []ScoredCandidate `json:"for_you"`

	// CrowdPleasers holds broadly popular, widely available songs.
	CrowdPleasers []ScoredCandidate `json:"crowd_pleasers"`

	// GenerateOnly holds songs from the user's history that no brand
	// carries, offered for generation.
	GenerateOnly []ScoredCandidate `json:"generate_only"`

	// Pages echoes the effective pagination window of each category.
	Pages BundlePages `json:"pages"`

	// ColdStart reports whether the profile had no artist affinity.
	ColdStart bool `json:"cold_start"`

	// Matched and Skipped summarize history matching.
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
}

// BundlePages reports the pagination cursors applied per category.
type BundlePages struct {
	ForYou        Page `json:"for_you"`
	CrowdPleasers Page `json:"crowd_pleasers"`
	GenerateOnly  Page `json:"generate_only"`
}

// Size returns the total number of recommendations in the bundle.
func (b *Bundle) Size() int {
	return len(b.ForYou) + len(b.CrowdPleasers) + len(b.GenerateOnly)
}
