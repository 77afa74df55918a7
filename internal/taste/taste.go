// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package taste aggregates listening-history signals and quiz answers into
// a per-user taste profile consumed by the recommendation scorer.
//
// Artist affinity merges signals from multiple sources. A strength-bearing
// signal contributes sourceFactor * scaledStrength; strength-less sources
// contribute their full factor. An artist keeps the maximum contribution
// across its signals, so a weak second source never lowers a strong one.
// Exclusions are applied last and always win.
package taste

import (
	"math"

	"github.com/singwise/singwise/internal/normalize"
)

// Source identifies where an affinity signal came from.
type Source string

const (
	// SourcePlayCount is aggregated play counts from listening history.
	SourcePlayCount Source = "play_count"

	// SourceChartRank is presence on a user's personal charts.
	SourceChartRank Source = "chart_rank"

	// SourceListMembership is membership in a user-curated list.
	SourceListMembership Source = "list_membership"

	// SourceManual is an explicit artist pick from the onboarding quiz.
	SourceManual Source = "manual"
)

// PriorityFactor returns the trust factor for a source. Observed behavior
// (play counts) outranks declared preference (manual picks).
func (s Source) PriorityFactor() float64 {
	switch s {
	case SourcePlayCount:
		return 1.0
	case SourceChartRank:
		return 0.9
	case SourceListMembership:
		return 0.75
	case SourceManual:
		return 0.7
	default:
		return 0
	}
}

// Valid reports whether the source is a known value.
func (s Source) Valid() bool {
	return s.PriorityFactor() > 0
}

// StrengthBearing reports whether the source carries a magnitude worth
// scaling. Membership and manual signals have none and contribute their
// full priority factor.
func (s Source) StrengthBearing() bool {
	return s == SourcePlayCount || s == SourceChartRank
}

// Signal is one raw affinity observation for an artist.
type Signal struct {
	// Artist is the free-form artist credit.
	Artist string `json:"artist"`

	// Source identifies the signal origin.
	Source Source `json:"source"`

	// Strength is the raw source-specific magnitude: play count for
	// play_count, chart strength for chart_rank. Ignored for
	// list_membership and manual, which carry no magnitude.
	Strength float64 `json:"strength"`
}

// Quiz holds onboarding-quiz answers. Genre and decade preferences come
// only from the quiz; listening history never populates them.
type Quiz struct {
	Artists        []string `json:"artists,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Decades        []string `json:"decades,omitempty"`
	ExcludeArtists []string `json:"exclude_artists,omitempty"`
}

// ChartRankStrength converts a 1-based chart rank to a raw strength.
// Rank 1 yields 100; ranks past 100 yield 0.
func ChartRankStrength(rank int) float64 {
	s := 101 - rank
	if s < 0 {
		return 0
	}
	return float64(s)
}

// Profile is an aggregated taste profile keyed by normalized artist names.
type Profile struct {
	// Affinity maps normalized artist to affinity in [0, 1].
	Affinity map[string]float64

	// Genres is the set of preferred genre labels, lowercased.
	Genres map[string]struct{}

	// Decades is the set of preferred decade labels like "1980s".
	Decades map[string]struct{}

	// KnownIDs is the set of catalog IDs the user already knows.
	KnownIDs map[string]struct{}

	// Excluded is the set of normalized artists to never recommend.
	Excluded map[string]struct{}
}

// ColdStart reports whether the profile carries no artist affinity at all.
func (p *Profile) ColdStart() bool {
	return len(p.Affinity) == 0
}

// AffinityFor returns the affinity for a normalized artist, zero if unknown.
func (p *Profile) AffinityFor(normArtist string) float64 {
	return p.Affinity[normArtist]
}

// IsExcluded reports whether a normalized artist is excluded.
func (p *Profile) IsExcluded(normArtist string) bool {
	_, ok := p.Excluded[normArtist]
	return ok
}

// IsKnown reports whether a catalog ID is already known to the user.
func (p *Profile) IsKnown(id string) bool {
	_, ok := p.KnownIDs[id]
	return ok
}

// PrefersGenre reports whether any of the entry genres is preferred.
func (p *Profile) PrefersGenre(genres []string) bool {
	for _, g := range genres {
		if _, ok := p.Genres[normalize.Normalize(g)]; ok {
			return true
		}
	}
	return false
}

// PrefersDecade reports whether the decade label is preferred.
func (p *Profile) PrefersDecade(decade string) bool {
	_, ok := p.Decades[decade]
	return ok
}

// Builder aggregates signals into profiles.
type Builder struct {
	playSaturation float64
}

// NewBuilder creates a Builder. playSaturation is the raw strength at
// which the strength scaling saturates to 1.0.
func NewBuilder(playSaturation int) *Builder {
	if playSaturation < 1 {
		playSaturation = 1
	}
	return &Builder{playSaturation: float64(playSaturation)}
}

// scaleStrength maps a raw strength to [0, 1] with log damping, so 10 plays
// and 1000 plays differ far less than linearly.
func (b *Builder) scaleStrength(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	scaled := math.Log1p(raw) / math.Log1p(b.playSaturation)
	if scaled > 1 {
		return 1
	}
	return scaled
}

// Build aggregates signals and quiz answers into a Profile. knownIDs are
// catalog IDs already matched from the user's history.
func (b *Builder) Build(signals []Signal, quiz Quiz, knownIDs []string) *Profile {
	p := &Profile{
		Affinity: make(map[string]float64),
		Genres:   make(map[string]struct{}, len(quiz.Genres)),
		Decades:  make(map[string]struct{}, len(quiz.Decades)),
		KnownIDs: make(map[string]struct{}, len(knownIDs)),
		Excluded: make(map[string]struct{}, len(quiz.ExcludeArtists)),
	}

	for _, sig := range signals {
		artist := normalize.PrimaryArtist(sig.Artist)
		if artist == "" || !sig.Source.Valid() {
			continue
		}
		scale := 1.0
		if sig.Source.StrengthBearing() {
			scale = b.scaleStrength(sig.Strength)
		}
		value := sig.Source.PriorityFactor() * scale
		if value > p.Affinity[artist] {
			p.Affinity[artist] = value
		}
	}

	// Quiz picks behave like a manual signal at full scaled strength.
	for _, artist := range quiz.Artists {
		a := normalize.PrimaryArtist(artist)
		if a == "" {
			continue
		}
		if v := SourceManual.PriorityFactor(); v > p.Affinity[a] {
			p.Affinity[a] = v
		}
	}

	for _, g := range quiz.Genres {
		if n := normalize.Normalize(g); n != "" {
			p.Genres[n] = struct{}{}
		}
	}
	for _, d := range quiz.Decades {
		if d != "" {
			p.Decades[d] = struct{}{}
		}
	}
	for _, id := range knownIDs {
		if id != "" {
			p.KnownIDs[id] = struct{}{}
		}
	}

	// Exclusions last: an excluded artist loses any affinity it gathered.
	for _, artist := range quiz.ExcludeArtists {
		a := normalize.PrimaryArtist(artist)
		if a == "" {
			continue
		}
		p.Excluded[a] = struct{}{}
		delete(p.Affinity, a)
	}

	return p
}
