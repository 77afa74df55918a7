// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package recommend

import (
	"math"

	"github.com/singwise/singwise/internal/catalog"
	"github.com/singwise/singwise/internal/similarity"
	"github.com/singwise/singwise/internal/taste"
)

// scorer computes weighted candidate scores for one request. It is built
// per request because the effective weights depend on the profile.
type scorer struct {
	cfg     Config
	sim     *similarity.Index
	weights Weights
}

// newScorer prepares a scorer for the given profile. Signals the profile
// cannot fire (affinity and collaborative on a cold start, genre and
// decade without quiz answers) pass their weight to popularity and
// availability, so scores keep using the full weight budget.
func newScorer(cfg Config, sim *similarity.Index, profile *taste.Profile) *scorer {
	w := cfg.Weights.Normalize()

	var orphaned float64
	if profile.ColdStart() {
		orphaned += w.Affinity + w.Collaborative
		w.Affinity, w.Collaborative = 0, 0
	}
	if len(profile.Genres) == 0 {
		orphaned += w.Genre
		w.Genre = 0
	}
	if len(profile.Decades) == 0 {
		orphaned += w.Decade
		w.Decade = 0
	}

	if orphaned > 0 && w.Popularity+w.Availability > 0 {
		share := w.Popularity / (w.Popularity + w.Availability)
		w.Popularity += orphaned * share
		w.Availability += orphaned * (1 - share)
	}

	return &scorer{cfg: cfg, sim: sim, weights: w}
}

// signals computes the raw per-signal values for a catalog entry.
func (s *scorer) signals(e *catalog.Entry, profile *taste.Profile) SignalValues {
	v := SignalValues{
		Affinity:   profile.AffinityFor(e.NormArtist),
		Popularity: math.Sqrt(float64(e.PopularityScore()) / 100),
	}

	// Collaborative: best pair similarity to any profile artist.
	for artist := range profile.Affinity {
		if c := s.sim.Score(e.NormArtist, artist); c > v.Collaborative {
			v.Collaborative = c
		}
	}

	// A song no brand carries can only be generated, never booked.
	if e.BrandCount() > 0 {
		v.Availability = float64(e.BrandCount()) / float64(s.cfg.BrandSaturation)
		if v.Availability > 1 {
			v.Availability = 1
		}
	}

	if profile.PrefersGenre(e.Genres) {
		v.Genre = 1
	}
	if profile.PrefersDecade(e.Decade()) {
		v.Decade = 1
	}

	return v
}

// score builds the full scored candidate for an entry.
func (s *scorer) score(e *catalog.Entry, profile *taste.Profile) ScoredCandidate {
	v := s.signals(e, profile)
	w := s.weights

	total := w.Affinity*v.Affinity +
		w.Collaborative*v.Collaborative +
		w.Popularity*v.Popularity +
		w.Availability*v.Availability +
		w.Genre*v.Genre +
		w.Decade*v.Decade

	return ScoredCandidate{
		ID:        e.ID,
		Artist:    e.Artist,
		Title:     e.Title,
		Brands:    e.Brands,
		Year:      e.Year,
		Genres:    e.Genres,
		Score:     total,
		Reason:    s.reason(e, v),
		Signals:   v,
		artistKey: e.NormArtist,
		entry:     e,
	}
}

// scoreRaw builds a create-your-own candidate for a history entry that
// resolved to no catalog row. Without catalog metadata the popularity,
// genre, and decade terms read zero, so raw entries rank below matched
// karaoke-less songs and fall back to alphabetical order.
func (s *scorer) scoreRaw(artist, title, normArtist string) ScoredCandidate {
	return ScoredCandidate{
		Artist:    artist,
		Title:     title,
		Reason:    ReasonGenerateOnly,
		artistKey: normArtist,
	}
}

// reason picks the dominant explanation for a candidate's score. The
// popularity and availability contributions pool into crowd_pleaser.
// Equal contributions resolve in Reason declaration order.
func (s *scorer) reason(e *catalog.Entry, v SignalValues) Reason {
	if e.BrandCount() == 0 {
		return ReasonGenerateOnly
	}

	w := s.weights
	contributions := []struct {
		reason Reason
		value  float64
	}{
		{ReasonKnownArtist, w.Affinity * v.Affinity},
		{ReasonCollaborativeSimilar, w.Collaborative * v.Collaborative},
		{ReasonCrowdPleaser, w.Popularity*v.Popularity + w.Availability*v.Availability},
		{ReasonGenreMatch, w.Genre * v.Genre},
		{ReasonDecadeMatch, w.Decade * v.Decade},
	}

	best := contributions[0]
	for _, c := range contributions[1:] {
		if c.value > best.value {
			best = c
		}
	}
	return best.reason
}
