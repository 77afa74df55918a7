// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package recommend

import (
	"math"
	"testing"
)

func TestWeightsNormalize(t *testing.T) {
	w := Weights{Affinity: 3, Collaborative: 2, Popularity: 1.8, Availability: 1.4, Genre: 1, Decade: 0.8}
	n := w.Normalize()

	if math.Abs(n.sum()-1) > 1e-9 {
		t.Errorf("normalized weights sum to %f, want 1", n.sum())
	}
	if math.Abs(n.Affinity-0.30) > 1e-9 {
		t.Errorf("affinity = %f, want 0.30", n.Affinity)
	}
	// Relative order preserved.
	if !(n.Affinity > n.Collaborative && n.Collaborative > n.Popularity) {
		t.Error("normalization must preserve relative order")
	}
}

func TestWeightsNormalizeZero(t *testing.T) {
	var w Weights
	if n := w.Normalize(); n != w {
		t.Errorf("zero weights should come back unchanged, got %+v", n)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	if got := DefaultWeights().sum(); math.Abs(got-1) > 1e-9 {
		t.Errorf("default weights sum to %f, want 1", got)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	d := DefaultConfig()
	if c != d {
		t.Errorf("empty config should fill to defaults, got %+v", c)
	}

	c = Config{ArtistCap: 5}.withDefaults()
	if c.ArtistCap != 5 {
		t.Errorf("explicit artist cap overwritten: %d", c.ArtistCap)
	}
	if c.AffinityLimit != d.AffinityLimit {
		t.Errorf("unset limit should default, got %d", c.AffinityLimit)
	}
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonKnownArtist, "known_artist"},
		{ReasonCollaborativeSimilar, "collaborative_similar"},
		{ReasonCrowdPleaser, "crowd_pleaser"},
		{ReasonGenreMatch, "genre_match"},
		{ReasonDecadeMatch, "decade_match"},
		{ReasonGenerateOnly, "generate_only"},
		{Reason(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestReasonMarshalJSON(t *testing.T) {
	b, err := ReasonCrowdPleaser.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(b) != `"crowd_pleaser"` {
		t.Errorf("MarshalJSON = %s", b)
	}
}
