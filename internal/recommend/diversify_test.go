// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package recommend

import (
	"testing"

	"github.com/singwise/singwise/internal/catalog"
)

func cand(id, normArtist string, score float64, brands int, reason Reason) ScoredCandidate {
	b := make([]string, brands)
	for i := range b {
		b[i] = "brand"
	}
	return ScoredCandidate{
		ID:        id,
		Score:     score,
		Brands:    b,
		Reason:    reason,
		artistKey: normArtist,
		entry:     &catalog.Entry{ID: id, NormArtist: normArtist, Brands: b},
	}
}

func TestSortCandidatesDeterministic(t *testing.T) {
	list := []ScoredCandidate{
		cand("c", "x", 0.5, 2, ReasonKnownArtist),
		cand("a", "x", 0.5, 2, ReasonKnownArtist),
		cand("b", "x", 0.5, 3, ReasonKnownArtist),
		cand("d", "x", 0.9, 1, ReasonKnownArtist),
	}

	sortCandidates(list)

	want := []string{"d", "b", "a", "c"}
	for i, w := range want {
		if list[i].ID != w {
			t.Fatalf("position %d = %s, want %s (order %v)", i, list[i].ID, w, list)
		}
	}
}

func TestCategorize(t *testing.T) {
	list := []ScoredCandidate{
		cand("1", "a", 0.9, 2, ReasonKnownArtist),
		cand("2", "b", 0.8, 2, ReasonCrowdPleaser),
		cand("4", "d", 0.6, 2, ReasonGenreMatch),
		cand("5", "e", 0.5, 2, ReasonCollaborativeSimilar),
		cand("6", "f", 0.4, 2, ReasonDecadeMatch),
	}

	forYou, crowd := categorize(list)

	if len(forYou) != 4 {
		t.Errorf("for-you = %d, want 4 (known, genre, collab, decade)", len(forYou))
	}
	if len(crowd) != 1 || crowd[0].ID != "2" {
		t.Errorf("crowd = %v", crowd)
	}
}

func TestSortCandidatesWithoutIDs(t *testing.T) {
	// Unresolved history candidates have no catalog ID; artist and title
	// keep the order total.
	list := []ScoredCandidate{
		{Artist: "Zebra", Title: "B Song", Reason: ReasonGenerateOnly, artistKey: "zebra"},
		{Artist: "Alpha", Title: "Z Song", Reason: ReasonGenerateOnly, artistKey: "alpha"},
		{Artist: "Alpha", Title: "A Song", Reason: ReasonGenerateOnly, artistKey: "alpha"},
	}

	sortCandidates(list)

	if list[0].Title != "A Song" || list[1].Title != "Z Song" || list[2].Artist != "Zebra" {
		t.Errorf("unexpected order: %v", list)
	}
}

func TestCapArtistsSinglePass(t *testing.T) {
	list := []ScoredCandidate{
		cand("q1", "queen", 0.9, 2, ReasonKnownArtist),
		cand("q2", "queen", 0.8, 2, ReasonKnownArtist),
		cand("q3", "queen", 0.7, 2, ReasonKnownArtist),
		cand("q4", "queen", 0.6, 2, ReasonKnownArtist),
		cand("a1", "abba", 0.5, 2, ReasonKnownArtist),
		cand("q5", "queen", 0.4, 2, ReasonKnownArtist),
	}

	out := capArtists(list, 3, 0, 10)

	if len(out) != 4 {
		t.Fatalf("expected 4 results, got %d: %v", len(out), out)
	}
	queen := 0
	for _, c := range out {
		if c.artistKey == "queen" {
			queen++
		}
	}
	if queen != 3 {
		t.Errorf("expected 3 queen songs, got %d", queen)
	}
	// The capped artist keeps its best-scored songs.
	if out[0].ID != "q1" || out[1].ID != "q2" || out[2].ID != "q3" || out[3].ID != "a1" {
		t.Errorf("unexpected order: %v", out)
	}
}

func TestCapArtistsLimit(t *testing.T) {
	list := []ScoredCandidate{
		cand("1", "a", 0.9, 2, ReasonKnownArtist),
		cand("2", "b", 0.8, 2, ReasonKnownArtist),
		cand("3", "c", 0.7, 2, ReasonKnownArtist),
	}
	out := capArtists(list, 3, 0, 2)
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "2" {
		t.Errorf("unexpected limited output: %v", out)
	}
}

func TestCapArtistsOffset(t *testing.T) {
	list := []ScoredCandidate{
		cand("1", "a", 0.9, 2, ReasonKnownArtist),
		cand("2", "b", 0.8, 2, ReasonKnownArtist),
		cand("3", "c", 0.7, 2, ReasonKnownArtist),
		cand("4", "d", 0.6, 2, ReasonKnownArtist),
	}

	out := capArtists(list, 3, 2, 2)
	if len(out) != 2 || out[0].ID != "3" || out[1].ID != "4" {
		t.Errorf("unexpected page: %v", out)
	}

	// Offset past the end yields an empty page.
	if out := capArtists(list, 3, 10, 2); len(out) != 0 {
		t.Errorf("expected empty page, got %v", out)
	}
}

func TestCapArtistsOffsetCountsCappedSequence(t *testing.T) {
	// The offset pages over the post-cap sequence, so page 2 never
	// resurfaces songs the artist cap dropped on page 1.
	list := []ScoredCandidate{
		cand("q1", "queen", 0.9, 2, ReasonKnownArtist),
		cand("q2", "queen", 0.8, 2, ReasonKnownArtist),
		cand("q3", "queen", 0.7, 2, ReasonKnownArtist),
		cand("q4", "queen", 0.6, 2, ReasonKnownArtist),
		cand("a1", "abba", 0.5, 2, ReasonKnownArtist),
		cand("b1", "blur", 0.4, 2, ReasonKnownArtist),
	}

	page2 := capArtists(list, 3, 3, 3)
	if len(page2) != 2 || page2[0].ID != "a1" || page2[1].ID != "b1" {
		t.Errorf("unexpected page 2: %v", page2)
	}
}

func TestCapArtistsZeroLimit(t *testing.T) {
	list := []ScoredCandidate{cand("1", "a", 0.9, 2, ReasonKnownArtist)}
	if out := capArtists(list, 3, 0, 0); len(out) != 0 {
		t.Errorf("expected no results for zero limit, got %v", out)
	}
}
