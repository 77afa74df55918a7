// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package match

import (
	"context"
	"testing"

	"github.com/singwise/singwise/internal/catalog"
)

func testIndex() *catalog.Index {
	return catalog.NewIndex([]*catalog.Entry{
		{ID: "sw-001", Artist: "Queen", Title: "Bohemian Rhapsody", Brands: []string{"a", "b", "c"}},
		{ID: "sw-002", Artist: "Queen", Title: "Don't Stop Me Now", Brands: []string{"a", "b"}},
		{ID: "sw-003", Artist: "Elton John", Title: "Cold Heart", Brands: []string{"a"}},
		{ID: "sw-004", Artist: "The Beatles", Title: "Let It Be", Brands: []string{"a", "b", "c", "d"}},
		{ID: "sw-005", Artist: "ABBA", Title: "Dancing Queen", Brands: []string{"a", "b"}},
		// Same normalized key as sw-006 with fewer brands: tie-break target.
		{ID: "sw-007", Artist: "Oasis", Title: "Wonderwall (Single Edit)", Brands: []string{"a"}},
		{ID: "sw-006", Artist: "Oasis", Title: "Wonderwall", Brands: []string{"a", "b"}},
	})
}

func newTestMatcher() *Matcher {
	return NewMatcher(testIndex(), 0.80)
}

func TestMatchExact(t *testing.T) {
	r := newTestMatcher().Match(Input{Artist: "Queen", Title: "Bohemian Rhapsody"})
	if !r.Matched() || r.Entry.ID != "sw-001" {
		t.Fatalf("expected sw-001, got %+v", r)
	}
	if r.Method != MethodExact || r.Confidence != 1.0 {
		t.Errorf("expected exact/1.0, got %s/%f", r.Method, r.Confidence)
	}
}

func TestMatchExactCaseInsensitive(t *testing.T) {
	r := newTestMatcher().Match(Input{Artist: "QUEEN", Title: "bohemian rhapsody"})
	if !r.Matched() || r.Method != MethodExact {
		t.Errorf("expected case-insensitive exact match, got %+v", r)
	}
}

func TestMatchExactNormalizedPunctuation(t *testing.T) {
	// Punctuation variants of the same credit are still the exact tier.
	r := newTestMatcher().Match(Input{Artist: "Queen", Title: "Don’t Stop Me Now"})
	if !r.Matched() || r.Entry.ID != "sw-002" {
		t.Fatalf("expected sw-002, got %+v", r)
	}
	if r.Method != MethodExact || r.Confidence != 1.0 {
		t.Errorf("expected exact/1.0, got %s/%f", r.Method, r.Confidence)
	}
}

func TestMatchNormalizedFeatCredit(t *testing.T) {
	r := newTestMatcher().Match(Input{Artist: "Elton John feat. Dua Lipa", Title: "Cold Heart (PNAU Remix)"})
	if !r.Matched() || r.Entry.ID != "sw-003" {
		t.Fatalf("expected sw-003, got %+v", r)
	}
	if r.Method != MethodNormalized {
		t.Errorf("expected normalized method, got %s", r.Method)
	}
	if r.Confidence < 0.9 {
		t.Errorf("expected confidence >= 0.9, got %f", r.Confidence)
	}
}

func TestMatchNormalizedRemasterSuffix(t *testing.T) {
	r := newTestMatcher().Match(Input{Artist: "The Beatles", Title: "Let It Be - Remastered 2009"})
	if !r.Matched() || r.Entry.ID != "sw-004" {
		t.Fatalf("expected sw-004, got %+v", r)
	}
	if r.Confidence < 0.9 {
		t.Errorf("expected confidence >= 0.9, got %f", r.Confidence)
	}
}

func TestMatchFuzzyTitleTypo(t *testing.T) {
	r := newTestMatcher().Match(Input{Artist: "Queen", Title: "Bohemian Rapsody"})
	if !r.Matched() || r.Entry.ID != "sw-001" {
		t.Fatalf("expected fuzzy hit sw-001, got %+v", r)
	}
	if r.Method != MethodFuzzy {
		t.Errorf("expected fuzzy method, got %s", r.Method)
	}
	if r.Confidence < 0.80 || r.Confidence >= 1.0 {
		t.Errorf("expected fuzzy confidence in [0.80, 1.0), got %f", r.Confidence)
	}
}

func TestMatchUnmatched(t *testing.T) {
	r := newTestMatcher().Match(Input{Artist: "Queen", Title: "Some Song That Does Not Exist"})
	if r.Matched() {
		t.Errorf("expected no match, got %+v", r)
	}
	if r.Method != MethodFuzzy {
		t.Errorf("unmatched results report the fuzzy tier, got %q", r.Method)
	}
	if r.Confidence >= 0.80 {
		t.Errorf("unmatched confidence must stay below threshold, got %f", r.Confidence)
	}
}

func TestMatchUnmatchedReportsBestScore(t *testing.T) {
	// The Queen bucket has candidates, so the best sub-threshold title
	// similarity must surface on the unmatched result.
	r := newTestMatcher().Match(Input{Artist: "Queen", Title: "Some Song That Does Not Exist"})
	if r.Matched() {
		t.Fatalf("expected no match, got %+v", r)
	}
	if r.Confidence <= 0 {
		t.Errorf("expected best fuzzy score reported, got %f", r.Confidence)
	}

	// No artist anywhere near the bucket floor: nothing to score against.
	r = newTestMatcher().Match(Input{Artist: "Zzyzx Quartet", Title: "Nothing At All Here"})
	if r.Matched() || r.Confidence != 0 || r.Method != MethodFuzzy {
		t.Errorf("expected zero-score fuzzy diagnostic, got %+v", r)
	}
}

func TestMatchSkippedEmptyFields(t *testing.T) {
	m := newTestMatcher()
	for _, in := range []Input{
		{Artist: "", Title: "Something"},
		{Artist: "Queen", Title: ""},
		{Artist: "  ", Title: "  "},
	} {
		if r := m.Match(in); !r.Skipped {
			t.Errorf("expected skip for %+v, got %+v", in, r)
		}
	}
}

func TestMatchTieBreakPrefersBrandCount(t *testing.T) {
	// Both Wonderwall rows normalize to the same key; the better-carried
	// entry wins.
	r := newTestMatcher().Match(Input{Artist: "Oasis", Title: "Wonderwall - Remastered"})
	if !r.Matched() || r.Entry.ID != "sw-006" {
		t.Fatalf("expected sw-006 (2 brands) over sw-007 (1 brand), got %+v", r)
	}
}

func TestMatchBatchPreservesOrder(t *testing.T) {
	inputs := []Input{
		{Artist: "Queen", Title: "Bohemian Rhapsody"},
		{Artist: "", Title: "skipped"},
		{Artist: "ABBA", Title: "Dancing Queen"},
		{Artist: "Nobody", Title: "Nothing At All Here"},
	}

	got := newTestMatcher().MatchBatch(context.Background(), inputs, 2)
	if len(got.Results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(got.Results))
	}
	if got.Results[0].Entry == nil || got.Results[0].Entry.ID != "sw-001" {
		t.Errorf("result 0 mismatch: %+v", got.Results[0])
	}
	if !got.Results[1].Skipped {
		t.Errorf("result 1 should be skipped: %+v", got.Results[1])
	}
	if got.Results[2].Entry == nil || got.Results[2].Entry.ID != "sw-005" {
		t.Errorf("result 2 mismatch: %+v", got.Results[2])
	}
	if got.Results[3].Matched() {
		t.Errorf("result 3 should be unmatched: %+v", got.Results[3])
	}

	if got.Matched != 2 || got.Skipped != 1 {
		t.Errorf("expected 2 matched / 1 skipped, got %d/%d", got.Matched, got.Skipped)
	}
}

func TestMatchBatchEmpty(t *testing.T) {
	got := newTestMatcher().MatchBatch(context.Background(), nil, 4)
	if len(got.Results) != 0 || got.Matched != 0 {
		t.Errorf("expected empty batch result, got %+v", got)
	}
}

func TestMatchBatchDefaultWorkers(t *testing.T) {
	inputs := make([]Input, 100)
	for i := range inputs {
		inputs[i] = Input{Artist: "Queen", Title: "Bohemian Rhapsody"}
	}
	got := newTestMatcher().MatchBatch(context.Background(), inputs, 0)
	if got.Matched != 100 {
		t.Errorf("expected all 100 matched, got %d", got.Matched)
	}
}

func TestMatchBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := make([]Input, 50)
	for i := range inputs {
		inputs[i] = Input{Artist: "Queen", Title: "Bohemian Rhapsody"}
	}

	got := newTestMatcher().MatchBatch(ctx, inputs, 2)
	if len(got.Results) != 50 {
		t.Fatalf("expected 50 results even when cancelled, got %d", len(got.Results))
	}
}
