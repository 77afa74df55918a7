// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package match resolves free-form (artist, title) pairs from listening
// history against the karaoke catalog.
//
// Resolution runs in tiers, stopping at the first hit:
//
//  1. exact: full normalized artist and title equal (confidence 1.0)
//  2. normalized: primary artist and core title equal after feat/version
//     stripping (0.9)
//  3. fuzzy: Jaro-Winkler over core titles within the artist's entries
//
// A fuzzy hit resolves only when its confidence clears the configured
// threshold; below it the result stays unmatched but still reports the
// best score found. Ties break on brand count descending, then ID
// ascending.
package match

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/singwise/singwise/internal/catalog"
	"github.com/singwise/singwise/internal/metrics"
	"github.com/singwise/singwise/internal/normalize"
)

// Resolution methods reported on a match result.
const (
	MethodExact      = "exact"
	MethodNormalized = "normalized"
	MethodFuzzy      = "fuzzy"
)

// Confidence assigned per resolution tier. Fuzzy confidence is the
// similarity product and always lands below the normalized tier.
const (
	exactConfidence      = 1.0
	normalizedConfidence = 0.9

	// fuzzyArtistFloor is the minimum artist-name similarity before a
	// fuzzy artist bucket is considered at all.
	fuzzyArtistFloor = 0.85
)

// Input is one (artist, title) pair to resolve.
type Input struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// Result is the outcome of resolving one Input.
type Result struct {
	// Input echoes the resolved pair.
	Input Input `json:"input"`

	// Entry is the resolved catalog entry; nil when unmatched or skipped.
	Entry *catalog.Entry `json:"entry,omitempty"`

	// Confidence is the resolution confidence in [0, 1]. Unmatched
	// results carry the best fuzzy score found, for diagnostics.
	Confidence float64 `json:"confidence"`

	// Method is the tier that resolved the entry, or fuzzy on an
	// unmatched result; empty only when skipped.
	Method string `json:"method,omitempty"`

	// Skipped marks inputs rejected before matching (empty artist or title).
	Skipped bool `json:"skipped,omitempty"`
}

// Matched reports whether the input resolved to a catalog entry.
func (r Result) Matched() bool {
	return r.Entry != nil
}

// Matcher resolves inputs against a catalog index.
type Matcher struct {
	index     *catalog.Index
	threshold float64
}

// NewMatcher creates a Matcher over the given index. threshold is the
// minimum fuzzy confidence for a match to resolve.
func NewMatcher(index *catalog.Index, threshold float64) *Matcher {
	return &Matcher{index: index, threshold: threshold}
}

// Match resolves a single input through the tier cascade.
func (m *Matcher) Match(in Input) Result {
	if strings.TrimSpace(in.Artist) == "" || strings.TrimSpace(in.Title) == "" {
		metrics.RecordMatchSkipped("empty_field")
		return Result{Input: in, Skipped: true}
	}

	if hits := m.index.LookupExact(in.Artist, in.Title); len(hits) > 0 {
		metrics.RecordMatchAttempt(MethodExact, "matched")
		return Result{Input: in, Entry: hits[0], Confidence: exactConfidence, Method: MethodExact}
	}

	normArtist := normalize.PrimaryArtist(in.Artist)
	coreTitle := normalize.CoreTitle(in.Title)

	if hits := m.index.LookupNormalized(normArtist, coreTitle); len(hits) > 0 {
		metrics.RecordMatchAttempt(MethodNormalized, "matched")
		return Result{Input: in, Entry: hits[0], Confidence: normalizedConfidence, Method: MethodNormalized}
	}

	entry, conf := m.fuzzy(normArtist, coreTitle)
	if entry != nil && conf >= m.threshold {
		metrics.RecordMatchAttempt(MethodFuzzy, "matched")
		return Result{Input: in, Entry: entry, Confidence: conf, Method: MethodFuzzy}
	}

	metrics.RecordMatchAttempt(MethodFuzzy, "unmatched")
	return Result{Input: in, Confidence: conf, Method: MethodFuzzy}
}

// fuzzy searches the artist's entries by title similarity. When the artist
// has no entries under its normalized name, near-miss artist spellings are
// tried with the artist similarity discounting the confidence.
func (m *Matcher) fuzzy(normArtist, coreTitle string) (*catalog.Entry, float64) {
	if entries := m.index.ByArtist(normArtist); len(entries) > 0 {
		return m.bestByTitle(entries, coreTitle, 1.0)
	}

	// Artist not found verbatim: scan for a close artist spelling.
	var (
		best     *catalog.Entry
		bestConf float64
	)
	for _, artist := range m.index.Artists() {
		artistSim := stringSimilarity(normArtist, artist)
		if artistSim < fuzzyArtistFloor {
			continue
		}
		entry, conf := m.bestByTitle(m.index.ByArtist(artist), coreTitle, artistSim)
		if entry != nil && conf > bestConf {
			best, bestConf = entry, conf
		}
	}
	return best, bestConf
}

// bestByTitle returns the entry with the highest title similarity, whether
// or not it clears the threshold; the caller decides if it resolves.
// entries arrive pre-sorted by brand count then ID, so keeping only
// strictly better candidates preserves the tie-break order.
func (m *Matcher) bestByTitle(entries []*catalog.Entry, coreTitle string, factor float64) (*catalog.Entry, float64) {
	var (
		best     *catalog.Entry
		bestConf float64
	)
	for _, e := range entries {
		conf := factor * stringSimilarity(coreTitle, e.CoreTitle)
		if conf > bestConf {
			best, bestConf = e, conf
		}
	}
	return best, bestConf
}

// stringSimilarity returns Jaro-Winkler similarity in [0, 1].
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	sim, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(sim)
}
