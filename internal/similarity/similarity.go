// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package similarity holds the precomputed artist-pair similarity
// snapshot that backs the collaborative scoring signal.
//
// Pairs are symmetric and scored in [0, 1]. Unknown pairs score zero;
// the signal degrades gracefully when the snapshot is absent.
package similarity

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/singwise/singwise/internal/normalize"
)

// pair is one JSONL row of the similarity snapshot.
type pair struct {
	ArtistA string  `json:"artist_a"`
	ArtistB string  `json:"artist_b"`
	Score   float64 `json:"score"`
}

// Index is an immutable artist-pair similarity lookup keyed by normalized
// primary artist names.
type Index struct {
	scores map[string]float64
	pairs  int
}

// NewEmptyIndex returns an index with no pairs; every lookup scores zero.
func NewEmptyIndex() *Index {
	return &Index{scores: map[string]float64{}}
}

// pairKey builds an order-independent key for two normalized artists.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Score returns the similarity of two normalized artists in [0, 1].
// Unknown pairs and self-pairs score zero.
func (idx *Index) Score(a, b string) float64 {
	if a == "" || b == "" || a == b {
		return 0
	}
	return idx.scores[pairKey(a, b)]
}

// Len returns the number of loaded pairs.
func (idx *Index) Len() int {
	return idx.pairs
}

// Load reads a JSONL similarity snapshot from the given path. An empty
// path yields an empty index.
func Load(path string) (*Index, error) {
	if path == "" {
		return NewEmptyIndex(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open similarity snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	idx, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read similarity snapshot %s: %w", path, err)
	}
	return idx, nil
}

// Read parses JSONL artist pairs from r. Artists are normalized on load;
// when both orderings of a pair appear, the higher score wins.
func Read(r io.Reader) (*Index, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	idx := NewEmptyIndex()
	var line int

	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var p pair
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if p.ArtistA == "" || p.ArtistB == "" {
			return nil, fmt.Errorf("line %d: pair missing artist", line)
		}
		if p.Score < 0 || p.Score > 1 {
			return nil, fmt.Errorf("line %d: score %f out of [0, 1]", line, p.Score)
		}

		a := normalize.PrimaryArtist(p.ArtistA)
		b := normalize.PrimaryArtist(p.ArtistB)
		if a == b {
			continue
		}

		key := pairKey(a, b)
		if existing, ok := idx.scores[key]; !ok || p.Score > existing {
			if !ok {
				idx.pairs++
			}
			idx.scores[key] = p.Score
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return idx, nil
}
