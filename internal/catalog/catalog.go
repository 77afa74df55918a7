// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package catalog holds the in-memory karaoke catalog snapshot.
//
// The catalog is loaded once from a JSONL snapshot produced by external
// ETL and is immutable afterwards; a reload builds a fresh Index and swaps
// it atomically at the holder level.
package catalog

import (
	"fmt"
	"sort"

	"github.com/singwise/singwise/internal/normalize"
)

// Entry is one karaoke-available song.
type Entry struct {
	// ID is the stable catalog identifier.
	ID string `json:"id"`

	// Artist is the display artist credit.
	Artist string `json:"artist"`

	// Title is the display title.
	Title string `json:"title"`

	// Brands lists the karaoke brands carrying this song.
	Brands []string `json:"brands"`

	// Popularity is a 0-100 popularity score; nil when unknown.
	Popularity *int `json:"popularity,omitempty"`

	// Genres lists genre labels; may be empty.
	Genres []string `json:"genres,omitempty"`

	// Year is the release year; 0 when unknown.
	Year int `json:"year,omitempty"`

	// DurationSec is the song duration in seconds; 0 when unknown.
	DurationSec int `json:"duration_sec,omitempty"`

	// Explicit marks explicit lyrics.
	Explicit bool `json:"explicit,omitempty"`

	// Normalized forms, computed at load time.
	NormArtist string `json:"-"`
	CoreTitle  string `json:"-"`
}

// BrandCount returns the number of karaoke brands carrying the song.
func (e *Entry) BrandCount() int {
	return len(e.Brands)
}

// Decade returns the release decade label like "1980s", or "" when the
// year is unknown.
func (e *Entry) Decade() string {
	if e.Year < 1000 {
		return ""
	}
	return fmt.Sprintf("%d0s", e.Year/10)
}

// PopularityScore returns the popularity in [0, 100], or 0 when unknown.
func (e *Entry) PopularityScore() int {
	if e.Popularity == nil {
		return 0
	}
	return *e.Popularity
}

// exactKey builds the lookup key over the fully normalized artist and
// title, so punctuation and diacritic variants of the same credit land on
// one key.
func exactKey(artist, title string) string {
	return normalize.Normalize(artist) + "\x00" + normalize.Normalize(title)
}

// normKey builds the normalized lookup key.
func normKey(normArtist, coreTitle string) string {
	return normArtist + "\x00" + coreTitle
}

// Index is an immutable view over a loaded catalog snapshot.
type Index struct {
	entries  []*Entry
	byID     map[string]*Entry
	byArtist map[string][]*Entry
	byExact  map[string][]*Entry
	byNorm   map[string][]*Entry
}

// NewIndex builds an Index from entries. Normalized forms are computed
// here; per-key candidate lists are ordered by brand count descending,
// then ID ascending, so lookups resolve deterministically.
func NewIndex(entries []*Entry) *Index {
	idx := &Index{
		entries:  entries,
		byID:     make(map[string]*Entry, len(entries)),
		byArtist: make(map[string][]*Entry),
		byExact:  make(map[string][]*Entry),
		byNorm:   make(map[string][]*Entry),
	}

	for _, e := range entries {
		if e.NormArtist == "" {
			e.NormArtist = normalize.PrimaryArtist(e.Artist)
		}
		if e.CoreTitle == "" {
			e.CoreTitle = normalize.CoreTitle(e.Title)
		}

		idx.byID[e.ID] = e
		idx.byArtist[e.NormArtist] = append(idx.byArtist[e.NormArtist], e)
		idx.byExact[exactKey(e.Artist, e.Title)] = append(idx.byExact[exactKey(e.Artist, e.Title)], e)
		idx.byNorm[normKey(e.NormArtist, e.CoreTitle)] = append(idx.byNorm[normKey(e.NormArtist, e.CoreTitle)], e)
	}

	for _, m := range []map[string][]*Entry{idx.byArtist, idx.byExact, idx.byNorm} {
		for _, list := range m {
			sortEntries(list)
		}
	}

	return idx
}

// sortEntries orders entries by brand count descending, then ID ascending.
func sortEntries(list []*Entry) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].BrandCount() != list[j].BrandCount() {
			return list[i].BrandCount() > list[j].BrandCount()
		}
		return list[i].ID < list[j].ID
	})
}

// Len returns the number of catalog entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// All returns all catalog entries. Callers must not mutate the slice.
func (idx *Index) All() []*Entry {
	return idx.entries
}

// ByID returns the entry with the given ID, or nil.
func (idx *Index) ByID(id string) *Entry {
	return idx.byID[id]
}

// ByArtist returns all entries whose normalized primary artist matches,
// best-carried first.
func (idx *Index) ByArtist(normArtist string) []*Entry {
	return idx.byArtist[normArtist]
}

// Artists returns the set of normalized primary artists in the catalog.
func (idx *Index) Artists() []string {
	out := make([]string, 0, len(idx.byArtist))
	for a := range idx.byArtist {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// LookupExact returns entries whose full normalized artist and title equal
// the given pair's normalized forms, best-carried first.
func (idx *Index) LookupExact(artist, title string) []*Entry {
	return idx.byExact[exactKey(artist, title)]
}

// LookupNormalized returns entries matching the normalized artist and core
// title, best-carried first.
func (idx *Index) LookupNormalized(normArtist, coreTitle string) []*Entry {
	return idx.byNorm[normKey(normArtist, coreTitle)]
}
