// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package normalize reduces free-form artist and title strings to canonical
// forms so that listening-history entries, catalog rows, and quiz answers
// referring to the same song agree.
//
// All functions are pure and idempotent: applying them twice yields the
// same result as applying them once.
package normalize

import (
	"regexp"
	"strings"
)

var (
	parenPattern   = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	bracketPattern = regexp.MustCompile(`\s*\[[^]]*\]\s*`)
	bracePattern   = regexp.MustCompile(`\s*\{[^}]*\}\s*`)

	possessivePattern = regexp.MustCompile(`'s\b`)
	punctPattern      = regexp.MustCompile(`[^\p{L}\p{N} ]+`)

	// featPattern marks a featured-artist clause. Word-bounded so that
	// "swift" or "left" are untouched.
	featPattern = regexp.MustCompile(`\b(featuring|feat\.?|ft\.?)\s+`)
)

// artistFeatSeparators mark the boundary between a primary artist and the
// featured artists that follow.
var artistFeatSeparators = []string{" feat. ", " feat ", " ft. ", " ft ", " featuring ", " with ", " x "}

// versionSuffixes are dropped from the end of a title when they follow a
// " - " separator or appear as trailing decorations.
var versionSuffixes = []string{
	" - extended remix", " - remix", " - radio edit", " - original mix",
	" - club mix", " - edit", " - single version", " - album version",
	" - instrumental", " - acoustic", " - acoustic version",
	" - live", " - mono", " - stereo", " - demo",
}

// versionKeywords flag a post-dash segment as a version annotation rather
// than part of the title, e.g. "Let It Be - Remastered 2009".
var versionKeywords = []string{
	"remix", "remaster", "remastered", "edit", "mix", "version",
	"live", "acoustic", "instrumental", "mono", "stereo", "demo",
	"deluxe", "anniversary", "session",
}

// Normalize reduces a string to its canonical comparison form: lowercase,
// diacritics folded to ASCII, featured-artist markers and punctuation
// removed, "&" spelled out, whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = foldDiacritics(s)
	s = strings.TrimSpace(s)
	s = featPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&", " and ")
	s = possessivePattern.ReplaceAllString(s, "")
	s = punctPattern.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// PrimaryArtist extracts the normalized primary artist from a credit
// string, dropping featured artists and collaborator lists:
// "Elton John feat. Dua Lipa" and "Elton John, Dua Lipa" both yield
// "elton john".
func PrimaryArtist(artist string) string {
	s := strings.TrimSpace(artist)

	// First entry of a comma- or semicolon-separated artist list.
	if idx := strings.IndexAny(s, ",;"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}

	lower := strings.ToLower(s)
	for _, sep := range artistFeatSeparators {
		if idx := strings.Index(lower, sep); idx > 0 {
			s = strings.TrimSpace(s[:idx])
			break
		}
	}

	return Normalize(s)
}

// CoreTitle reduces a title to its normalized core form so that different
// releases of the same song agree: parentheticals, bracketed segments, and
// version annotations after " - " are stripped.
// "Cold Heart (PNAU Remix)" and "Cold Heart" both yield "cold heart";
// "Let It Be - Remastered 2009" yields "let it be".
func CoreTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if s == "" {
		return s
	}

	s = parenPattern.ReplaceAllString(s, " ")
	s = bracketPattern.ReplaceAllString(s, " ")
	s = bracePattern.ReplaceAllString(s, " ")

	for _, suffix := range versionSuffixes {
		s = strings.TrimSuffix(strings.TrimSpace(s), suffix)
	}

	// Generic " - <version annotation>" stripping, e.g. "- Remastered 2009"
	// or "- 2011 Remaster". Only strip when the tail reads like an
	// annotation; "Crazy - a love song" keeps its tail.
	if idx := strings.Index(s, " - "); idx > 0 {
		tail := s[idx+3:]
		for _, kw := range versionKeywords {
			if strings.Contains(tail, kw) {
				s = strings.TrimSpace(s[:idx])
				break
			}
		}
	}

	return Normalize(s)
}

// foldDiacritics maps common accented characters to ASCII so "Tiësto" and
// "Tiesto" compare equal.
func foldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'ë', 'ê', 'è', 'é', 'ē', 'ė':
			b.WriteRune('e')
		case 'ï', 'î', 'ì', 'í', 'ī':
			b.WriteRune('i')
		case 'ö', 'ô', 'ò', 'ó', 'ō', 'ø':
			b.WriteRune('o')
		case 'ü', 'û', 'ù', 'ú', 'ū':
			b.WriteRune('u')
		case 'ä', 'â', 'à', 'á', 'ā', 'å':
			b.WriteRune('a')
		case 'ç':
			b.WriteRune('c')
		case 'ñ':
			b.WriteRune('n')
		case 'ý', 'ÿ':
			b.WriteRune('y')
		case 'ß':
			b.WriteString("ss")
		case 'œ':
			b.WriteString("oe")
		case 'æ':
			b.WriteString("ae")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
