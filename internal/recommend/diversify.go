// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package recommend

import "sort"

// sortCandidates orders candidates for presentation: score descending,
// then brand count descending, then ID ascending, with artist and title
// breaking ties between ID-less candidates. The ordering is total, so
// equal inputs always produce equal output.
func sortCandidates(list []ScoredCandidate) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		bi, bj := len(list[i].Brands), len(list[j].Brands)
		if bi != bj {
			return bi > bj
		}
		if list[i].ID != list[j].ID {
			return list[i].ID < list[j].ID
		}
		if list[i].Artist != list[j].Artist {
			return list[i].Artist < list[j].Artist
		}
		return list[i].Title < list[j].Title
	})
}

// categorize splits sorted karaoke-ready candidates into the two booked
// categories: crowd-pleaser picks form their own list, everything
// personalized lands in for-you. The create-your-own list is built
// separately from the user's history.
func categorize(sorted []ScoredCandidate) (forYou, crowd []ScoredCandidate) {
	for _, c := range sorted {
		if c.Reason == ReasonCrowdPleaser {
			crowd = append(crowd, c)
		} else {
			forYou = append(forYou, c)
		}
	}
	return forYou, crowd
}

// capArtists walks a sorted category once and keeps at most cap songs per
// artist, then applies offset and limit over the surviving sequence.
func capArtists(list []ScoredCandidate, maxPerArtist, offset, limit int) []ScoredCandidate {
	if limit <= 0 {
		return nil
	}

	perArtist := make(map[string]int)
	out := make([]ScoredCandidate, 0, limit)
	skipped := 0

	for _, c := range list {
		artist := c.artistKey
		if perArtist[artist] >= maxPerArtist {
			continue
		}
		perArtist[artist]++

		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}
