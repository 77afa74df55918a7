// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/singwise/singwise/internal/logging"
)

// maxLineBytes bounds a single snapshot line; catalog rows are small.
const maxLineBytes = 1 << 20

// Load reads a JSONL catalog snapshot from the given path and builds an
// Index.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	idx, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot %s: %w", path, err)
	}
	return idx, nil
}

// Read parses JSONL catalog entries from r and builds an Index. Blank
// lines are skipped; a malformed line or an entry missing required fields
// is an error naming the line. Duplicate IDs keep the first occurrence.
func Read(r io.Reader) (*Index, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		entries []*Entry
		seen    = make(map[string]struct{})
		line    int
		dupes   int
	)

	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		e := &Entry{}
		if err := json.Unmarshal([]byte(raw), e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if e.ID == "" || e.Artist == "" || e.Title == "" {
			return nil, fmt.Errorf("line %d: entry missing id, artist, or title", line)
		}
		if p := e.Popularity; p != nil && (*p < 0 || *p > 100) {
			return nil, fmt.Errorf("line %d: popularity %d out of [0, 100]", line, *p)
		}

		if _, ok := seen[e.ID]; ok {
			dupes++
			continue
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if dupes > 0 {
		logging.Warn().Int("duplicates", dupes).Msg("catalog snapshot contained duplicate IDs, kept first occurrence")
	}

	return NewIndex(entries), nil
}
