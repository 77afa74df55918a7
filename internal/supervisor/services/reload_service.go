// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package services

import (
	"context"
	"time"

	"github.com/singwise/singwise/internal/logging"
	"github.com/singwise/singwise/internal/metrics"
)

// SnapshotReloader re-reads the data snapshots from disk. Implemented by
// the server wiring; a failed reload must leave the previous snapshot
// serving.
type SnapshotReloader interface {
	Reload(ctx context.Context) (catalogEntries, similarityPairs int, err error)
}

// ReloadService periodically reloads the catalog and similarity snapshots
// so long-running servers pick up new ETL output without a restart.
type ReloadService struct {
	reloader SnapshotReloader
	interval time.Duration
}

// NewReloadService creates a ReloadService. A non-positive interval
// disables reloading; Serve then just waits for cancellation.
func NewReloadService(reloader SnapshotReloader, interval time.Duration) *ReloadService {
	return &ReloadService{reloader: reloader, interval: interval}
}

// Serve runs the reload loop until the context is cancelled.
func (s *ReloadService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reload(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reload runs one reload attempt. Failures are logged and counted; the
// previous snapshot keeps serving.
func (s *ReloadService) reload(ctx context.Context) {
	start := time.Now()
	entries, pairs, err := s.reloader.Reload(ctx)
	if err != nil {
		metrics.RecordSnapshotReload("failure", 0, 0)
		logging.Error().Err(err).Msg("snapshot reload failed, keeping previous snapshot")
		return
	}

	metrics.RecordSnapshotReload("success", entries, pairs)
	logging.Info().
		Int("catalog_entries", entries).
		Int("similarity_pairs", pairs).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot reloaded")
}

// String names the service in supervisor logs.
func (s *ReloadService) String() string {
	return "snapshot-reload"
}
