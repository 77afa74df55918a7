// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/singwise/singwise/internal/catalog"
	"github.com/singwise/singwise/internal/logging"
	"github.com/singwise/singwise/internal/match"
	"github.com/singwise/singwise/internal/metrics"
	"github.com/singwise/singwise/internal/normalize"
	"github.com/singwise/singwise/internal/similarity"
	"github.com/singwise/singwise/internal/taste"
)

// ErrNotReady is returned while no catalog snapshot has been loaded.
var ErrNotReady = errors.New("catalog snapshot not loaded")

// snapshotState bundles the immutable data a request reads. It swaps
// atomically on reload, so in-flight requests keep a consistent view.
type snapshotState struct {
	catalog    *catalog.Index
	similarity *similarity.Index
	matcher    *match.Matcher
}

// Engine turns listening history into a categorized recommendation bundle.
type Engine struct {
	cfg       Config
	threshold float64
	workers   int
	builder   *taste.Builder
	snap      atomic.Pointer[snapshotState]
	logger    zerolog.Logger
}

// Options configures engine construction.
type Options struct {
	// Config is the scoring and diversity policy.
	Config Config

	// MatchThreshold is the minimum fuzzy match confidence.
	MatchThreshold float64

	// MatchWorkers bounds the batch matcher pool; zero picks a default.
	MatchWorkers int

	// PlaySaturation is the play count where affinity strength saturates.
	PlaySaturation int
}

// New creates an Engine. It serves ErrNotReady until SetSnapshot is called.
func New(opts Options) *Engine {
	if opts.MatchThreshold <= 0 {
		opts.MatchThreshold = 0.80
	}
	if opts.PlaySaturation < 1 {
		opts.PlaySaturation = 500
	}
	return &Engine{
		cfg:       opts.Config.withDefaults(),
		threshold: opts.MatchThreshold,
		workers:   opts.MatchWorkers,
		builder:   taste.NewBuilder(opts.PlaySaturation),
		logger:    logging.With().Str("component", "recommend").Logger(),
	}
}

// SetSnapshot atomically installs new catalog and similarity indexes.
// A nil similarity index is replaced with an empty one.
func (e *Engine) SetSnapshot(cat *catalog.Index, sim *similarity.Index) {
	if sim == nil {
		sim = similarity.NewEmptyIndex()
	}
	e.snap.Store(&snapshotState{
		catalog:    cat,
		similarity: sim,
		matcher:    match.NewMatcher(cat, e.threshold),
	})
	e.logger.Info().
		Int("catalog_entries", cat.Len()).
		Int("similarity_pairs", sim.Len()).
		Msg("snapshot installed")
}

// Ready reports whether a snapshot is loaded.
func (e *Engine) Ready() bool {
	return e.snap.Load() != nil
}

// Catalog returns the current catalog index, or nil before the first
// snapshot.
func (e *Engine) Catalog() *catalog.Index {
	if st := e.snap.Load(); st != nil {
		return st.catalog
	}
	return nil
}

// Matcher returns the current matcher, or nil before the first snapshot.
func (e *Engine) Matcher() *match.Matcher {
	if st := e.snap.Load(); st != nil {
		return st.matcher
	}
	return nil
}

// MatchWorkers returns the configured batch matcher pool bound.
func (e *Engine) MatchWorkers() int {
	return e.workers
}

// Recommend resolves the request's history, builds the taste profile, and
// assembles the recommendation bundle. A user with no taste signal at all
// still receives crowd pleasers as long as the catalog is non-empty.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Bundle, error) {
	st := e.snap.Load()
	if st == nil {
		return nil, ErrNotReady
	}

	start := time.Now()

	batch := st.matcher.MatchBatch(ctx, req.History, e.workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	knownIDs := make([]string, 0, batch.Matched)
	for _, r := range batch.Results {
		if r.Matched() {
			knownIDs = append(knownIDs, r.Entry.ID)
		}
	}

	profile := e.builder.Build(req.Signals, req.Quiz, knownIDs)
	sc := newScorer(e.cfg, st.similarity, profile)

	candidates := e.collectCandidates(sc, st, profile, req)
	generate := e.generateCandidates(sc, profile, batch.Results, req.ExcludeExplicit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortCandidates(candidates)
	sortCandidates(generate)
	forYou, crowd := categorize(candidates)

	forPage := pageFor(req.ForYouPage, e.cfg.AffinityLimit)
	crowdPage := pageFor(req.CrowdPage, e.cfg.CrowdLimit)
	genPage := pageFor(req.GeneratePage, e.cfg.GenerateLimit)

	bundle := &Bundle{
		ForYou:        capArtists(forYou, e.cfg.ArtistCap, forPage.Offset, forPage.Limit),
		CrowdPleasers: capArtists(crowd, e.cfg.ArtistCap, crowdPage.Offset, crowdPage.Limit),
		GenerateOnly:  capArtists(generate, e.cfg.ArtistCap, genPage.Offset, genPage.Limit),
		Pages:         BundlePages{ForYou: forPage, CrowdPleasers: crowdPage, GenerateOnly: genPage},
		ColdStart:     profile.ColdStart(),
		Matched:       batch.Matched,
		Skipped:       batch.Skipped,
	}

	firstPage := forPage.Offset == 0 && crowdPage.Offset == 0 && genPage.Offset == 0
	if bundle.Size() == 0 && st.catalog.Len() > 0 && firstPage {
		bundle.CrowdPleasers = e.fallback(sc, st, profile, crowdPage.Limit)
	}

	profileKind := "warm"
	if profile.ColdStart() {
		profileKind = "cold"
	}
	metrics.RecordRecommendation(profileKind, len(candidates), time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("profile", profileKind).
		Int("history", len(req.History)).
		Int("matched", batch.Matched).
		Int("skipped", batch.Skipped).
		Int("candidates", len(candidates)).
		Int("returned", bundle.Size()).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation built")

	return bundle, nil
}

// pageFor resolves a requested page against the category's default size.
func pageFor(p Page, defaultLimit int) Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// collectCandidates scores every karaoke-ready catalog entry that passes
// the request filters. Entries no brand carries are left out: they only
// surface through the user's own history, in the create-your-own list.
func (e *Engine) collectCandidates(sc *scorer, st *snapshotState, profile *taste.Profile, req Request) []ScoredCandidate {
	entries := st.catalog.All()

	out := make([]ScoredCandidate, 0, len(entries))
	for _, entry := range entries {
		if entry.BrandCount() == 0 {
			continue
		}
		if profile.IsExcluded(entry.NormArtist) {
			continue
		}
		if !req.IncludeKnown && profile.IsKnown(entry.ID) {
			continue
		}
		if req.ExcludeExplicit && entry.Explicit {
			continue
		}
		out = append(out, sc.score(entry, profile))
	}
	return out
}

// generateCandidates builds the create-your-own list from the user's own
// karaoke-less history: entries that resolved to no catalog row, plus
// resolved entries no brand carries. Duplicate history rows collapse to
// one candidate.
func (e *Engine) generateCandidates(sc *scorer, profile *taste.Profile, results []match.Result, excludeExplicit bool) []ScoredCandidate {
	seenID := make(map[string]struct{})
	seenRaw := make(map[string]struct{})

	var out []ScoredCandidate
	for _, r := range results {
		switch {
		case r.Skipped:
			// malformed rows carry nothing to surface

		case r.Matched():
			entry := r.Entry
			if entry.BrandCount() > 0 {
				continue
			}
			if profile.IsExcluded(entry.NormArtist) || (excludeExplicit && entry.Explicit) {
				continue
			}
			if _, ok := seenID[entry.ID]; ok {
				continue
			}
			seenID[entry.ID] = struct{}{}
			out = append(out, sc.score(entry, profile))

		default:
			normArtist := normalize.PrimaryArtist(r.Input.Artist)
			if profile.IsExcluded(normArtist) {
				continue
			}
			key := normArtist + "\x00" + normalize.CoreTitle(r.Input.Title)
			if _, ok := seenRaw[key]; ok {
				continue
			}
			seenRaw[key] = struct{}{}
			out = append(out, sc.scoreRaw(r.Input.Artist, r.Input.Title, normArtist))
		}
	}
	return out
}

// fallback fills the crowd-pleaser category when every filter combined to
// produce an empty bundle. The explicit filter is relaxed; known songs
// and excluded artists are never resurfaced.
func (e *Engine) fallback(sc *scorer, st *snapshotState, profile *taste.Profile, limit int) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, st.catalog.Len())
	for _, entry := range st.catalog.All() {
		if entry.BrandCount() == 0 || profile.IsExcluded(entry.NormArtist) || profile.IsKnown(entry.ID) {
			continue
		}
		out = append(out, sc.score(entry, profile))
	}
	sortCandidates(out)
	return capArtists(out, e.cfg.ArtistCap, 0, limit)
}
