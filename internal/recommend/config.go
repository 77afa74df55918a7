// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package recommend

// Weights defines the relative contribution of each scoring signal.
type Weights struct {
	Affinity      float64 `json:"affinity"`
	Collaborative float64 `json:"collaborative"`
	Popularity    float64 `json:"popularity"`
	Availability  float64 `json:"availability"`
	Genre         float64 `json:"genre"`
	Decade        float64 `json:"decade"`
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Affinity:      0.30,
		Collaborative: 0.20,
		Popularity:    0.18,
		Availability:  0.14,
		Genre:         0.10,
		Decade:        0.08,
	}
}

// sum returns the total of all weights.
func (w Weights) sum() float64 {
	return w.Affinity + w.Collaborative + w.Popularity + w.Availability + w.Genre + w.Decade
}

// Normalize returns a copy scaled so the weights sum to 1. A zero weight
// set comes back unchanged.
func (w Weights) Normalize() Weights {
	total := w.sum()
	if total == 0 {
		return w
	}
	return Weights{
		Affinity:      w.Affinity / total,
		Collaborative: w.Collaborative / total,
		Popularity:    w.Popularity / total,
		Availability:  w.Availability / total,
		Genre:         w.Genre / total,
		Decade:        w.Decade / total,
	}
}

// Config holds recommendation engine policy.
type Config struct {
	// Weights are the scoring weights; normalized at use.
	Weights Weights

	// ArtistCap is the maximum songs per artist within a category.
	ArtistCap int

	// AffinityLimit, GenerateLimit, and CrowdLimit are the default
	// category sizes.
	AffinityLimit int
	GenerateLimit int
	CrowdLimit    int

	// BrandSaturation is the brand count at which availability reads 1.0.
	BrandSaturation int
}

// DefaultConfig returns production engine defaults.
func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		ArtistCap:       3,
		AffinityLimit:   15,
		GenerateLimit:   10,
		CrowdLimit:      10,
		BrandSaturation: 8,
	}
}

// withDefaults fills zero-valued fields with defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Weights.sum() == 0 {
		c.Weights = d.Weights
	}
	if c.ArtistCap < 1 {
		c.ArtistCap = d.ArtistCap
	}
	if c.AffinityLimit < 1 {
		c.AffinityLimit = d.AffinityLimit
	}
	if c.GenerateLimit < 1 {
		c.GenerateLimit = d.GenerateLimit
	}
	if c.CrowdLimit < 1 {
		c.CrowdLimit = d.CrowdLimit
	}
	if c.BrandSaturation < 1 {
		c.BrandSaturation = d.BrandSaturation
	}
	return c
}
