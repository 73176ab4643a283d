// Package selector ranks library artifacts by how much a molt run is
// likely to improve them. Selection is a pure function over the manifest
// and freshly computed scores; it never touches disk and never invokes
// the oracle.
package selector

import (
	"sort"

	"github.com/arcadegarden/molt/internal/manifest"
)

// Metrics carries the current measurements for one artifact, keyed by
// file stem in the call to Select. Callers compute these; the selector
// only ranks.
type Metrics struct {
	Score     int
	SizeBytes int
}

// Options bound the candidate pool.
type Options struct {
	// Limit is the maximum number of candidates returned.
	Limit int
	// MinScore and MaxScore bound the half-open score band [min, max).
	// Artifacts below the band are usually too broken to rewrite safely;
	// artifacts at or above it do not need the oracle's help.
	MinScore int
	MaxScore int
	// MaxBytes excludes artifacts whose source exceeds the ceiling.
	MaxBytes int
}

// Candidate is one selected artifact with the measurements that ranked it.
type Candidate struct {
	Title     string
	File      string
	Category  string
	Score     int
	SizeBytes int
}

// Select filters the manifest down to molt candidates and ranks them.
// Eligible: generation counter 0 (never molted), score inside the band,
// size at or under the ceiling, and metrics present for the stem. Ranking
// is ascending by score, lowest first: the worst eligible artifact has the
// most improvement headroom. When the pool exceeds the limit, at most one
// artifact per category is taken first so a single over-represented
// category cannot monopolize a batch; remaining slots fill by score order.
func Select(m *manifest.Manifest, metrics map[string]Metrics, opts Options) []Candidate {
	var pool []Candidate
	for category, entries := range m.Categories {
		for _, e := range entries {
			if e.Generation != 0 {
				continue
			}
			mt, ok := metrics[e.Stem()]
			if !ok {
				continue
			}
			if mt.Score < opts.MinScore || mt.Score >= opts.MaxScore {
				continue
			}
			if opts.MaxBytes > 0 && mt.SizeBytes > opts.MaxBytes {
				continue
			}
			pool = append(pool, Candidate{
				Title:     e.Title,
				File:      e.File,
				Category:  category,
				Score:     mt.Score,
				SizeBytes: mt.SizeBytes,
			})
		}
	}

	sortByScore(pool)

	if opts.Limit <= 0 || len(pool) <= opts.Limit {
		return pool
	}

	// Diversification pass: one per category in score order, then fill.
	picked := make([]Candidate, 0, opts.Limit)
	var overflow []Candidate
	seen := map[string]bool{}
	for _, c := range pool {
		if !seen[c.Category] && len(picked) < opts.Limit {
			seen[c.Category] = true
			picked = append(picked, c)
			continue
		}
		overflow = append(overflow, c)
	}
	for _, c := range overflow {
		if len(picked) == opts.Limit {
			break
		}
		picked = append(picked, c)
	}

	sortByScore(picked)
	return picked
}

// sortByScore orders candidates ascending by score with a deterministic
// title tiebreak; map iteration over categories must not leak into the
// result order.
func sortByScore(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Score != cs[j].Score {
			return cs[i].Score < cs[j].Score
		}
		return cs[i].Title < cs[j].Title
	})
}
