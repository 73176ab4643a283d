package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadegarden/molt/internal/manifest"
)

func library() *manifest.Manifest {
	return &manifest.Manifest{Categories: map[string][]*manifest.Entry{
		"arcade": {
			{Title: "Asteroid Drift", File: "asteroid-drift.html"},
			{Title: "Brick Fall", File: "brick-fall.html"},
			{Title: "Comet Chase", File: "comet-chase.html", Generation: 2},
		},
		"puzzle": {
			{Title: "Grid Lock", File: "grid-lock.html"},
			{Title: "Tile Slide", File: "tile-slide.html"},
		},
		"toy": {
			{Title: "Sand Box", File: "sand-box.html"},
		},
	}}
}

func TestSelect_FiltersAndOrdering(t *testing.T) {
	t.Parallel()

	metrics := map[string]Metrics{
		"asteroid-drift": {Score: 62, SizeBytes: 2000},
		"brick-fall":     {Score: 35, SizeBytes: 3000},
		"comet-chase":    {Score: 40, SizeBytes: 1000}, // generation 2, ineligible
		"grid-lock":      {Score: 50, SizeBytes: 4000},
		"tile-slide":     {Score: 80, SizeBytes: 1000},   // above band
		"sand-box":       {Score: 45, SizeBytes: 999999}, // over size ceiling
	}
	opts := Options{Limit: 10, MinScore: 30, MaxScore: 75, MaxBytes: 65536}

	got := Select(library(), metrics, opts)

	require.Len(t, got, 3)
	assert.Equal(t, "Brick Fall", got[0].Title, "lowest score first")
	assert.Equal(t, "Grid Lock", got[1].Title)
	assert.Equal(t, "Asteroid Drift", got[2].Title)
	assert.Equal(t, "arcade", got[0].Category)
}

func TestSelect_BandIsHalfOpen(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Categories: map[string][]*manifest.Entry{
		"arcade": {
			{Title: "At Min", File: "at-min.html"},
			{Title: "At Max", File: "at-max.html"},
			{Title: "Below", File: "below.html"},
		},
	}}
	metrics := map[string]Metrics{
		"at-min": {Score: 30, SizeBytes: 100},
		"at-max": {Score: 75, SizeBytes: 100},
		"below":  {Score: 29, SizeBytes: 100},
	}

	got := Select(m, metrics, Options{Limit: 10, MinScore: 30, MaxScore: 75, MaxBytes: 65536})

	require.Len(t, got, 1)
	assert.Equal(t, "At Min", got[0].Title, "min is inclusive, max exclusive")
}

func TestSelect_CategoryDiversification(t *testing.T) {
	t.Parallel()

	// Five arcade entries all score better-ranked (lower) than the single
	// puzzle entry. With limit 3 the puzzle entry must still make the cut.
	m := &manifest.Manifest{Categories: map[string][]*manifest.Entry{
		"arcade": {
			{Title: "A1", File: "a1.html"},
			{Title: "A2", File: "a2.html"},
			{Title: "A3", File: "a3.html"},
			{Title: "A4", File: "a4.html"},
			{Title: "A5", File: "a5.html"},
		},
		"puzzle": {
			{Title: "P1", File: "p1.html"},
		},
	}}
	metrics := map[string]Metrics{
		"a1": {Score: 31, SizeBytes: 100},
		"a2": {Score: 32, SizeBytes: 100},
		"a3": {Score: 33, SizeBytes: 100},
		"a4": {Score: 34, SizeBytes: 100},
		"a5": {Score: 35, SizeBytes: 100},
		"p1": {Score: 70, SizeBytes: 100},
	}

	got := Select(m, metrics, Options{Limit: 3, MinScore: 30, MaxScore: 75, MaxBytes: 65536})

	require.Len(t, got, 3)
	categories := map[string]int{}
	for _, c := range got {
		categories[c.Category]++
	}
	assert.Equal(t, 1, categories["puzzle"], "one slot went to the minority category")
	assert.Equal(t, 2, categories["arcade"], "remaining slots filled by score")

	// Output stays score-ordered after diversification.
	assert.Equal(t, []string{"A1", "A2", "P1"}, []string{got[0].Title, got[1].Title, got[2].Title})
}

func TestSelect_Deterministic(t *testing.T) {
	t.Parallel()

	m := library()
	metrics := map[string]Metrics{
		"asteroid-drift": {Score: 50, SizeBytes: 100},
		"brick-fall":     {Score: 50, SizeBytes: 100},
		"grid-lock":      {Score: 50, SizeBytes: 100},
		"tile-slide":     {Score: 50, SizeBytes: 100},
		"sand-box":       {Score: 50, SizeBytes: 100},
	}
	opts := Options{Limit: 3, MinScore: 30, MaxScore: 75, MaxBytes: 65536}

	first := Select(m, metrics, opts)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Select(m, metrics, opts),
			"repeated selection over identical inputs must not vary")
	}
}

func TestSelect_MissingMetricsSkipped(t *testing.T) {
	t.Parallel()

	got := Select(library(), map[string]Metrics{
		"grid-lock": {Score: 50, SizeBytes: 100},
	}, Options{Limit: 10, MinScore: 30, MaxScore: 75, MaxBytes: 65536})

	require.Len(t, got, 1)
	assert.Equal(t, "Grid Lock", got[0].Title)
}

func TestSelect_EmptyManifest(t *testing.T) {
	t.Parallel()

	got := Select(&manifest.Manifest{}, nil, Options{Limit: 5, MinScore: 0, MaxScore: 100})
	assert.Empty(t, got)
}
