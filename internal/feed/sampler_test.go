package feed

import (
	"math/rand"
	"testing"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int, tag model.DimensionTag, weight int) []model.ContentItem {
	out := make([]model.ContentItem, n)
	for i := range out {
		out[i] = model.ContentItem{ContentID: uuid.New(), DimensionTag: tag, InterventionWeight: weight}
	}
	return out
}

func concat(groups ...[]model.ContentItem) []model.ContentItem {
	var out []model.ContentItem
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func countBy(feed []model.ContentItem, pred func(model.ContentItem) bool) int {
	n := 0
	for _, it := range feed {
		if pred(it) {
			n++
		}
	}
	return n
}

func assertDistinct(t *testing.T, feed []model.ContentItem) {
	t.Helper()
	seen := map[uuid.UUID]bool{}
	for _, it := range feed {
		require.False(t, seen[it.ContentID], "duplicate item %s", it.ContentID)
		seen[it.ContentID] = true
	}
}

func TestBuildFeed_SparseGenericPool(t *testing.T) {
	s := NewSampler(rand.NewSource(1))
	pool := items(5, model.DimensionGeneric, 0)

	feed, err := s.BuildFeed(pool, nil, 0.4, 20)
	require.NoError(t, err)
	assert.Len(t, feed, 5)
	assertDistinct(t, feed)
	for _, it := range feed {
		assert.Equal(t, model.DimensionGeneric, it.DimensionTag)
	}
}

func TestBuildFeed_PrefersTargetedIntervention(t *testing.T) {
	s := NewSampler(rand.NewSource(7))
	pool := concat(
		items(10, model.DimensionHealth, 80),
		items(10, model.DimensionCareer, 80),
		items(30, model.DimensionGeneric, 0),
	)

	feed, err := s.BuildFeed(pool, []model.DimensionTag{model.DimensionHealth}, 0.4, 20)
	require.NoError(t, err)
	require.Len(t, feed, 20)
	assertDistinct(t, feed)

	assert.Equal(t, 8, countBy(feed, func(it model.ContentItem) bool { return it.DimensionTag == model.DimensionHealth }))
	assert.Equal(t, 0, countBy(feed, func(it model.ContentItem) bool { return it.DimensionTag == model.DimensionCareer }))
	assert.Equal(t, 12, countBy(feed, func(it model.ContentItem) bool { return it.DimensionTag == model.DimensionGeneric }))
}

func TestBuildFeed_BackfillsFromOtherIntervention(t *testing.T) {
	s := NewSampler(rand.NewSource(3))
	pool := concat(
		items(2, model.DimensionHealth, 60),
		items(10, model.DimensionFinance, 90),
		items(30, model.DimensionGeneric, 10),
	)

	feed, err := s.BuildFeed(pool, []model.DimensionTag{model.DimensionHealth}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, feed, 10)
	assert.Equal(t, 2, countBy(feed, func(it model.ContentItem) bool { return it.DimensionTag == model.DimensionHealth }))
	assert.Equal(t, 3, countBy(feed, func(it model.ContentItem) bool { return it.DimensionTag == model.DimensionFinance }))
	assert.Equal(t, 5, countBy(feed, func(it model.ContentItem) bool { return it.DimensionTag == model.DimensionGeneric }))
}

func TestBuildFeed_LowWeightTaggedItemsAreGeneric(t *testing.T) {
	s := NewSampler(rand.NewSource(5))
	pool := items(10, model.DimensionHealth, 49)

	feed, err := s.BuildFeed(pool, []model.DimensionTag{model.DimensionHealth}, 1.0, 10)
	require.NoError(t, err)
	// ratio=1 なので汎用枠は0件、重み49は介入扱いされない
	assert.Empty(t, feed)
}

func TestBuildFeed_SizeBoundAndDuplicates(t *testing.T) {
	s := NewSampler(rand.NewSource(42))
	base := concat(
		items(15, model.DimensionMindset, 70),
		items(15, model.DimensionGeneric, 0),
	)
	// 同じIDが重複して含まれていても出力に重複はない
	pool := concat(base, base[:10])

	for size := 0; size <= 40; size++ {
		for _, ratio := range []float64{0, 0.25, 0.4, 0.5, 1} {
			feed, err := s.BuildFeed(pool, []model.DimensionTag{model.DimensionMindset}, ratio, size)
			require.NoError(t, err)
			require.LessOrEqual(t, len(feed), size)
			assertDistinct(t, feed)
		}
	}
}

func TestBuildFeed_DeterministicWithSeed(t *testing.T) {
	pool := concat(items(10, model.DimensionGrowth, 80), items(10, model.DimensionGeneric, 0))
	weak := []model.DimensionTag{model.DimensionGrowth}

	a, err := NewSampler(rand.NewSource(99)).BuildFeed(pool, weak, 0.4, 10)
	require.NoError(t, err)
	b, err := NewSampler(rand.NewSource(99)).BuildFeed(pool, weak, 0.4, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildFeed_InvalidArguments(t *testing.T) {
	s := NewSampler(rand.NewSource(1))
	pool := items(3, model.DimensionGeneric, 0)

	tests := []struct {
		name  string
		ratio float64
		size  int
	}{
		{"異常系: 負の比率", -0.1, 10},
		{"異常系: 1を超える比率", 1.5, 10},
		{"異常系: 負のサイズ", 0.4, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.BuildFeed(pool, nil, tt.ratio, tt.size)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestBuildFeed_EmptyPool(t *testing.T) {
	feed, err := NewSampler(rand.NewSource(1)).BuildFeed(nil, nil, 0.4, 20)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestWeakKey(t *testing.T) {
	a := WeakKey([]model.DimensionTag{model.DimensionHealth, model.DimensionCareer})
	b := WeakKey([]model.DimensionTag{model.DimensionCareer, model.DimensionHealth, model.DimensionCareer})
	assert.Equal(t, "career,health", a)
	assert.Equal(t, a, b)
	assert.Equal(t, "", WeakKey(nil))
}
