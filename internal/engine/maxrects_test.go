package engine

import (
	"math/rand"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertFreeListMinimal checks that no free rect is contained in another.
func assertFreeListMinimal(t *testing.T, free []model.Rect) {
	t.Helper()
	for i, a := range free {
		for j, b := range free {
			if i != j {
				assert.False(t, a.ContainedIn(b), "free rect %v is contained in %v", a, b)
			}
		}
	}
}

// assertUsedValid checks that used rects stay on the page, never overlap each
// other and never overlap free space.
func assertUsedValid(t *testing.T, m *MaxRects) {
	t.Helper()
	bounds := model.Rect{Width: m.Width(), Height: m.Height()}
	used := m.UsedRects()
	for i, a := range used {
		assert.True(t, a.ContainedIn(bounds), "used rect %v outside page", a)
		for _, b := range used[i+1:] {
			assert.False(t, a.Intersects(b), "used rect %v overlaps %v", a, b)
		}
		for _, f := range m.FreeRects() {
			assert.False(t, a.Intersects(f), "used rect %v overlaps free rect %v", a, f)
		}
	}
}

func TestMaxRects_NewPageHasSingleFreeRect(t *testing.T) {
	m := NewMaxRects(128, 64)

	assert.Equal(t, []model.Rect{{X: 0, Y: 0, Width: 128, Height: 64}}, m.FreeRects())
	assert.Empty(t, m.UsedRects())
	assert.Equal(t, 0.0, m.Occupancy())
}

func TestMaxRects_ScoreBestShortSideFit(t *testing.T) {
	m := NewMaxRects(100, 100)

	s, node := m.Score(60, 60)
	require.True(t, s.Fits())
	assert.Equal(t, Score{Short: 40, Long: 40}, s)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 60, Height: 60}, node)

	s, _ = m.Score(100, 30)
	assert.Equal(t, Score{Short: 0, Long: 70}, s)
}

func TestMaxRects_ScorePrefersTighterFreeRect(t *testing.T) {
	m := NewMaxRects(100, 100)
	m.Place(model.Rect{X: 0, Y: 0, Width: 70, Height: 100})

	// Only the 30-wide strip on the right remains.
	s, node := m.Score(30, 50)
	require.True(t, s.Fits())
	assert.Equal(t, 0, s.Short)
	assert.Equal(t, 70, node.X)
}

func TestMaxRects_ScoreNoFit(t *testing.T) {
	m := NewMaxRects(10, 10)

	s, node := m.Score(11, 5)
	assert.False(t, s.Fits())
	assert.Equal(t, NoFit, s)
	assert.Equal(t, 0, node.Height, "no-fit candidate must have zero height")

	// No rotation: 5x11 does not fit a 10x10 page either.
	s, _ = m.Score(5, 11)
	assert.False(t, s.Fits())
}

func TestMaxRects_ScoreDoesNotMutate(t *testing.T) {
	m := NewMaxRects(64, 64)
	before := m.FreeRects()

	m.Score(10, 10)
	m.Score(64, 64)

	assert.Equal(t, before, m.FreeRects())
	assert.Empty(t, m.UsedRects())
}

func TestMaxRects_PlaceSplitsIntoResiduals(t *testing.T) {
	m := NewMaxRects(100, 100)
	m.Place(model.Rect{X: 0, Y: 0, Width: 60, Height: 40})

	free := m.FreeRects()
	assert.ElementsMatch(t, []model.Rect{
		{X: 0, Y: 40, Width: 100, Height: 60}, // below
		{X: 60, Y: 0, Width: 40, Height: 100}, // right
	}, free)
	assertFreeListMinimal(t, free)
	assertUsedValid(t, m)
}

func TestMaxRects_PlaceInMiddleProducesFourResiduals(t *testing.T) {
	m := NewMaxRects(30, 30)
	m.Place(model.Rect{X: 10, Y: 10, Width: 10, Height: 10})

	assert.ElementsMatch(t, []model.Rect{
		{X: 0, Y: 0, Width: 30, Height: 10},
		{X: 0, Y: 20, Width: 30, Height: 10},
		{X: 0, Y: 0, Width: 10, Height: 30},
		{X: 20, Y: 0, Width: 10, Height: 30},
	}, m.FreeRects())
}

func TestMaxRects_FullPagePlacementLeavesNoFreeSpace(t *testing.T) {
	m := NewMaxRects(32, 32)

	r, ok := m.Insert(32, 32)
	require.True(t, ok)
	assert.Equal(t, model.Rect{Width: 32, Height: 32}, r)
	assert.Empty(t, m.FreeRects())
	assert.Equal(t, 1.0, m.Occupancy())

	_, ok = m.Insert(1, 1)
	assert.False(t, ok)
}

func TestMaxRects_Occupancy(t *testing.T) {
	m := NewMaxRects(100, 100)
	_, ok := m.Insert(50, 50)
	require.True(t, ok)
	_, ok = m.Insert(50, 50)
	require.True(t, ok)

	assert.InDelta(t, 0.5, m.Occupancy(), 1e-9)
}

func TestMaxRects_RandomInsertsKeepInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(0x1234))
	sizes := []int{8, 32, 64}

	for _, maxSize := range sizes {
		m := NewMaxRects(256, 256)
		for i := 0; i < 200; i++ {
			w := 1 + r.Intn(maxSize)
			h := 1 + r.Intn(maxSize)
			if _, ok := m.Insert(w, h); !ok {
				continue
			}
			assertFreeListMinimal(t, m.FreeRects())
		}
		assertUsedValid(t, m)
		assert.Greater(t, m.Occupancy(), 0.0)
		assert.LessOrEqual(t, m.Occupancy(), 1.0)
	}
}

func TestPruneContained_KeepsOneOfIdenticalRects(t *testing.T) {
	a := model.Rect{X: 1, Y: 1, Width: 5, Height: 5}
	inner := model.Rect{X: 2, Y: 2, Width: 1, Height: 1}

	got := pruneContained([]model.Rect{a, inner, a})
	assert.Equal(t, []model.Rect{a}, got)
}

func TestInsertResidual(t *testing.T) {
	big := model.Rect{X: 0, Y: 0, Width: 10, Height: 10}
	small := model.Rect{X: 2, Y: 2, Width: 3, Height: 3}

	got := insertResidual(nil, small)
	got = insertResidual(got, big)
	assert.Equal(t, []model.Rect{big}, got, "covering residual replaces covered one")

	got = insertResidual(got, small)
	assert.Equal(t, []model.Rect{big}, got, "covered residual is dropped")

	got = insertResidual(got, model.Rect{X: 0, Y: 0, Width: 0, Height: 4})
	assert.Equal(t, []model.Rect{big}, got, "degenerate residual is dropped")
}

func TestScoreLess(t *testing.T) {
	assert.True(t, Score{1, 9}.Less(Score{2, 0}))
	assert.True(t, Score{1, 2}.Less(Score{1, 3}))
	assert.False(t, Score{1, 3}.Less(Score{1, 3}))
	assert.True(t, Score{0, 0}.Less(NoFit))
	assert.False(t, NoFit.Less(NoFit))
}
