package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(w, h, padding int) model.PackSettings {
	s := model.DefaultSettings()
	s.PageWidth = w
	s.PageHeight = h
	s.Padding = padding
	return s
}

func randomSprites(r *rand.Rand, count, maxSize int) []model.Sprite {
	sprites := make([]model.Sprite, count)
	for i := range sprites {
		sprites[i] = model.NewSprite(fmt.Sprintf("sprite_%03d", i), 1+r.Intn(maxSize), 1+r.Intn(maxSize))
	}
	return sprites
}

// checkLayout verifies the layout-wide properties every strategy must hold.
func checkLayout(t *testing.T, settings model.PackSettings, sprites []model.Sprite, result model.PackResult) {
	t.Helper()

	seen := map[string]int{}
	for _, pg := range result.Pages {
		bounds := model.Rect{Width: pg.Width, Height: pg.Height}
		for i, a := range pg.Placements {
			seen[a.Sprite.Name]++

			// Padding never leaks into the stored region
			assert.Equal(t, a.Sprite.Width, a.Region.Width, "region width of %s", a.Sprite.Name)
			assert.Equal(t, a.Sprite.Height, a.Region.Height, "region height of %s", a.Sprite.Name)
			assert.Equal(t, a.Footprint.Inset(settings.Padding), a.Region)
			assert.True(t, a.Region.ContainedIn(a.Footprint))
			assert.True(t, a.Footprint.ContainedIn(bounds), "footprint %v outside page", a.Footprint)

			for _, b := range pg.Placements[i+1:] {
				assert.False(t, a.Footprint.Intersects(b.Footprint),
					"%s %v overlaps %s %v", a.Sprite.Name, a.Footprint, b.Sprite.Name, b.Footprint)
			}
		}
		assertFreeListMinimal(t, pg.FreeRects)
	}

	// Conservation: every sprite exactly once
	require.Len(t, seen, len(sprites))
	for _, sp := range sprites {
		assert.Equal(t, 1, seen[sp.Name], "sprite %s placed %d times", sp.Name, seen[sp.Name])
	}
}

func TestOptimize_SingleSprite(t *testing.T) {
	settings := testSettings(100, 100, 0)
	sprites := []model.Sprite{model.NewSprite("hero", 60, 60)}

	result, err := New(settings).Optimize(sprites)
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	require.Len(t, result.Pages[0].Placements, 1)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 60, Height: 60}, result.Pages[0].Placements[0].Region)
	assert.Equal(t, "texture0.png", result.Pages[0].Name)
}

func TestOptimize_TwoSpritesNeedTwoPages(t *testing.T) {
	settings := testSettings(10, 10, 0)
	sprites := []model.Sprite{
		model.NewSprite("a", 8, 8),
		model.NewSprite("b", 8, 8),
	}

	result, err := New(settings).Optimize(sprites)
	require.NoError(t, err)

	require.Len(t, result.Pages, 2)
	assert.Len(t, result.Pages[0].Placements, 1)
	assert.Len(t, result.Pages[1].Placements, 1)
	assert.Equal(t, "texture1.png", result.Pages[1].Name)
	checkLayout(t, settings, sprites, result)
}

func TestOptimize_OversizeSpriteFailsBeforePacking(t *testing.T) {
	settings := testSettings(40, 40, 5)
	sprites := []model.Sprite{model.NewSprite("boulder", 50, 50)}

	opened := 0
	opt := New(settings)
	opt.Observer.OnPageOpened = func(int) { opened++ }

	result, err := opt.Optimize(sprites)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpriteTooLarge))

	var oversize *OversizeError
	require.True(t, errors.As(err, &oversize))
	assert.Equal(t, "boulder", oversize.Sprite)
	assert.Equal(t, model.RectSize{Width: 60, Height: 60}, oversize.Padded)

	assert.Empty(t, result.Pages)
	assert.Equal(t, 0, opened, "no page may be opened on precondition failure")
}

func TestOptimize_PaddingPushesSpriteOverPage(t *testing.T) {
	// 40x40 fits exactly, but not with 1px padding.
	_, err := New(testSettings(40, 40, 0)).Optimize([]model.Sprite{model.NewSprite("a", 40, 40)})
	assert.NoError(t, err)

	_, err = New(testSettings(40, 40, 1)).Optimize([]model.Sprite{model.NewSprite("a", 40, 40)})
	assert.ErrorIs(t, err, ErrSpriteTooLarge)
}

func TestOptimize_ZeroAreaSpriteRejected(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testSettings(64, 64, 0)).Optimize([]model.Sprite{model.NewSprite("bad", tt.w, tt.h)})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSprite)

			var invalid *InvalidSpriteError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "bad", invalid.Sprite)
		})
	}
}

func TestOptimize_ReportsEveryInvalidSprite(t *testing.T) {
	sprites := []model.Sprite{
		model.NewSprite("ok", 4, 4),
		model.NewSprite("flat", 4, 0),
		model.NewSprite("huge", 500, 4),
	}

	_, err := New(testSettings(64, 64, 0)).Optimize(sprites)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSprite)
	assert.ErrorIs(t, err, ErrSpriteTooLarge)
	assert.Contains(t, err.Error(), "flat")
	assert.Contains(t, err.Error(), "huge")
}

func TestOptimize_DuplicateNamesRejected(t *testing.T) {
	sprites := []model.Sprite{
		model.NewSprite("coin", 4, 4),
		model.NewSprite("coin", 8, 8),
	}

	_, err := New(testSettings(64, 64, 0)).Optimize(sprites)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestOptimize_InvalidSettings(t *testing.T) {
	sprites := []model.Sprite{model.NewSprite("a", 4, 4)}

	bad := []model.PackSettings{
		testSettings(0, 64, 0),
		testSettings(64, -1, 0),
		testSettings(64, 64, -2),
	}
	unknown := testSettings(64, 64, 0)
	unknown.Strategy = "best-guess"
	bad = append(bad, unknown)

	for _, s := range bad {
		_, err := New(s).Optimize(sprites)
		assert.ErrorIs(t, err, ErrInvalidSettings, "settings %+v", s)
	}
}

func TestOptimize_EmptyInput(t *testing.T) {
	result, err := New(testSettings(64, 64, 2)).Optimize(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Pages)
	assert.Equal(t, 0, result.SpriteCount())
}

func TestOptimize_EmptyStrategyMeansGlobalBest(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	sprites := randomSprites(r, 30, 40)

	explicit := testSettings(128, 128, 1)
	explicit.Strategy = model.StrategyGlobalBest
	want, err := New(explicit).Optimize(sprites)
	require.NoError(t, err)

	unset := explicit
	unset.Strategy = ""
	got, err := New(unset).Optimize(sprites)
	require.NoError(t, err)

	assert.Equal(t, model.StrategyGlobalBest, got.Settings.Strategy)
	assert.Equal(t, want, got)
}

func TestOptimize_PaddingRegions(t *testing.T) {
	settings := testSettings(64, 64, 3)
	sprites := []model.Sprite{
		model.NewSprite("a", 20, 10),
		model.NewSprite("b", 10, 20),
		model.NewSprite("c", 5, 5),
	}

	result, err := New(settings).Optimize(sprites)
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	for _, p := range result.Pages[0].Placements {
		assert.Equal(t, p.Sprite.Width+6, p.Footprint.Width)
		assert.Equal(t, p.Sprite.Height+6, p.Footprint.Height)
		assert.GreaterOrEqual(t, p.Region.X, 3)
		assert.GreaterOrEqual(t, p.Region.Y, 3)
	}
	checkLayout(t, settings, sprites, result)
}

func TestOptimize_GlobalBestPicksTightestSpriteFirst(t *testing.T) {
	settings := testSettings(100, 100, 0)
	sprites := []model.Sprite{
		model.NewSprite("small", 10, 10),
		model.NewSprite("exact", 100, 100),
	}

	var order []string
	opt := New(settings)
	opt.Observer.OnPlaced = func(_ int, p model.Placement, _ float64) {
		order = append(order, p.Sprite.Name)
	}

	result, err := opt.Optimize(sprites)
	require.NoError(t, err)

	// The exact fit scores (0, 0) and is placed first, filling page 0.
	assert.Equal(t, []string{"exact", "small"}, order)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, "exact", result.Pages[0].Placements[0].Sprite.Name)
	assert.Equal(t, 1, len(result.Pages[1].Placements))
}

func TestOptimize_GlobalBestIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	sprites := randomSprites(r, 60, 40)
	settings := testSettings(128, 128, 1)

	first, err := New(settings).Optimize(sprites)
	require.NoError(t, err)
	second, err := New(settings).Optimize(sprites)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOptimize_RandomLayoutsHoldInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(0x5eed))

	for _, strategy := range model.Strategies() {
		for _, padding := range []int{0, 1, 4} {
			t.Run(fmt.Sprintf("%s/pad%d", strategy, padding), func(t *testing.T) {
				settings := testSettings(256, 256, padding)
				settings.Strategy = strategy
				sprites := randomSprites(r, 120, 60)

				result, err := New(settings).Optimize(sprites)
				require.NoError(t, err)
				checkLayout(t, settings, sprites, result)
			})
		}
	}
}

func TestOptimize_ObserverSeesEveryPlacement(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	sprites := randomSprites(r, 40, 50)

	var pagesOpened, placed int
	var lastOccupancy float64
	opt := New(testSettings(128, 128, 0))
	opt.Observer = Observer{
		OnPageOpened: func(int) { pagesOpened++ },
		OnPlaced: func(_ int, _ model.Placement, occ float64) {
			placed++
			lastOccupancy = occ
		},
	}

	result, err := opt.Optimize(sprites)
	require.NoError(t, err)
	assert.Equal(t, len(result.Pages), pagesOpened)
	assert.Equal(t, len(sprites), placed)
	assert.Greater(t, lastOccupancy, 0.0)
}

func TestOptimize_FirstFitPlacesLargestFirst(t *testing.T) {
	settings := testSettings(100, 100, 0)
	settings.Strategy = model.StrategyFirstFit
	sprites := []model.Sprite{
		model.NewSprite("tiny", 5, 5),
		model.NewSprite("big", 80, 80),
		model.NewSprite("mid", 20, 20),
	}

	var order []string
	opt := New(settings)
	opt.Observer.OnPlaced = func(_ int, p model.Placement, _ float64) {
		order = append(order, p.Sprite.Name)
	}

	result, err := opt.Optimize(sprites)
	require.NoError(t, err)
	assert.Equal(t, []string{"big", "mid", "tiny"}, order)
	assert.Len(t, result.Pages, 1)
	checkLayout(t, settings, sprites, result)
}

func TestOptimize_ManyPages(t *testing.T) {
	settings := testSettings(32, 32, 0)
	var sprites []model.Sprite
	for i := 0; i < 10; i++ {
		sprites = append(sprites, model.NewSprite(fmt.Sprintf("tile%d", i), 32, 32))
	}

	result, err := New(settings).Optimize(sprites)
	require.NoError(t, err)
	assert.Len(t, result.Pages, 10)
	assert.InDelta(t, 100.0, result.TotalEfficiency(), 1e-9)
	checkLayout(t, settings, sprites, result)
}

func TestCompareStrategies(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	sprites := randomSprites(r, 50, 40)

	results := CompareStrategies(testSettings(128, 128, 1), sprites)
	require.Len(t, results, len(model.Strategies()))

	for i, cr := range results {
		assert.Equal(t, model.Strategies()[i], cr.Strategy)
		require.NoError(t, cr.Err)
		assert.Equal(t, len(cr.Result.Pages), cr.PagesUsed)
		assert.Equal(t, len(sprites), cr.Result.SpriteCount())
		assert.GreaterOrEqual(t, cr.WastePercent, 0.0)
	}
}

func TestCompareStrategies_PropagatesErrors(t *testing.T) {
	results := CompareStrategies(testSettings(16, 16, 0), []model.Sprite{model.NewSprite("x", 17, 1)})
	for _, cr := range results {
		assert.ErrorIs(t, cr.Err, ErrSpriteTooLarge)
		assert.Equal(t, 0, cr.PagesUsed)
	}
}
