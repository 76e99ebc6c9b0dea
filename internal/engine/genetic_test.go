package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geneticSettings(w, h, padding int) model.PackSettings {
	s := testSettings(w, h, padding)
	s.Strategy = model.StrategyGenetic
	return s
}

func TestGenetic_PlacesAllSprites(t *testing.T) {
	settings := geneticSettings(128, 128, 2)
	sprites := []model.Sprite{
		model.NewSprite("a", 60, 40),
		model.NewSprite("b", 30, 30),
		model.NewSprite("c", 30, 30),
		model.NewSprite("d", 100, 50),
	}

	result, err := New(settings).Optimize(sprites)
	require.NoError(t, err)
	assert.Equal(t, len(sprites), result.SpriteCount())
	checkLayout(t, settings, sprites, result)
}

func TestGenetic_NeverWorseThanFirstFit(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 3; i++ {
		sprites := randomSprites(r, 40, 70)

		ff := geneticSettings(160, 160, 1)
		ff.Strategy = model.StrategyFirstFit
		first, err := New(ff).Optimize(sprites)
		require.NoError(t, err)

		evolved, err := New(geneticSettings(160, 160, 1)).Optimize(sprites)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(evolved.Pages), len(first.Pages), "round %d", i)
	}
}

func TestGenetic_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	sprites := randomSprites(r, 30, 40)
	settings := geneticSettings(96, 96, 1)

	first, err := New(settings).Optimize(sprites)
	require.NoError(t, err)
	second, err := New(settings).Optimize(sprites)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenetic_ObserverSeesOnlyFinalLayout(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	sprites := randomSprites(r, 25, 40)

	var opened, placed int
	opt := New(geneticSettings(96, 96, 0))
	opt.Observer = Observer{
		OnPageOpened: func(int) { opened++ },
		OnPlaced:     func(int, model.Placement, float64) { placed++ },
	}

	result, err := opt.Optimize(sprites)
	require.NoError(t, err)
	assert.Equal(t, len(sprites), placed)
	assert.Equal(t, len(result.Pages), opened)
}

func TestGenetic_CustomConfig(t *testing.T) {
	sprites := make([]model.Sprite, 0, 6)
	for i := 0; i < 6; i++ {
		sprites = append(sprites, model.NewSprite(fmt.Sprintf("tile%d", i), 32, 32))
	}
	opt := New(geneticSettings(64, 64, 0))
	opt.Genetic = GeneticConfig{PopulationSize: 4, Generations: 3, MutationRate: 0.5, TournamentSize: 2, EliteCount: 1, Seed: 1}

	result, err := opt.Optimize(sprites)
	require.NoError(t, err)
	assert.Len(t, result.Pages, 2)
	checkLayout(t, opt.Settings, sprites, result)
}

func TestGenetic_EmptyInput(t *testing.T) {
	result, err := New(geneticSettings(64, 64, 0)).Optimize(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Pages)
}

func TestGeneticConfigScaled(t *testing.T) {
	c := DefaultGeneticConfig()

	assert.Equal(t, c.Generations, c.scaled(10).Generations)
	assert.Equal(t, c.PlacementBudget/(c.PopulationSize*200), c.scaled(200).Generations)
	assert.Equal(t, c.MinGenerations, c.scaled(100000).Generations)
	assert.Equal(t, c, c.scaled(0))
}

func TestOrderCrossoverKeepsPermutation(t *testing.T) {
	g := &geneticPacker{rng: rand.New(rand.NewSource(1))}
	p1 := chromosome{order: []int{0, 1, 2, 3, 4, 5, 6, 7}}
	p2 := chromosome{order: []int{7, 6, 5, 4, 3, 2, 1, 0}}

	for i := 0; i < 50; i++ {
		child := g.orderCrossover(p1, p2)
		require.Len(t, child.order, 8)
		assert.ElementsMatch(t, p1.order, child.order)
	}
}

func TestMutateKeepsPermutation(t *testing.T) {
	g := &geneticPacker{rng: rand.New(rand.NewSource(2)), config: GeneticConfig{MutationRate: 1}}
	c := chromosome{order: []int{0, 1, 2, 3, 4, 5}}

	for i := 0; i < 50; i++ {
		g.mutate(&c)
		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5}, c.order)
	}
}
