package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// GeneticConfig holds parameters for the genetic strategy.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
	// PlacementBudget caps PopulationSize * Generations * sprite count.
	// Generations are reduced to stay within it, down to MinGenerations.
	PlacementBudget int
	MinGenerations  int
}

// DefaultGeneticConfig returns the parameters used by the genetic strategy.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize:  30,
		Generations:     40,
		MutationRate:    0.15,
		TournamentSize:  3,
		EliteCount:      2,
		Seed:            42,
		PlacementBudget: 60000,
		MinGenerations:  5,
	}
}

// scaled returns c with Generations lowered so that a run over n sprites
// stays within PlacementBudget.
func (c GeneticConfig) scaled(n int) GeneticConfig {
	if n == 0 || c.PopulationSize == 0 || c.PlacementBudget <= 0 {
		return c
	}
	limit := c.PlacementBudget / (c.PopulationSize * n)
	if limit < c.MinGenerations {
		limit = c.MinGenerations
	}
	if c.Generations > limit {
		c.Generations = limit
	}
	return c
}

// chromosome is a sprite insertion order.
type chromosome struct {
	order   []int
	fitness float64
}

type geneticPacker struct {
	config  GeneticConfig
	sprites []model.Sprite
	decoder *Optimizer
	rng     *rand.Rand
}

// packGenetic evolves the insertion order fed to packOrdered and replays the
// fittest order through o, so the Observer only sees the final layout. The
// largest-area-first order seeds the population and elitism keeps the best
// order found, so the result never uses more pages than first-fit.
func (o *Optimizer) packGenetic(sprites []model.Sprite) ([]*page, error) {
	if len(sprites) == 0 {
		return nil, nil
	}
	config := o.Genetic
	if config.PopulationSize == 0 {
		config = DefaultGeneticConfig()
	}

	g := &geneticPacker{
		config:  config.scaled(len(sprites)),
		sprites: sprites,
		decoder: &Optimizer{Settings: o.Settings},
		rng:     rand.New(rand.NewSource(config.Seed)),
	}
	best, err := g.evolve()
	if err != nil {
		return nil, err
	}
	return o.packOrdered(sprites, best.order)
}

func (g *geneticPacker) evolve() (chromosome, error) {
	population := g.initPopulation()
	for i := range population {
		f, err := g.evaluate(population[i])
		if err != nil {
			return chromosome{}, err
		}
		population[i].fitness = f
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)
		elite := g.config.EliteCount
		if elite > len(population) {
			elite = len(population)
		}
		for i := 0; i < elite; i++ {
			next = append(next, population[i].clone())
		}

		for len(next) < g.config.PopulationSize {
			child := g.orderCrossover(g.tournamentSelect(population), g.tournamentSelect(population))
			g.mutate(&child)
			f, err := g.evaluate(child)
			if err != nil {
				return chromosome{}, err
			}
			child.fitness = f
			next = append(next, child)
		}
		population = next
	}

	sortByFitness(population)
	return population[0], nil
}

// sortByFitness orders the population best first. Ties keep their position
// so elites survive unchanged.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation returns random orders with the largest-area-first order in
// slot 0.
func (g *geneticPacker) initPopulation() []chromosome {
	n := len(g.sprites)
	size := g.config.PopulationSize
	if size < 1 {
		size = 1
	}
	population := make([]chromosome, size)
	population[0] = chromosome{order: areaOrder(g.sprites)}
	for i := 1; i < size; i++ {
		population[i] = chromosome{order: g.rng.Perm(n)}
	}
	return population
}

// evaluate decodes c and scores it. Fewer pages always score higher; among
// layouts with the same page count a less occupied last page wins, since the
// earlier pages are then packed tighter.
func (g *geneticPacker) evaluate(c chromosome) (float64, error) {
	pages, err := g.decoder.packOrdered(g.sprites, c.order)
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, nil
	}

	var used, total int
	for _, p := range pages {
		used += p.result.UsedArea()
		total += p.result.TotalArea()
	}
	efficiency := float64(used) / float64(total)
	pagePenalty := float64(len(pages)-1) * 0.05
	lastPenalty := pages[len(pages)-1].packer.Occupancy() * 0.01

	return efficiency - pagePenalty - lastPenalty, nil
}

func (g *geneticPacker) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best.clone()
}

// orderCrossover is OX1: a slice of parent1 is kept in place and the
// remaining positions are filled with parent2's sprites in parent2's order.
func (g *geneticPacker) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return parent1.clone()
	}

	lo, hi := g.rng.Intn(n), g.rng.Intn(n)
	if lo > hi {
		lo, hi = hi, lo
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make(map[int]bool, hi-lo+1)
	for i := lo; i <= hi; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	pos := (hi + 1) % n
	for _, idx := range parent2.order {
		if !inSegment[idx] {
			child.order[pos] = idx
			pos = (pos + 1) % n
		}
	}
	return child
}

// mutate applies a swap and, less often, a segment reversal.
func (g *geneticPacker) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for ; i < j; i, j = i+1, j-1 {
			c.order[i], c.order[j] = c.order[j], c.order[i]
		}
	}
}

func (c chromosome) clone() chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness}
}
