package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Observer receives packing progress. Either callback may be nil.
type Observer struct {
	OnPageOpened func(index int)
	OnPlaced     func(page int, p model.Placement, occupancy float64)
}

// Optimizer runs the multi-page packing algorithm.
type Optimizer struct {
	Settings model.PackSettings
	Observer Observer
	// Genetic tunes the genetic strategy. The zero value means
	// DefaultGeneticConfig.
	Genetic GeneticConfig
}

func New(settings model.PackSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// page is an open page: its free-space tracker and the placements so far.
type page struct {
	packer *MaxRects
	result model.PageResult
}

// Optimize packs every sprite onto as few pages as the selected strategy
// manages. The input is validated up front; on error no layout is returned.
func (o *Optimizer) Optimize(sprites []model.Sprite) (model.PackResult, error) {
	if err := Validate(o.Settings, sprites); err != nil {
		return model.PackResult{}, err
	}

	settings := o.Settings
	if settings.Strategy == "" {
		settings.Strategy = model.StrategyGlobalBest
	}

	var pages []*page
	var err error
	switch settings.Strategy {
	case model.StrategyGlobalBest:
		pages, err = o.packGlobalBest(sprites)
	case model.StrategyFirstFit:
		pages, err = o.packFirstFit(sprites)
	case model.StrategyGenetic:
		pages, err = o.packGenetic(sprites)
	}
	if err != nil {
		return model.PackResult{}, err
	}

	result := model.PackResult{Settings: settings}
	for _, p := range pages {
		p.result.FreeRects = p.packer.FreeRects()
		result.Pages = append(result.Pages, p.result)
	}
	return result, nil
}

// packGlobalBest repeatedly picks the single best (sprite, page) pair across
// all pending sprites and all open pages. A new page is opened only when no
// pending sprite fits anywhere.
func (o *Optimizer) packGlobalBest(sprites []model.Sprite) ([]*page, error) {
	pending := make([]int, len(sprites))
	for i := range pending {
		pending[i] = i
	}

	var pages []*page
	justOpened := false

	for len(pending) > 0 {
		best := NoFit
		bestPending, bestPage := -1, -1
		var bestNode model.Rect

		for pi, idx := range pending {
			size := o.Settings.PaddedSize(sprites[idx])

			// Best page for this sprite
			local := NoFit
			localPage := -1
			var localNode model.Rect
			for k, p := range pages {
				s, node := p.packer.Score(size.Width, size.Height)
				if s.Less(local) {
					local = s
					localPage = k
					localNode = node
				}
			}

			if localPage >= 0 && local.Less(best) {
				best = local
				bestPending = pi
				bestPage = localPage
				bestNode = localNode
			}
		}

		if bestPending < 0 {
			if justOpened {
				// Validate guarantees every sprite fits an empty page.
				return nil, fmt.Errorf("%w: %q", ErrSpriteTooLarge, sprites[pending[0]].Name)
			}
			pages = o.openPage(pages)
			justOpened = true
			continue
		}

		o.commit(pages, bestPage, sprites[pending[bestPending]], bestNode)
		pending = append(pending[:bestPending], pending[bestPending+1:]...)
		justOpened = false
	}

	return pages, nil
}

// packFirstFit places sprites largest area first, each into the first open
// page that can hold it, opening a page when none can.
func (o *Optimizer) packFirstFit(sprites []model.Sprite) ([]*page, error) {
	return o.packOrdered(sprites, areaOrder(sprites))
}

// areaOrder returns sprite indices sorted by area, largest first. Ties keep
// input order.
func areaOrder(sprites []model.Sprite) []int {
	order := make([]int, len(sprites))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sprites[order[i]].Width*sprites[order[i]].Height >
			sprites[order[j]].Width*sprites[order[j]].Height
	})
	return order
}

// packOrdered places sprites in the given order, each into the first open
// page that can hold it.
func (o *Optimizer) packOrdered(sprites []model.Sprite, order []int) ([]*page, error) {
	var pages []*page
	for _, idx := range order {
		size := o.Settings.PaddedSize(sprites[idx])
		placed := false
		for k, p := range pages {
			if s, node := p.packer.Score(size.Width, size.Height); s.Fits() {
				o.commit(pages, k, sprites[idx], node)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		pages = o.openPage(pages)
		k := len(pages) - 1
		s, node := pages[k].packer.Score(size.Width, size.Height)
		if !s.Fits() {
			return nil, fmt.Errorf("%w: %q", ErrSpriteTooLarge, sprites[idx].Name)
		}
		o.commit(pages, k, sprites[idx], node)
	}
	return pages, nil
}

// openPage appends a new empty page.
func (o *Optimizer) openPage(pages []*page) []*page {
	index := len(pages)
	pages = append(pages, &page{
		packer: NewMaxRects(o.Settings.PageWidth, o.Settings.PageHeight),
		result: model.PageResult{
			Index:  index,
			Name:   o.Settings.PageName(index),
			Width:  o.Settings.PageWidth,
			Height: o.Settings.PageHeight,
		},
	})
	if o.Observer.OnPageOpened != nil {
		o.Observer.OnPageOpened(index)
	}
	return pages
}

// commit places the padded footprint on page k and records the sprite region
// with the padding removed.
func (o *Optimizer) commit(pages []*page, k int, sp model.Sprite, footprint model.Rect) {
	p := pages[k]
	p.packer.Place(footprint)
	placement := model.Placement{
		Sprite:    sp,
		Region:    footprint.Inset(o.Settings.Padding),
		Footprint: footprint,
	}
	p.result.Placements = append(p.result.Placements, placement)
	if o.Observer.OnPlaced != nil {
		o.Observer.OnPlaced(k, placement, p.packer.Occupancy())
	}
}
