package engine

import (
	"math"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Score is the best-short-side-fit score of a candidate placement. Lower is
// better; Short is compared first and Long breaks ties.
type Score struct {
	Short int // Smaller leftover side after placement
	Long  int // Larger leftover side after placement
}

// NoFit is the score reported when a size fits nowhere. It is larger than any
// real score.
var NoFit = Score{Short: math.MaxInt, Long: math.MaxInt}

// Less reports whether s is strictly better than o.
func (s Score) Less(o Score) bool {
	return s.Short < o.Short || (s.Short == o.Short && s.Long < o.Long)
}

// Fits reports whether the score belongs to a real placement.
func (s Score) Fits() bool {
	return s != NoFit
}

// MaxRects tracks the free space of a single page as a list of maximal free
// rectangles. Free rectangles may overlap each other; none is contained in
// another after a placement.
type MaxRects struct {
	width, height int
	free          []model.Rect
	used          []model.Rect
}

// NewMaxRects creates an empty page of the given size.
func NewMaxRects(width, height int) *MaxRects {
	return &MaxRects{
		width:  width,
		height: height,
		free:   []model.Rect{{X: 0, Y: 0, Width: width, Height: height}},
	}
}

// Score returns where a width x height rectangle would be placed and how well
// it fits, without modifying the page. When nothing fits the score is NoFit
// and the returned rectangle has zero height.
func (m *MaxRects) Score(width, height int) (Score, model.Rect) {
	best := NoFit
	var node model.Rect

	for _, r := range m.free {
		if r.Width < width || r.Height < height {
			continue
		}
		leftoverHoriz := abs(r.Width - width)
		leftoverVert := abs(r.Height - height)
		s := Score{
			Short: min(leftoverHoriz, leftoverVert),
			Long:  max(leftoverHoriz, leftoverVert),
		}
		if s.Less(best) {
			best = s
			node = model.Rect{X: r.X, Y: r.Y, Width: width, Height: height}
		}
	}

	if node.Height == 0 {
		return NoFit, model.Rect{}
	}
	return best, node
}

// Insert scores and places a rectangle in one step. Returns false if it does
// not fit anywhere on the page.
func (m *MaxRects) Insert(width, height int) (model.Rect, bool) {
	s, node := m.Score(width, height)
	if !s.Fits() {
		return model.Rect{}, false
	}
	m.Place(node)
	return node, true
}

// Place commits a rectangle previously returned by Score. Every free
// rectangle overlapping it is split into the residual strips around it, then
// the free list is pruned of contained entries.
func (m *MaxRects) Place(node model.Rect) {
	var kept, added []model.Rect

	for _, f := range m.free {
		if !f.Intersects(node) {
			kept = append(kept, f)
			continue
		}
		for _, split := range splitFree(f, node) {
			added = insertResidual(added, split)
		}
	}

	m.free = pruneContained(append(kept, added...))
	m.used = append(m.used, node)
}

// splitFree returns the up to four maximal strips of free that lie above,
// below, left and right of used. free and used must intersect.
func splitFree(free, used model.Rect) []model.Rect {
	splits := make([]model.Rect, 0, 4)

	// Top strip (full width of free)
	if used.Y > free.Y {
		splits = append(splits, model.Rect{
			X: free.X, Y: free.Y,
			Width: free.Width, Height: used.Y - free.Y,
		})
	}
	// Bottom strip (full width of free)
	if used.Bottom() < free.Bottom() {
		splits = append(splits, model.Rect{
			X: free.X, Y: used.Bottom(),
			Width: free.Width, Height: free.Bottom() - used.Bottom(),
		})
	}
	// Left strip (full height of free)
	if used.X > free.X {
		splits = append(splits, model.Rect{
			X: free.X, Y: free.Y,
			Width: used.X - free.X, Height: free.Height,
		})
	}
	// Right strip (full height of free)
	if used.Right() < free.Right() {
		splits = append(splits, model.Rect{
			X: used.Right(), Y: free.Y,
			Width: free.Right() - used.Right(), Height: free.Height,
		})
	}

	return splits
}

// insertResidual adds r to the residuals produced by the current placement,
// unless one of them already covers it. Residuals covered by r are dropped.
func insertResidual(residuals []model.Rect, r model.Rect) []model.Rect {
	if r.Empty() {
		return residuals
	}
	for _, e := range residuals {
		if r.ContainedIn(e) {
			return residuals
		}
	}
	out := residuals[:0]
	for _, e := range residuals {
		if !e.ContainedIn(r) {
			out = append(out, e)
		}
	}
	return append(out, r)
}

// pruneContained removes any rect that is fully contained within another.
// Of two identical rects the first one is kept.
func pruneContained(rects []model.Rect) []model.Rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]model.Rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !a.ContainedIn(b) {
				continue
			}
			if a != b || j < i {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// Occupancy returns the ratio of used area to page area.
func (m *MaxRects) Occupancy() float64 {
	var used int
	for _, r := range m.used {
		used += r.Area()
	}
	total := m.width * m.height
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

// Width returns the page width.
func (m *MaxRects) Width() int { return m.width }

// Height returns the page height.
func (m *MaxRects) Height() int { return m.height }

// FreeRects returns a copy of the current free list.
func (m *MaxRects) FreeRects() []model.Rect {
	return append([]model.Rect(nil), m.free...)
}

// UsedRects returns a copy of the placed rectangles in placement order.
func (m *MaxRects) UsedRects() []model.Rect {
	return append([]model.Rect(nil), m.used...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
