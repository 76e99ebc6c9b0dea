package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Rect is an axis-aligned rectangle in page pixels. The origin is the
// top-left corner of the page.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns width * height.
func (r Rect) Area() int { return r.Width * r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o share interior area. Touching edges do
// not count as an intersection.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// ContainedIn reports whether r lies fully inside o.
func (r Rect) ContainedIn(o Rect) bool {
	return r.X >= o.X && r.Y >= o.Y &&
		r.Right() <= o.Right() && r.Bottom() <= o.Bottom()
}

// Inset shrinks the rectangle by p on every side.
func (r Rect) Inset(p int) Rect {
	return Rect{X: r.X + p, Y: r.Y + p, Width: r.Width - 2*p, Height: r.Height - 2*p}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// RectSize is a placement request, independent of position.
type RectSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Sprite is a single image to be placed on a page.
type Sprite struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`  // px, without padding
	Height int    `json:"height"` // px, without padding
	Source string `json:"source,omitempty"`
}

func NewSprite(name string, w, h int) Sprite {
	return Sprite{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  w,
		Height: h,
	}
}

// Strategy selects how the driver assigns sprites to pages.
type Strategy string

const (
	StrategyGlobalBest Strategy = "global-best" // Best (sprite, page) pair across everything pending (slow, tight)
	StrategyFirstFit   Strategy = "first-fit"   // Largest sprite first into the first page it fits (fast)
	StrategyGenetic    Strategy = "genetic"     // Evolved insertion order, decoded first-fit
)

// Strategies lists every supported strategy in display order.
func Strategies() []Strategy {
	return []Strategy{StrategyGlobalBest, StrategyFirstFit, StrategyGenetic}
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// PackSettings holds page and packing configuration.
type PackSettings struct {
	PageWidth       int      `json:"page_width" toml:"page_width"`
	PageHeight      int      `json:"page_height" toml:"page_height"`
	Padding         int      `json:"padding" toml:"padding"`             // px reserved on every side of a sprite
	FlipVertical    bool     `json:"flip_vertical" toml:"flip_vertical"` // Flip sprite pixels before compositing
	Strategy        Strategy `json:"strategy" toml:"strategy"`
	PageNamePattern string   `json:"page_name_pattern" toml:"page_name_pattern"` // fmt pattern taking the page index
	AtlasName       string   `json:"atlas_name" toml:"atlas_name"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		PageWidth:       4096,
		PageHeight:      4096,
		Padding:         4,
		FlipVertical:    false,
		Strategy:        StrategyGlobalBest,
		PageNamePattern: "texture%d.png",
		AtlasName:       "texture.atlas",
	}
}

// PaddedSize returns the size submitted to the packer for a sprite.
func (s PackSettings) PaddedSize(sp Sprite) RectSize {
	return RectSize{
		Width:  sp.Width + 2*s.Padding,
		Height: sp.Height + 2*s.Padding,
	}
}

// PageName returns the image file name of the page with the given index.
func (s PackSettings) PageName(index int) string {
	pattern := s.PageNamePattern
	if pattern == "" {
		pattern = DefaultSettings().PageNamePattern
	}
	return fmt.Sprintf(pattern, index)
}

// Placement is a single sprite committed to a page.
type Placement struct {
	Sprite    Sprite `json:"sprite"`
	Region    Rect   `json:"region"`    // Final rectangle, padding excluded
	Footprint Rect   `json:"footprint"` // Rectangle reserved in the packer, padding included
}

// PageResult represents one page with its placed sprites.
type PageResult struct {
	Index      int         `json:"index"`
	Name       string      `json:"name"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Placements []Placement `json:"placements"`
	FreeRects  []Rect      `json:"free_rects,omitempty"`
}

// UsedArea returns the total sprite area on the page, padding excluded.
func (pr PageResult) UsedArea() int {
	var total int
	for _, p := range pr.Placements {
		total += p.Region.Area()
	}
	return total
}

// TotalArea returns the page area.
func (pr PageResult) TotalArea() int {
	return pr.Width * pr.Height
}

// Efficiency returns the usage percentage.
func (pr PageResult) Efficiency() float64 {
	ta := pr.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(pr.UsedArea()) / float64(ta) * 100.0
}

// Regions returns the sprite name to region mapping of the page.
func (pr PageResult) Regions() map[string]Rect {
	regions := make(map[string]Rect, len(pr.Placements))
	for _, p := range pr.Placements {
		regions[p.Sprite.Name] = p.Region
	}
	return regions
}

// PackResult holds the full layout.
type PackResult struct {
	Pages    []PageResult `json:"pages"`
	Settings PackSettings `json:"settings"`
}

// SpriteCount returns the number of placed sprites across all pages.
func (r PackResult) SpriteCount() int {
	total := 0
	for _, p := range r.Pages {
		total += len(p.Placements)
	}
	return total
}

// TotalEfficiency returns overall page usage percentage.
func (r PackResult) TotalEfficiency() float64 {
	var used, total int
	for _, p := range r.Pages {
		used += p.UsedArea()
		total += p.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100.0
}
