// Package atlas encodes and decodes the binary atlas file that records which
// page every sprite lives on and where.
//
// Layout, all integers little-endian:
//
//	u8  version (1)
//	u8  page count
//	per page:
//	  u32 length + bytes   page image name
//	  u16                  region count
//	  per region:
//	    u32 length + bytes region name
//	    u16 x, u16 y, u16 width, u16 height
//
// Page pixels are not embedded; each page image is a separate file next to
// the atlas, named by its page image name.
package atlas

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Version is the only atlas format version this package reads and writes.
const Version uint8 = 1

// Caps imposed by the on-disk field widths.
const (
	MaxPages      = math.MaxUint8
	MaxRegions    = math.MaxUint16
	MaxCoordinate = math.MaxUint16
	MaxNameLength = math.MaxUint32
)

var (
	ErrFormat = errors.New("malformed atlas")
	ErrLimit  = errors.New("atlas exceeds format limits")
)

// VersionError reports an atlas written with an unsupported version.
type VersionError struct {
	Version uint8
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported atlas version %d (want %d)", e.Version, Version)
}

func (e *VersionError) Unwrap() error { return ErrFormat }

// Region is a named rectangle on a page.
type Region struct {
	Name string
	Rect model.Rect
}

// UV returns the region's texture coordinates on a page of the given size.
func (r Region) UV(pageWidth, pageHeight int) (u, v, u2, v2 float32) {
	if pageWidth <= 0 || pageHeight <= 0 {
		return 0, 0, 1, 1
	}
	pw, ph := float32(pageWidth), float32(pageHeight)
	return float32(r.Rect.X) / pw, float32(r.Rect.Y) / ph,
		float32(r.Rect.Right()) / pw, float32(r.Rect.Bottom()) / ph
}

// Page is one atlas page: its image file name and the regions on it.
type Page struct {
	ImageName string
	Regions   []Region
}

// Atlas is the decoded atlas file.
type Atlas struct {
	Pages []Page
}

// FromResult builds an atlas from a finished layout. Regions are ordered by
// name within each page.
func FromResult(result model.PackResult) (*Atlas, error) {
	a := &Atlas{Pages: make([]Page, 0, len(result.Pages))}
	for _, pr := range result.Pages {
		p := Page{
			ImageName: pr.Name,
			Regions:   make([]Region, 0, len(pr.Placements)),
		}
		for _, pl := range pr.Placements {
			p.Regions = append(p.Regions, Region{Name: pl.Sprite.Name, Rect: pl.Region})
		}
		sort.Slice(p.Regions, func(i, j int) bool {
			return p.Regions[i].Name < p.Regions[j].Name
		})
		a.Pages = append(a.Pages, p)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the atlas can be encoded without truncating any field.
func (a *Atlas) Validate() error {
	if len(a.Pages) > MaxPages {
		return fmt.Errorf("%w: %d pages, at most %d allowed", ErrLimit, len(a.Pages), MaxPages)
	}
	for i, p := range a.Pages {
		if uint64(len(p.ImageName)) > MaxNameLength {
			return fmt.Errorf("%w: page %d image name too long", ErrLimit, i)
		}
		if len(p.Regions) > MaxRegions {
			return fmt.Errorf("%w: page %d has %d regions, at most %d allowed", ErrLimit, i, len(p.Regions), MaxRegions)
		}
		for _, r := range p.Regions {
			if uint64(len(r.Name)) > MaxNameLength {
				return fmt.Errorf("%w: region name on page %d too long", ErrLimit, i)
			}
			for _, v := range []int{r.Rect.X, r.Rect.Y, r.Rect.Width, r.Rect.Height} {
				if v < 0 || v > MaxCoordinate {
					return fmt.Errorf("%w: region %q on page %d has rect %v outside 0..%d",
						ErrLimit, r.Name, i, r.Rect, MaxCoordinate)
				}
			}
		}
	}
	return nil
}

// Find returns the first region with the given name and the index of the page
// it is on.
func (a *Atlas) Find(name string) (int, Region, bool) {
	for i, p := range a.Pages {
		for _, r := range p.Regions {
			if r.Name == name {
				return i, r, true
			}
		}
	}
	return -1, Region{}, false
}

// RegionCount returns the number of regions across all pages.
func (a *Atlas) RegionCount() int {
	total := 0
	for _, p := range a.Pages {
		total += len(p.Regions)
	}
	return total
}
