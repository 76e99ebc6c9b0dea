// Package compositor copies sprite pixels onto page images at the positions
// chosen by the packer and writes the finished pages as PNG files.
package compositor

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// NewPage returns a fully transparent page of the given size.
func NewPage(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// FlipVertical returns a copy of img with its rows in reverse order.
func FlipVertical(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	stride := out.Stride
	row := make([]byte, stride)
	for top, bottom := 0, b.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := out.Pix[top*stride : (top+1)*stride]
		btm := out.Pix[bottom*stride : (bottom+1)*stride]
		copy(row, t)
		copy(t, btm)
		copy(btm, row)
	}
	return out
}

// Composite copies sprite onto page with its top-left corner at (x, y),
// overwriting whatever was there. With flip set the sprite is flipped
// vertically first.
func Composite(page draw.Image, sprite image.Image, x, y int, flip bool) {
	if flip {
		sprite = FlipVertical(sprite)
	}
	sb := sprite.Bounds()
	dst := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	draw.Draw(page, dst, sprite, sb.Min, draw.Src)
}

// RenderPages builds one image per page of result. images maps sprite IDs to
// their decoded pixels; every placed sprite must be present and match the
// size it was packed with.
func RenderPages(result model.PackResult, images map[string]image.Image, flip bool) ([]*image.NRGBA, error) {
	pages := make([]*image.NRGBA, 0, len(result.Pages))
	for _, pr := range result.Pages {
		page := NewPage(pr.Width, pr.Height)
		for _, pl := range pr.Placements {
			img, ok := images[pl.Sprite.ID]
			if !ok {
				return nil, fmt.Errorf("no image for sprite %q", pl.Sprite.Name)
			}
			b := img.Bounds()
			if b.Dx() != pl.Region.Width || b.Dy() != pl.Region.Height {
				return nil, fmt.Errorf("image for sprite %q is %dx%d, packed as %dx%d",
					pl.Sprite.Name, b.Dx(), b.Dy(), pl.Region.Width, pl.Region.Height)
			}
			Composite(page, img, pl.Region.X, pl.Region.Y, flip)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// WritePNG encodes img as a PNG file at path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create page directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create page image: %w", err)
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode page image %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write page image %s: %w", path, err)
	}
	return nil
}
