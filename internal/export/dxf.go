package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// pageGap is the horizontal distance between pages in the drawing, in pixels.
const pageGap = 64.0

// ExportDXF writes page outlines and region rectangles as a DXF drawing in
// pixel units. Pages are laid out left to right, each on its own layer pair,
// with y flipped so the drawing reads like the page image.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to export")
	}

	d := dxf.NewDrawing()
	originX := 0.0
	for _, page := range result.Pages {
		if err := drawDXFPage(d, page, originX); err != nil {
			return fmt.Errorf("failed to draw %s: %w", page.Name, err)
		}
		originX += float64(page.Width) + pageGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

func drawDXFPage(d *drawing.Drawing, page model.PageResult, originX float64) error {
	h := float64(page.Height)
	rect := func(r model.Rect) error {
		x0, x1 := originX+float64(r.X), originX+float64(r.Right())
		y0, y1 := h-float64(r.Y), h-float64(r.Bottom())
		edges := [][4]float64{
			{x0, y0, x1, y0},
			{x1, y0, x1, y1},
			{x1, y1, x0, y1},
			{x0, y1, x0, y0},
		}
		for _, e := range edges {
			if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := d.AddLayer(fmt.Sprintf("PAGE_%d", page.Index), color.Red, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if err := rect(model.Rect{Width: page.Width, Height: page.Height}); err != nil {
		return err
	}
	if _, err := d.Text(page.Name, originX, h+8, 0, 12); err != nil {
		return err
	}

	if _, err := d.AddLayer(fmt.Sprintf("REGIONS_%d", page.Index), dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, p := range page.Placements {
		if err := rect(p.Region); err != nil {
			return err
		}
		textHeight := min(8, float64(p.Region.Height)/2)
		if textHeight < 1 {
			continue
		}
		tx := originX + float64(p.Region.X) + 1
		ty := h - float64(p.Region.Bottom()) + 1
		if _, err := d.Text(p.Sprite.Name, tx, ty, 0, textHeight); err != nil {
			return err
		}
	}
	return nil
}
