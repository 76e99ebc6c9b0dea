// Package export writes packing results to human-facing report formats: a
// PDF layout preview, QR-coded region cards, an Excel region report and a DXF
// outline drawing.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// regionColor is an RGB fill colour for a placed region.
type regionColor struct {
	R, G, B int
}

var regionColors = []regionColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a layout preview with one document page per atlas page and
// a closing summary page. previews, when non-nil, holds the rendered page
// images in page order; they are drawn underneath the region outlines.
func ExportPDF(path string, result model.PackResult, previews []image.Image) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to export")
	}
	if previews != nil && len(previews) != len(result.Pages) {
		return fmt.Errorf("got %d preview images for %d pages", len(previews), len(result.Pages))
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, page := range result.Pages {
		var preview image.Image
		if previews != nil {
			preview = previews[i]
		}
		pdf.AddPage()
		if err := renderLayoutPage(pdf, page, result.Settings, preview); err != nil {
			return err
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// fitScale returns the scale that fits a w x h page into the drawing area.
func fitScale(w, h int) float64 {
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	if w <= 0 || h <= 0 {
		return 1
	}
	return math.Min(drawWidth/float64(w), drawHeight/float64(h))
}

func renderLayoutPage(pdf *fpdf.Fpdf, page model.PageResult, settings model.PackSettings, preview image.Image) error {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Page %d: %s (%d x %d px)", page.Index+1, page.Name, page.Width, page.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sprites: %d | Used: %d px | Total: %d px | Efficiency: %.1f%% | Padding: %d px",
		len(page.Placements), page.UsedArea(), page.TotalArea(), page.Efficiency(), settings.Padding)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	scale := fitScale(page.Width, page.Height)
	canvasW := float64(page.Width) * scale
	canvasH := float64(page.Height) * scale
	drawWidth := pageWidth - marginLeft - marginRight
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	if preview != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, preview); err != nil {
			return fmt.Errorf("failed to encode preview for %s: %w", page.Name, err)
		}
		name := fmt.Sprintf("preview_%d", page.Index)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, offsetX, offsetY, canvasW, canvasH, false, opts, 0, "")
	}

	for i, p := range page.Placements {
		col := regionColors[i%len(regionColors)]

		// Padding ring.
		if settings.Padding > 0 {
			pdf.SetDrawColor(col.R, col.G, col.B)
			pdf.SetLineWidth(0.1)
			pdf.SetDashPattern([]float64{0.8, 0.8}, 0)
			pdf.Rect(offsetX+float64(p.Footprint.X)*scale, offsetY+float64(p.Footprint.Y)*scale,
				float64(p.Footprint.Width)*scale, float64(p.Footprint.Height)*scale, "D")
			pdf.SetDashPattern([]float64{}, 0)
		}

		rx := offsetX + float64(p.Region.X)*scale
		ry := offsetY + float64(p.Region.Y)*scale
		rw := float64(p.Region.Width) * scale
		rh := float64(p.Region.Height) * scale

		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		if preview != nil {
			pdf.Rect(rx, ry, rw, rh, "D")
		} else {
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.Rect(rx, ry, rw, rh, "FD")
		}

		if rw > 15 && rh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(rw, rh))
			pdf.SetTextColor(0, 0, 0)
			name := p.Sprite.Name
			dims := fmt.Sprintf("%dx%d", p.Region.Width, p.Region.Height)
			nameW := pdf.GetStringWidth(name)
			dimsW := pdf.GetStringWidth(dims)

			if nameW < rw-2 {
				pdf.SetXY(rx+(rw-nameW)/2, ry+rh/2-4)
				pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
			}
			if rh > 14 && dimsW < rw-2 {
				pdf.SetXY(rx+(rw-dimsW)/2, ry+rh/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, page, offsetX, offsetY, canvasW, canvasH)
	drawRegionLegend(pdf, page, offsetY+canvasH+5)
	return nil
}

func drawDimensionAnnotations(pdf *fpdf.Fpdf, page model.PageResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", page.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", page.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawRegionLegend lists the regions below the page drawing, wrapping lines
// and stopping at the bottom margin.
func drawRegionLegend(pdf *fpdf.Fpdf, page model.PageResult, startY float64) {
	if len(page.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Regions:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range page.Placements {
		col := regionColors[i%len(regionColors)]
		label := fmt.Sprintf("%s (%d,%d %dx%d)", p.Sprite.Name, p.Region.X, p.Region.Y, p.Region.Width, p.Region.Height)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			pdf.SetXY(marginLeft, startY-5)
			pdf.CellFormat(40, 4, fmt.Sprintf("... %d more", len(page.Placements)-i), "", 0, "L", false, 0, "")
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Atlas Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	settings := result.Settings
	items := []struct {
		label string
		value string
	}{
		{"Pages", fmt.Sprintf("%d", len(result.Pages))},
		{"Sprites", fmt.Sprintf("%d", result.SpriteCount())},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", result.TotalEfficiency())},
		{"Page Size", fmt.Sprintf("%d x %d px", settings.PageWidth, settings.PageHeight)},
		{"Padding", fmt.Sprintf("%d px", settings.Padding)},
		{"Strategy", string(settings.Strategy)},
		{"Vertical Flip", fmt.Sprintf("%t", settings.FlipVertical)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Page Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 50, 30, 35, 60}
	headers := []string{"Page", "Image", "Size", "Sprites", "Efficiency", "Used / Total px"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, page := range result.Pages {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}
		row := []string{
			fmt.Sprintf("%d", page.Index+1),
			page.Name,
			fmt.Sprintf("%d x %d", page.Width, page.Height),
			fmt.Sprintf("%d", len(page.Placements)),
			fmt.Sprintf("%.1f%%", page.Efficiency()),
			fmt.Sprintf("%d / %d", page.UsedArea(), page.TotalArea()),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by AtlasPack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns a font size suited to a w x h mm rectangle.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
