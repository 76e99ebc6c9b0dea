// Package importer turns external inputs into sprite lists: directories of
// image files, CSV or Excel size manifests, and DXF outlines.
//
// Manifests have the columns name, width, height and an optional quantity.
// Headers are matched case-insensitively against a set of aliases; without a
// header the columns are taken positionally.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the sprites read from a manifest together with any
// per-row problems.
type ImportResult struct {
	Sprites  []model.Sprite
	Errors   []string
	Warnings []string
}

// Err returns the row errors joined into a single error, or nil.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, msg := range r.Errors {
		errs[i] = errors.New(msg)
	}
	return errors.Join(errs...)
}

// ColumnMapping maps column roles to their indices in a row. -1 means absent.
type ColumnMapping struct {
	Name     int
	Width    int
	Height   int
	Quantity int
}

var headerAliases = map[string][]string{
	"name":     {"name", "sprite", "label", "id", "file", "filename", "image"},
	"width":    {"width", "w", "size x", "x"},
	"height":   {"height", "h", "size y", "y"},
	"quantity": {"quantity", "qty", "count", "copies", "frames"},
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// that splits the most rows into the same number of columns as the first.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < 2 {
			continue
		}

		consistent := 0
		for _, row := range records {
			if len(row) == cols {
				consistent++
			}
		}
		if score := consistent*10 + cols; score > bestScore {
			bestScore = score
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns maps a header row to column roles. When no cell matches a
// known alias it returns the positional mapping name, width, height, quantity
// and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Width: -1, Height: -1, Quantity: -1}
	slots := map[string]*int{
		"name":     &mapping.Name,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Width: 1, Height: 2, Quantity: 3}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDimension accepts whole numbers, including spreadsheet renderings such
// as "64.0".
func parseDimension(s string) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// parseRow turns one manifest row into sprites. A quantity above one expands
// into name_1 .. name_n.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, spriteCount int) ([]model.Sprite, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("sprite_%d", spriteCount+1)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return nil, fmt.Sprintf("%s: missing width", rowLabel)
	}
	width, ok := parseDimension(widthStr)
	if !ok {
		return nil, fmt.Sprintf("%s: invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return nil, fmt.Sprintf("%s: missing height", rowLabel)
	}
	height, ok := parseDimension(heightStr)
	if !ok {
		return nil, fmt.Sprintf("%s: invalid height '%s'", rowLabel, heightStr)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, ok := parseDimension(qtyStr)
		if !ok {
			return nil, fmt.Sprintf("%s: invalid quantity '%s'", rowLabel, qtyStr)
		}
		qty = q
	}

	if width <= 0 || height <= 0 || qty <= 0 {
		return nil, fmt.Sprintf("%s: width, height and quantity must be positive", rowLabel)
	}

	if qty == 1 {
		return []model.Sprite{model.NewSprite(name, width, height)}, ""
	}
	sprites := make([]model.Sprite, qty)
	for i := range sprites {
		sprites[i] = model.NewSprite(fmt.Sprintf("%s_%d", name, i+1), width, height)
	}
	return sprites, ""
}

// ImportManifest reads a CSV or Excel manifest, chosen by file extension.
func ImportManifest(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV reads a manifest from a CSV file with auto-detected delimiter.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("detected %s delimiter", name))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	return importFromRows(records, "line", warnings)
}

// ImportCSVFromReader reads a manifest with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importFromRows(records, "line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}
	return records, nil
}

// ImportExcel reads a manifest from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "sheet is empty")
		return result
	}

	return importFromRows(rows, "row", nil)
}

// importFromRows is shared by the CSV and Excel readers.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognised header still has a non-numeric width cell.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "skipping unrecognised header row")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		sprites, errMsg := parseRow(row, mapping, rowLabel, len(result.Sprites))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Sprites = append(result.Sprites, sprites...)
	}

	return result
}
