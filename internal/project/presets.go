package project

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// presetFile is the on-disk shape of a shared preset collection.
type presetFile struct {
	Presets []model.Preset `toml:"presets"`
}

// ExportPresets writes presets to a standalone TOML file for sharing.
func ExportPresets(path string, presets []model.Preset) error {
	if len(presets) == 0 {
		return errors.New("no presets to export")
	}
	return writeTOML(path, presetFile{Presets: presets})
}

// ImportPresets reads presets from a TOML file written by ExportPresets.
// Every preset needs a name and a positive page size.
func ImportPresets(path string) ([]model.Preset, error) {
	var f presetFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d in %s has no name", i+1, path)
		}
		if p.PageWidth <= 0 || p.PageHeight <= 0 || p.Padding < 0 {
			return nil, fmt.Errorf("preset %q in %s has invalid page settings", p.Name, path)
		}
	}
	return f.Presets, nil
}

// MergePresets adds incoming presets to existing ones. A preset whose name is
// already present replaces the existing entry in place.
func MergePresets(existing, incoming []model.Preset) []model.Preset {
	merged := append([]model.Preset{}, existing...)
	for _, p := range incoming {
		replaced := false
		for i := range merged {
			if merged[i].Name == p.Name {
				merged[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, p)
		}
	}
	return merged
}
