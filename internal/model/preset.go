package model

// Preset is a named page configuration for a common target.
type Preset struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
	PageWidth   int    `json:"page_width" toml:"page_width"`
	PageHeight  int    `json:"page_height" toml:"page_height"`
	Padding     int    `json:"padding" toml:"padding"`
}

// Built-in presets
var Presets = []Preset{
	{
		Name:        "mobile",
		Description: "1024x1024 pages for low-end mobile GPUs",
		PageWidth:   1024,
		PageHeight:  1024,
		Padding:     2,
	},
	{
		Name:        "web",
		Description: "2048x2048 pages, safe for WebGL",
		PageWidth:   2048,
		PageHeight:  2048,
		Padding:     2,
	},
	{
		Name:        "desktop",
		Description: "4096x4096 pages with generous padding",
		PageWidth:   4096,
		PageHeight:  4096,
		Padding:     4,
	},
	{
		Name:        "pixel-art",
		Description: "512x512 pages, no padding for nearest-neighbour sampling",
		PageWidth:   512,
		PageHeight:  512,
		Padding:     0,
	},
}

// AllPresets returns built-in presets followed by the given custom presets.
// A custom preset with the same name as a built-in one shadows it in lookups.
func AllPresets(custom []Preset) []Preset {
	all := make([]Preset, 0, len(Presets)+len(custom))
	all = append(all, Presets...)
	all = append(all, custom...)
	return all
}

// GetPreset returns a preset by name, searching custom presets first.
func GetPreset(name string, custom []Preset) (Preset, bool) {
	for _, p := range custom {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// GetPresetNames returns a list of all available preset names.
func GetPresetNames(custom []Preset) []string {
	var names []string
	for _, p := range AllPresets(custom) {
		names = append(names, p.Name)
	}
	return names
}

// ApplyToSettings copies the page configuration of the preset into s.
func (p Preset) ApplyToSettings(s *PackSettings) {
	s.PageWidth = p.PageWidth
	s.PageHeight = p.PageHeight
	s.Padding = p.Padding
}
