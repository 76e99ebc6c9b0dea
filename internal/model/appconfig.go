package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default pack settings applied to every run
	DefaultPageWidth    int    `toml:"default_page_width"`
	DefaultPageHeight   int    `toml:"default_page_height"`
	DefaultPadding      int    `toml:"default_padding"`
	DefaultFlipVertical bool   `toml:"default_flip_vertical"`
	DefaultStrategy     string `toml:"default_strategy"`
	DefaultPreset       string `toml:"default_preset"` // empty = none

	// Output naming
	PageNamePattern string `toml:"page_name_pattern"`
	AtlasName       string `toml:"atlas_name"`
	OutputDir       string `toml:"output_dir"` // empty = current directory

	CustomPresets []Preset `toml:"presets"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPageWidth:    defaults.PageWidth,
		DefaultPageHeight:   defaults.PageHeight,
		DefaultPadding:      defaults.Padding,
		DefaultFlipVertical: defaults.FlipVertical,
		DefaultStrategy:     string(defaults.Strategy),
		PageNamePattern:     defaults.PageNamePattern,
		AtlasName:           defaults.AtlasName,
		CustomPresets:       []Preset{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// Zero values in the config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	if c.DefaultPageWidth > 0 {
		s.PageWidth = c.DefaultPageWidth
	}
	if c.DefaultPageHeight > 0 {
		s.PageHeight = c.DefaultPageHeight
	}
	if c.DefaultPadding >= 0 {
		s.Padding = c.DefaultPadding
	}
	s.FlipVertical = c.DefaultFlipVertical
	if c.DefaultStrategy != "" {
		s.Strategy = Strategy(c.DefaultStrategy)
	}
	if c.PageNamePattern != "" {
		s.PageNamePattern = c.PageNamePattern
	}
	if c.AtlasName != "" {
		s.AtlasName = c.AtlasName
	}
	if c.DefaultPreset != "" {
		if p, ok := GetPreset(c.DefaultPreset, c.CustomPresets); ok {
			p.ApplyToSettings(s)
		}
	}
}
