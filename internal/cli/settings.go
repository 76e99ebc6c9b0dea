package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/export"
	"github.com/piwi3910/AtlasPack/internal/importer"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

// packFlags are the page, packing and report flags shared by pack, plan and
// compare.
type packFlags struct {
	width    int
	height   int
	padding  int
	flip     bool
	strategy string
	preset   string
	config   string
	out      string

	pdf    string
	xlsx   string
	labels string
	dxf    string
	report string
}

func (f *packFlags) registerSettings(cmd *cobra.Command) {
	d := model.DefaultSettings()
	fs := cmd.Flags()
	fs.IntVar(&f.width, "width", d.PageWidth, "page width in pixels")
	fs.IntVar(&f.height, "height", d.PageHeight, "page height in pixels")
	fs.IntVar(&f.padding, "padding", d.Padding, "pixels reserved on every side of a sprite")
	fs.BoolVar(&f.flip, "flip", d.FlipVertical, "flip sprites vertically when compositing")
	fs.StringVar(&f.strategy, "strategy", string(d.Strategy), "packing strategy (global-best, first-fit, genetic)")
	fs.StringVar(&f.preset, "preset", "", "page preset (see 'atlaspack presets')")
	fs.StringVar(&f.config, "config", "", "config file (default ~/.atlaspack/config.toml)")
}

func (f *packFlags) registerReports(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.pdf, "pdf", "", "write a layout preview PDF")
	fs.StringVar(&f.xlsx, "xlsx", "", "write a region spreadsheet")
	fs.StringVar(&f.labels, "labels", "", "write a PDF sheet of region cards")
	fs.StringVar(&f.dxf, "dxf", "", "write page outlines as DXF")
	fs.StringVar(&f.report, "report", "", "write a TOML build report")
}

// loadConfig reads the config named by --config, or the default config
// file. An explicit path must exist.
func (f *packFlags) loadConfig() (model.AppConfig, error) {
	path := f.config
	if path == "" {
		return project.LoadAppConfig(project.DefaultConfigPath())
	}
	if _, err := os.Stat(path); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to open config: %w", err)
	}
	return project.LoadAppConfig(path)
}

// resolve builds the effective settings: defaults, then the config file,
// then --preset, then any flag set on the command line.
func (f *packFlags) resolve(cmd *cobra.Command) (model.PackSettings, model.AppConfig, error) {
	config, err := f.loadConfig()
	if err != nil {
		return model.PackSettings{}, model.AppConfig{}, err
	}

	settings := model.DefaultSettings()
	config.ApplyToSettings(&settings)

	if f.preset != "" {
		p, ok := model.GetPreset(f.preset, config.CustomPresets)
		if !ok {
			return model.PackSettings{}, model.AppConfig{}, fmt.Errorf("unknown preset %q", f.preset)
		}
		p.ApplyToSettings(&settings)
	}

	fs := cmd.Flags()
	if fs.Changed("width") {
		settings.PageWidth = f.width
	}
	if fs.Changed("height") {
		settings.PageHeight = f.height
	}
	if fs.Changed("padding") {
		settings.Padding = f.padding
	}
	if fs.Changed("flip") {
		settings.FlipVertical = f.flip
	}
	if fs.Changed("strategy") {
		settings.Strategy = model.Strategy(f.strategy)
	}
	if _, err := model.ParseStrategy(string(settings.Strategy)); err != nil {
		return model.PackSettings{}, model.AppConfig{}, err
	}
	return settings, config, nil
}

// outputDir picks --out, then the configured output directory, then ".".
func (f *packFlags) outputDir(config model.AppConfig) string {
	switch {
	case f.out != "":
		return f.out
	case config.OutputDir != "":
		return config.OutputDir
	}
	return "."
}

// writeReports writes every report requested on the command line. previews
// may be nil when no pixels were composited.
func (f *packFlags) writeReports(ctx context.Context, result model.PackResult, previews []image.Image) error {
	logger := loggerFromContext(ctx)
	reports := []struct {
		path  string
		kind  string
		write func(string) error
	}{
		{f.pdf, "layout PDF", func(p string) error { return export.ExportPDF(p, result, previews) }},
		{f.xlsx, "region spreadsheet", func(p string) error { return export.ExportXLSX(p, result) }},
		{f.labels, "region cards", func(p string) error { return export.ExportLabels(p, result) }},
		{f.dxf, "DXF outlines", func(p string) error { return export.ExportDXF(p, result) }},
		{f.report, "build report", func(p string) error {
			return project.WriteBuildReport(p, project.NewBuildReport(result, time.Now()))
		}},
	}
	for _, r := range reports {
		if r.path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		if err := r.write(r.path); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.kind, err)
		}
		logger.Info("Wrote "+r.kind, "path", r.path)
	}
	return nil
}

// spriteSource selects where sprite sizes come from for plan and compare.
type spriteSource struct {
	dir      string
	manifest string
}

func (s *spriteSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.dir, "dir", "d", "", "directory of sprite images")
	cmd.Flags().StringVarP(&s.manifest, "manifest", "m", "", "sprite size manifest (.csv, .xlsx or .dxf)")
	cmd.MarkFlagsMutuallyExclusive("dir", "manifest")
	cmd.MarkFlagsOneRequired("dir", "manifest")
}

// load reads sprite sizes without decoding pixels. Manifest warnings are
// logged; row errors fail the load.
func (s *spriteSource) load(ctx context.Context) ([]model.Sprite, error) {
	logger := loggerFromContext(ctx)
	if s.dir != "" {
		scan, err := importer.ScanDirSizes(s.dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Scanned sprite directory", "dir", s.dir, "sprites", len(scan.Sprites))
		return scan.Sprites, nil
	}

	res := importer.ImportManifest(s.manifest)
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", s.manifest, err)
	}
	if len(res.Sprites) == 0 {
		logger.Warn("Manifest contains no sprites", "path", s.manifest)
	}
	logger.Debug("Imported manifest", "path", s.manifest, "sprites", len(res.Sprites))
	return res.Sprites, nil
}
