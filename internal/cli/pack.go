package cli

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/atlas"
	"github.com/piwi3910/AtlasPack/internal/compositor"
	"github.com/piwi3910/AtlasPack/internal/engine"
	"github.com/piwi3910/AtlasPack/internal/importer"
	"github.com/piwi3910/AtlasPack/internal/model"
)

// packOptions holds the flags of the pack command. The root command binds a
// second set so `atlaspack --dir D` packs without naming the subcommand.
type packOptions struct {
	flags packFlags
	dir   string
}

func (o *packOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.dir, "dir", "d", "", "directory of sprite images")
	o.flags.registerSettings(cmd)
	o.flags.registerReports(cmd)
	cmd.Flags().StringVarP(&o.flags.out, "out", "o", "", "output directory for pages and atlas")
}

func (o *packOptions) run(cmd *cobra.Command, args []string) error {
	settings, config, err := o.flags.resolve(cmd)
	if err != nil {
		return err
	}
	return runPack(cmd.Context(), o.dir, o.flags.outputDir(config), settings, &o.flags)
}

func newPackCmd() *cobra.Command {
	var opts packOptions

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a directory of sprites into pages and an atlas",
		Long: `Pack scans a directory recursively for sprite images, packs them onto as
few pages as possible and writes each page as a PNG next to a binary atlas
file describing every region.`,
		Example: `  atlaspack pack --dir sprites --out build
  atlaspack pack --dir sprites --preset mobile --flip --pdf layout.pdf`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}

	opts.register(cmd)
	cmd.MarkFlagRequired("dir")
	return cmd
}

func runPack(ctx context.Context, dir, outDir string, settings model.PackSettings, flags *packFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	scan, err := importer.ScanDir(dir)
	if err != nil {
		return err
	}
	logger.Debug("Scanned sprite directory", "dir", dir, "sprites", len(scan.Sprites))

	result, err := pack(ctx, settings, scan.Sprites)
	if err != nil {
		return err
	}
	a, err := atlas.FromResult(result)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	pages, err := compositor.RenderPages(result, scan.Images, settings.FlipVertical)
	if err != nil {
		return err
	}
	previews := make([]image.Image, len(pages))
	for i, img := range pages {
		path := filepath.Join(outDir, result.Pages[i].Name)
		if err := compositor.WritePNG(path, img); err != nil {
			return err
		}
		logger.Debug("Wrote page", "path", path)
		previews[i] = img
	}

	atlasPath := filepath.Join(outDir, settings.AtlasName)
	if err := atlas.WriteFile(atlasPath, a); err != nil {
		return err
	}
	logger.Debug("Wrote atlas", "path", atlasPath)

	if err := flags.writeReports(ctx, result, previews); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Packed %d sprites into %d pages", result.SpriteCount(), len(result.Pages)))
	return nil
}

// pack runs the optimizer with debug logging of every page and placement.
func pack(ctx context.Context, settings model.PackSettings, sprites []model.Sprite) (model.PackResult, error) {
	logger := loggerFromContext(ctx)
	opt := engine.New(settings)
	opt.Observer = engine.Observer{
		OnPageOpened: func(index int) {
			logger.Debug("Opened page", "page", settings.PageName(index))
		},
		OnPlaced: func(page int, p model.Placement, occupancy float64) {
			logger.Debug("Placed sprite", "sprite", p.Sprite.Name, "page", page,
				"region", p.Region.String(), "occupancy", fmt.Sprintf("%.1f%%", occupancy*100))
		},
	}

	logger.Debug("Packing", "sprites", len(sprites), "page", fmt.Sprintf("%dx%d", settings.PageWidth, settings.PageHeight),
		"padding", settings.Padding, "strategy", settings.Strategy)
	result, err := opt.Optimize(sprites)
	if err != nil {
		return model.PackResult{}, fmt.Errorf("failed to pack sprites: %w", err)
	}
	return result, nil
}
