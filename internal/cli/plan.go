package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/model"
)

func newPlanCmd() *cobra.Command {
	var (
		flags  packFlags
		source spriteSource
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Lay out sprites without compositing any pixels",
		Long: `Plan packs sprite sizes read from a manifest or from image headers and
prints the resulting pages. No page images or atlas are written; the layout
can be exported with the report flags.`,
		Example: `  atlaspack plan --manifest sprites.csv --preset web
  atlaspack plan --dir sprites --xlsx regions.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, _, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))

			sprites, err := source.load(ctx)
			if err != nil {
				return err
			}
			result, err := pack(ctx, settings, sprites)
			if err != nil {
				return err
			}

			printPlan(cmd.OutOrStdout(), result)
			if err := flags.writeReports(ctx, result, nil); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Planned %d sprites onto %d pages", result.SpriteCount(), len(result.Pages)))
			return nil
		},
	}

	source.register(cmd)
	flags.registerSettings(cmd)
	flags.registerReports(cmd)
	return cmd
}

func printPlan(w io.Writer, result model.PackResult) {
	s := result.Settings
	printTitle(w, fmt.Sprintf("%d sprites on %d pages of %dx%d", result.SpriteCount(), len(result.Pages), s.PageWidth, s.PageHeight))
	if len(result.Pages) == 0 {
		return
	}

	rows := make([][]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(len(p.Placements)),
			strconv.Itoa(p.UsedArea()),
			fmt.Sprintf("%.1f%%", p.Efficiency()),
		})
	}
	renderTable(w, []string{"Page", "Sprites", "Used px", "Efficiency"}, rows, nil)
	printDim(w, "padding %d, strategy %s, overall efficiency %.1f%%", s.Padding, s.Strategy, result.TotalEfficiency())
}
