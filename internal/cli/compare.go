package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/engine"
)

func newCompareCmd() *cobra.Command {
	var (
		flags  packFlags
		source spriteSource
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Pack the same sprites with every strategy and compare",
		Example: `  atlaspack compare --dir sprites --preset mobile
  atlaspack compare --manifest sprites.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, _, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			sprites, err := source.load(ctx)
			if err != nil {
				return err
			}

			results := engine.CompareStrategies(settings, sprites)
			printComparison(cmd.OutOrStdout(), results)
			for _, r := range results {
				if r.Err != nil {
					return fmt.Errorf("%s: %w", r.Strategy, r.Err)
				}
			}
			return nil
		},
	}

	source.register(cmd)
	flags.registerSettings(cmd)
	return cmd
}

// bestComparison returns the index of the successful result with the fewest
// pages, then the least waste. It returns -1 when every strategy failed.
func bestComparison(results []engine.ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 || r.PagesUsed < results[best].PagesUsed ||
			(r.PagesUsed == results[best].PagesUsed && r.WastePercent < results[best].WastePercent) {
			best = i
		}
	}
	return best
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	best := bestComparison(results)

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{string(r.Strategy), "-", "-", "-", r.Err.Error()})
			continue
		}
		note := ""
		if i == best {
			note = "best"
		}
		rows = append(rows, []string{
			string(r.Strategy),
			strconv.Itoa(r.PagesUsed),
			strconv.Itoa(r.Result.SpriteCount()),
			fmt.Sprintf("%.1f%%", r.WastePercent),
			note,
		})
	}

	renderTable(w, []string{"Strategy", "Pages", "Sprites", "Waste", ""}, rows, func(row, col int) lipgloss.Style {
		switch {
		case results[row].Err != nil:
			return styleCell.Foreground(colorRed)
		case row == best:
			return styleCell.Foreground(colorGreen)
		}
		return styleCell
	})
}
