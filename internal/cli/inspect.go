package cli

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/atlas"
)

func newInspectCmd() *cobra.Command {
	var find string

	cmd := &cobra.Command{
		Use:   "inspect FILE.atlas",
		Short: "Print the pages and regions of an atlas file",
		Long: `Inspect decodes an atlas file and lists every page and region. UV
coordinates are shown when the page image can be found next to the atlas.`,
		Example: `  atlaspack inspect build/texture.atlas
  atlaspack inspect build/texture.atlas --find hero`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			a, err := atlas.ReadFile(path)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			sizes := make([]image.Point, len(a.Pages))
			for i, p := range a.Pages {
				size, err := pageSize(filepath.Join(filepath.Dir(path), p.ImageName))
				if err != nil {
					logger.Debug("Page image unavailable, UVs omitted", "page", p.ImageName, "err", err)
				}
				sizes[i] = size
			}

			w := cmd.OutOrStdout()
			if find != "" {
				page, r, ok := a.Find(find)
				if !ok {
					return fmt.Errorf("region %q not found in %s", find, path)
				}
				printRegions(w, a.Pages[page].ImageName, []atlas.Region{r}, sizes[page])
				return nil
			}

			printTitle(w, fmt.Sprintf("%s: %d pages, %d regions (format v%d)", path, len(a.Pages), a.RegionCount(), atlas.Version))
			for i, p := range a.Pages {
				printRegions(w, p.ImageName, p.Regions, sizes[i])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&find, "find", "", "show only the named region")
	return cmd
}

// pageSize reads the dimensions of a page image from its header.
func pageSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// printRegions lists regions of one page. size is zero when the page image
// could not be read, in which case the UV columns are left blank.
func printRegions(w io.Writer, imageName string, regions []atlas.Region, size image.Point) {
	header := imageName
	if size != (image.Point{}) {
		header = fmt.Sprintf("%s (%dx%d)", imageName, size.X, size.Y)
	}
	fmt.Fprintln(w, styleTitle.Render(header))
	if len(regions) == 0 {
		printDim(w, "no regions")
		return
	}

	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		row := []string{
			r.Name,
			strconv.Itoa(r.Rect.X),
			strconv.Itoa(r.Rect.Y),
			strconv.Itoa(r.Rect.Width),
			strconv.Itoa(r.Rect.Height),
			"", "", "", "",
		}
		if size != (image.Point{}) {
			u, v, u2, v2 := r.UV(size.X, size.Y)
			for i, f := range []float32{u, v, u2, v2} {
				row[5+i] = strconv.FormatFloat(float64(f), 'f', 4, 32)
			}
		}
		rows = append(rows, row)
	}
	renderTable(w, []string{"Region", "X", "Y", "W", "H", "U", "V", "U2", "V2"}, rows, nil)
}
