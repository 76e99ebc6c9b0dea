package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

func newPresetsCmd() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List, import and export page presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(configPath(config))
			if err != nil {
				return err
			}
			printPresets(cmd.OutOrStdout(), cfg.CustomPresets)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&config, "config", "", "config file (default ~/.atlaspack/config.toml)")
	cmd.AddCommand(newPresetsImportCmd(&config))
	cmd.AddCommand(newPresetsExportCmd(&config))
	return cmd
}

func newPresetsImportCmd(config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add presets from a TOML file to the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(*config)
			cfg, err := project.LoadAppConfig(path)
			if err != nil {
				return err
			}
			incoming, err := project.ImportPresets(args[0])
			if err != nil {
				return err
			}

			cfg.CustomPresets = project.MergePresets(cfg.CustomPresets, incoming)
			if err := project.SaveAppConfig(path, cfg); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Imported presets", "count", len(incoming), "config", path)
			return nil
		},
	}
}

func newPresetsExportCmd(config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the custom presets from the config to a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(configPath(*config))
			if err != nil {
				return err
			}
			if err := project.ExportPresets(args[0], cfg.CustomPresets); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Exported presets", "count", len(cfg.CustomPresets), "path", args[0])
			return nil
		},
	}
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	return project.DefaultConfigPath()
}

func printPresets(w io.Writer, custom []model.Preset) {
	rows := make([][]string, 0, len(model.Presets)+len(custom))
	for _, p := range model.AllPresets(custom) {
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%dx%d", p.PageWidth, p.PageHeight),
			strconv.Itoa(p.Padding),
			p.Description,
		})
	}
	renderTable(w, []string{"Preset", "Page", "Padding", "Description"}, rows, func(row, col int) lipgloss.Style {
		if row >= len(model.Presets) {
			return styleCell.Foreground(colorCyan)
		}
		return styleCell
	})
	if len(custom) > 0 {
		printDim(w, "custom presets shadow built-ins with the same name")
	}
}
