package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information shown by --version. main calls it
// with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the atlaspack command tree. Command output goes to
// stdout and logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		verbose, quiet bool
		direct         packOptions
	)

	root := &cobra.Command{
		Use:           "atlaspack",
		Short:         "AtlasPack packs sprites into texture atlas pages",
		Long:          `AtlasPack packs a set of sprites into as few fixed-size pages as it can and writes the pages as PNG images plus a binary atlas describing where every sprite landed. Run with --dir to pack directly, the same as 'atlaspack pack'.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if direct.dir == "" {
				return cmd.Help()
			}
			return direct.run(cmd, args)
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			switch {
			case verbose:
				level = charmlog.DebugLevel
			case quiet:
				level = charmlog.ErrorLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("atlaspack %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")
	direct.register(root)

	root.AddCommand(newPackCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newPresetsCmd())

	return root
}

// Execute runs the CLI against os.Args. Errors are logged before being
// returned so main only has to pick the exit code.
func Execute(ctx context.Context) error {
	root := NewRootCommand(os.Stdout, os.Stderr)
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		loggerFromContext(cmd.Context()).Error(err)
	}
	return err
}
