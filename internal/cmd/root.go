// Package cmd defines the dir-snapshot command line
package cmd

import (
	"github.com/bethropolis/dir-snapshot/internal/app"
	"github.com/bethropolis/dir-snapshot/internal/config"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the dir-snapshot command
func NewRootCommand() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "dir-snapshot [flags]",
		Short: "Write a Markdown snapshot of a project's tree and file contents",
		Long: `dir-snapshot walks a project directory, drops everything matched by its
exclusion file (.gitignore by default), and writes one Markdown document with
an ASCII tree of what is left followed by the content of every file.

Snapshots are stored under <output>/<Day-MM-DD-YYYY>/ and the output
directory itself is never included in a snapshot.`,
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(cfg, cmd.Flags())
			a.Output = cmd.OutOrStdout()
			return a.Run(cmd.Context())
		},
	}

	config.BindFlags(cmd.Flags(), cfg)
	return cmd
}
