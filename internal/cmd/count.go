package cmd

import (
	"fmt"

	"github.com/dendrascience/portalnav/urlnav"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the portalnav CLI.
// It counts the files below a location.
func NewCountCmd() *cobra.Command {
	var (
		globs filterFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "count [LOCATION]",
		Short: "Count files in a directory tree or archive",
		Long: `Count the files (not directories) below LOCATION, which defaults to the
current directory.

With --limit the walk stops as soon as the count passes the limit, which
keeps the command fast on very large trees.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "."
			if len(args) > 0 {
				location = args[0]
			}
			u, err := urlnav.ParseLocation(location)
			if err != nil {
				return err
			}
			f, err := globs.filter()
			if err != nil {
				return err
			}

			nav, err := envFrom(cmd).navigator()
			if err != nil {
				return err
			}
			defer nav.Close()

			count, over, err := urlnav.Count(cmd.Context(), nav, u, f, limit)
			if err != nil {
				return fmt.Errorf("error counting files: %w", err)
			}
			if over {
				fmt.Fprintf(cmd.OutOrStdout(), "More than %d files\n", limit)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total files: %d\n", count)
			return nil
		},
	}

	globs.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop counting after this many files (0 means no limit)")

	return cmd
}
