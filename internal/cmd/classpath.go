package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dendrascience/portalnav/classpath"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// splitClasspath accepts elements as separate arguments, as one
// list-separated argument, or both.
func splitClasspath(args []string) []string {
	var out []string
	for _, a := range args {
		for _, p := range filepath.SplitList(a) {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// NewClasspathCmd creates and returns the classpath subcommand for the
// portalnav CLI. It indexes a list of archives and directories and answers
// resource lookups against it.
func NewClasspathCmd() *cobra.Command {
	var (
		globs      filterFlags
		find       []string
		duplicates bool
	)

	cmd := &cobra.Command{
		Use:   "classpath ELEMENT...",
		Short: "Index a classpath and look up resources",
		Long: `Index the resources provided by a classpath of archives and directories.

Elements may be given as separate arguments or joined with the platform list
separator. Elements that do not exist are skipped. With --follow-manifest the
archives named by each archive's manifest Class-Path are indexed as well.

Without --find or --duplicates, every element is listed with the number of
resources it provides.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := globs.filter()
			if err != nil {
				return err
			}

			e := envFrom(cmd)
			nav, err := e.navigator()
			if err != nil {
				return err
			}
			defer nav.Close()

			ix, err := classpath.Scan(cmd.Context(), nav, splitClasspath(args), classpath.Options{
				Workers:        e.cfg.Scan.Workers,
				FollowManifest: e.cfg.Scan.FollowManifest,
				Filter:         f,
				Logger:         e.logger,
			})
			if err != nil {
				return err
			}
			e.logger.Debug("classpath indexed",
				zap.Int("elements", len(ix.Elements)),
				zap.Int("resources", ix.Len()))

			out := cmd.OutOrStdout()
			switch {
			case len(find) > 0:
				missing := 0
				for _, r := range find {
					el, ok := ix.Find(r)
					if !ok {
						fmt.Fprintf(out, "%s: not found\n", r)
						missing++
						continue
					}
					fmt.Fprintf(out, "%s: %s\n", r, el)
				}
				if missing > 0 {
					return fmt.Errorf("%d of %d resources not found", missing, len(find))
				}
			case duplicates:
				for _, d := range ix.Duplicates() {
					fmt.Fprintf(out, "%s\n", d.Resource)
					for i, el := range d.Elements {
						marker := "shadowed"
						if i == 0 {
							marker = "loaded  "
						}
						fmt.Fprintf(out, "  %s %s\n", marker, el)
					}
				}
			default:
				counts := ix.ResourceCounts()
				for i, el := range ix.Elements {
					line := fmt.Sprintf("%s (%d resources)", el, counts[i])
					if el.ReferencedBy != "" {
						line += " via " + el.ReferencedBy
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	globs.register(cmd)
	cmd.Flags().StringSliceVar(&find, "find", nil, "Print the element each resource is loaded from")
	cmd.Flags().BoolVar(&duplicates, "duplicates", false, "List resources provided by more than one element")
	cmd.Flags().Int("workers", 0, "Elements indexed concurrently (0 means one per CPU)")
	cmd.Flags().Bool("follow-manifest", false, "Follow manifest Class-Path references")

	return cmd
}
