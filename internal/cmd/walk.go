package cmd

import (
	"fmt"

	"github.com/dendrascience/portalnav/urlnav"
	"github.com/spf13/cobra"
)

// filterFlags are the glob flags shared by the commands that visit trees.
type filterFlags struct {
	include []string
	exclude []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.include, "include", "i", nil, "Only report files matching these globs (matched against the relative path)")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "x", nil, "Skip files and directories matching these globs")
}

// filter returns the filter the flags describe, or nil when none were set.
func (f *filterFlags) filter() (urlnav.Filter, error) {
	if len(f.include) == 0 && len(f.exclude) == 0 {
		return nil, nil
	}
	return urlnav.NewGlobFilter(f.include, f.exclude)
}

// NewWalkCmd creates and returns the walk subcommand for the portalnav CLI.
// It visits a file: or jar: tree depth first and prints every accepted node.
func NewWalkCmd() *cobra.Command {
	var (
		globs     filterFlags
		filesOnly bool
		showURLs  bool
	)

	cmd := &cobra.Command{
		Use:   "walk LOCATION",
		Short: "Walk a directory tree or archive depth first",
		Long: `Walk the tree at LOCATION depth first, in name order, and print the
path of every node relative to LOCATION. Directories end in a slash.

LOCATION is a directory, an archive, a file: or jar: URL, or an
"archive.jar!/entry/" shorthand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := urlnav.ParseLocation(args[0])
			if err != nil {
				return err
			}
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

			out := cmd.OutOrStdout()
			emit := func(n urlnav.Node) {
				if showURLs {
					fmt.Fprintln(out, n.URL)
					return
				}
				p := n.Path
				if n.IsDir {
					p += "/"
				}
				fmt.Fprintln(out, p)
			}

			v := urlnav.VisitorFuncs{
				OnStartDir: func(n urlnav.Node) error {
					if !filesOnly && n.Path != "" {
						emit(n)
					}
					return nil
				},
				OnFile: func(n urlnav.Node) error {
					emit(n)
					return nil
				},
			}
			e.logger.Debug("walking", zapURL(u))
			return nav.Visit(cmd.Context(), u, v, f)
		},
	}

	globs.register(cmd)
	cmd.Flags().BoolVarP(&filesOnly, "files", "f", false, "Print files only")
	cmd.Flags().BoolVar(&showURLs, "urls", false, "Print full URLs instead of relative paths")

	return cmd
}
