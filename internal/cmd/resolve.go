package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/pathutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolution is a MapResult with the target rendered as text.
type resolution struct {
	Target      string
	MatchedPath string
	PathInfo    string
}

func mapPath[N any](ctx pathutil.MapperContext[N], p string, maxDepth int, name func(N) string) (resolution, error) {
	res, err := pathutil.SimplePathMapper[N]{MaxDepth: maxDepth}.Map(ctx, p)
	if err != nil {
		return resolution{}, err
	}
	return resolution{Target: name(res.Target), MatchedPath: res.MatchedPath, PathInfo: res.PathInfo}, nil
}

// requestPath turns p into the path handed to the mapper. A relative p is
// applied to base when there is one.
func requestPath(base, p string) (string, error) {
	if base == "" || strings.HasPrefix(p, "/") {
		return p, nil
	}
	segs, err := pathutil.ResolveRelative(nil, base)
	if err != nil {
		return "", fmt.Errorf("invalid base %q: %w", base, err)
	}
	segs, err = pathutil.ResolveRelative(segs, p)
	if err != nil {
		return "", fmt.Errorf("cannot apply %q to %q: %w", p, base, err)
	}
	out := "/" + strings.Join(segs, "/")
	if strings.HasSuffix(p, "/") && len(segs) > 0 {
		out += "/"
	}
	return out, nil
}

func resolveLocation(location, p string, maxDepth int) (resolution, error) {
	info, err := os.Stat(location)
	if err != nil {
		return resolution{}, err
	}
	if info.IsDir() {
		ctx := pathutil.DirContext{FS: os.DirFS(location)}
		return mapPath(ctx, p, maxDepth, func(n pathutil.DirNode) string {
			if n.IsDir && n.Path != "." {
				return n.Path + "/"
			}
			return n.Path
		})
	}

	j, err := jarinfo.Open(location)
	if err != nil {
		return resolution{}, err
	}
	defer j.Close()
	return mapPath(j.MapperContext(), p, maxDepth, func(e *jarinfo.EntryInfo) string {
		if e.IsRoot() {
			return "/"
		}
		return e.Name()
	})
}

// NewResolveCmd creates and returns the resolve subcommand for the portalnav
// CLI. It maps a request path onto a directory tree or archive.
func NewResolveCmd() *cobra.Command {
	var (
		base     string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "resolve LOCATION PATH",
		Short: "Map a path onto a directory tree or archive",
		Long: `Resolve the longest prefix of PATH that names a node under LOCATION and
print the node, the matched prefix and the remaining path info.

LOCATION is a directory or an archive. PATH must start with a slash unless
--base is given, in which case it is applied to the base path first and may
use ".." segments.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := requestPath(base, args[1])
			if err != nil {
				return err
			}
			res, err := resolveLocation(args[0], p, maxDepth)
			if err != nil {
				return err
			}
			envFrom(cmd).logger.Debug("resolved path",
				zap.String("location", args[0]),
				zap.String("path", p),
				zap.String("matched", res.MatchedPath))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "target:  %s\n", res.Target)
			fmt.Fprintf(out, "matched: %s\n", res.MatchedPath)
			fmt.Fprintf(out, "info:    %s\n", res.PathInfo)
			return nil
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Base path a relative PATH is applied to")
	cmd.Flags().IntVarP(&maxDepth, "max-depth", "d", 0, "Match at most this many segments (0 means no limit)")

	return cmd
}
