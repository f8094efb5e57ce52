package cmd

import (
	"context"
	"net/url"

	"github.com/dendrascience/portalnav/internal/config"
	"github.com/dendrascience/portalnav/internal/logging"
	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/urlnav"
	"github.com/dendrascience/portalnav/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	groupNavigation = "navigation"
	groupUtilities  = "utilities"
)

// env is the state every subcommand runs with. It is built once per
// invocation by the root command's PersistentPreRunE.
type env struct {
	cfg    config.Config
	logger *zap.Logger
}

type envKey struct{}

func envFrom(cmd *cobra.Command) *env {
	if e, ok := cmd.Context().Value(envKey{}).(*env); ok {
		return e
	}
	return &env{cfg: config.DefaultConfig(), logger: zap.NewNop()}
}

// navigator returns a Navigator whose archive cache is sized from the
// configuration. The caller closes it.
func (e *env) navigator() (*urlnav.Navigator, error) {
	cache, err := jarinfo.NewCache(e.cfg.Cache.Size, e.logger)
	if err != nil {
		return nil, err
	}
	return urlnav.NewNavigator(urlnav.WithCache(cache), urlnav.WithLogger(e.logger))
}

// NewRootCmd creates and returns the root cobra command for the portalnav CLI.
// It sets up all subcommands, command groups, and the persistent flags that
// feed the configuration.
func NewRootCmd() *cobra.Command {
	var (
		configFile string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "portalnav",
		Short: "portalnav - navigate directory trees and JAR archives by path and URL",
		Long: `portalnav resolves hierarchical paths and walks file: and jar: URL trees.

Locations may be given as file: or jar: URLs, as plain paths, or in the
"lib.jar!/entry/" shorthand. A path naming an archive addresses the
archive's root.

Use subcommands to perform different operations:
  - walk: Visit a tree depth first, optionally filtered by globs
  - resolve: Map a request path onto a tree, splitting off the path info
  - inspect: Summarize an archive and its manifest
  - classpath: Index a classpath and look up resources
  - mount: Mount an archive read-only through FUSE`,
		Version: version.GetFullVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, logger: logger}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = envFrom(cmd).logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./portalnav.yaml or ~/.config/portalnav/portalnav.yaml)")
	flags.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log encoding: console or json")
	flags.Int("cache-size", jarinfo.DefaultCacheSize, "Number of archives kept open")

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupNavigation,
		Title: "Navigation Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	for _, c := range []*cobra.Command{
		NewWalkCmd(),
		NewResolveCmd(),
		NewInspectCmd(),
		NewClasspathCmd(),
		NewMountCmd(),
	} {
		c.GroupID = groupNavigation
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		NewCountCmd(),
		NewVerifyCmd(),
		NewSeedCmd(),
		NewVersionCmd(),
	} {
		c.GroupID = groupUtilities
		rootCmd.AddCommand(c)
	}

	return rootCmd
}

func zapURL(u *url.URL) zap.Field {
	return zap.Stringer("url", u)
}
