package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/portalnav/jarfs"
	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMountCmd creates and returns the mount subcommand for the portalnav CLI.
// It serves an archive read-only at a mountpoint until interrupted.
func NewMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount ARCHIVE MOUNTPOINT",
		Short: "Mount an archive read-only",
		Long: `Mount an archive read-only at the specified mountpoint.

ARCHIVE is the path to a jar or zip file.
MOUNTPOINT is the directory where the archive will be mounted. It must not
contain the archive.`,
		Args: cobra.ExactArgs(2),
		RunE: runMount,
	}
}

// pathsOverlap reports whether one path is the other or lies beneath it.
func pathsOverlap(path1, path2 string) bool {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		abs1, abs2 = filepath.Clean(path1), filepath.Clean(path2)
	}
	if abs1 == abs2 {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(abs1, strings.TrimSuffix(abs2, sep)+sep) ||
		strings.HasPrefix(abs2, strings.TrimSuffix(abs1, sep)+sep)
}

func runMount(cmd *cobra.Command, args []string) error {
	archive, mountpoint := args[0], args[1]
	logger := envFrom(cmd).logger

	if pathsOverlap(archive, mountpoint) {
		return fmt.Errorf("mountpoint %s overlaps archive %s", mountpoint, archive)
	}

	j, err := jarinfo.Open(archive)
	if err != nil {
		return err
	}
	defer j.Close()

	filesystem := jarfs.NewFS(j, logger)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("portalnav"),
		fuse.Subtype("jarfs"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountpoint, err)
	}
	defer c.Close()

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		logger.Info("received interrupt signal, shutting down")
		if err := fuse.Unmount(mountpoint); err != nil {
			logger.Warn("unmount failed", zap.String("mountpoint", mountpoint), zap.Error(err))
		}
	}()

	logger.Info("mounted archive",
		zap.String("version", version.GetVersion()),
		zap.String("archive", archive),
		zap.String("mountpoint", mountpoint),
		zap.Int("entries", j.Len()))
	if err := fs.Serve(c, filesystem); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
