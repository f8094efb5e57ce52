package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
	"go.uber.org/zap"
)

type seedOptions struct {
	files     int
	buckets   int
	dirs      bool     // store explicit directory entries
	classPath []string // written to the manifest
	mainClass string
}

type seedStats struct {
	files   int
	buckets map[string]int
}

// entryBucket spreads names over n directories by their color hash.
func entryBucket(name string, n int) string {
	b := int(colorhash.HashString(name)) % n
	if b < 0 {
		b += n
	}
	return fmt.Sprintf("b%03d", b)
}

func manifestText(opts seedOptions) string {
	var b strings.Builder
	b.WriteString("Manifest-Version: 1.0\r\n")
	b.WriteString("Created-By: portalnav seed\r\n")
	if opts.mainClass != "" {
		fmt.Fprintf(&b, "Main-Class: %s\r\n", opts.mainClass)
	}
	if len(opts.classPath) > 0 {
		// Manifest lines are limited to 72 bytes; longer values continue on
		// lines starting with a space.
		line := "Class-Path: " + strings.Join(opts.classPath, " ")
		for len(line) > 72 {
			b.WriteString(line[:72] + "\r\n")
			line = " " + line[72:]
		}
		b.WriteString(line + "\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}

// writeSeedArchive writes an archive of opts.files small text entries
// spread over hashed bucket directories below seed/.
func writeSeedArchive(path string, opts seedOptions, logger *zap.Logger) (seedStats, error) {
	stats := seedStats{buckets: make(map[string]int)}
	if opts.buckets < 1 {
		return stats, fmt.Errorf("bucket count must be positive, got %d", opts.buckets)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	header := func(name string) *zip.FileHeader {
		h := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified}
		if strings.HasSuffix(name, "/") {
			h.Method = zip.Store
		}
		return h
	}

	w, err := zw.CreateHeader(header("META-INF/MANIFEST.MF"))
	if err != nil {
		return stats, err
	}
	if _, err := w.Write([]byte(manifestText(opts))); err != nil {
		return stats, err
	}

	// A small pool keeps the content compressible, like real resources.
	pool := make([]string, 50)
	for i := range pool {
		pool[i] = uuid.New().String()
	}

	for stats.files < opts.files {
		id := uuid.New().String()
		bucket := entryBucket(id, opts.buckets)
		if opts.dirs && stats.buckets[bucket] == 0 {
			if _, err := zw.CreateHeader(header("seed/" + bucket + "/")); err != nil {
				return stats, err
			}
		}
		ext := ".txt"
		if rand.IntN(2) == 1 {
			ext = ".properties"
		}
		w, err := zw.CreateHeader(header("seed/" + bucket + "/" + id + ext))
		if err != nil {
			return stats, err
		}
		if _, err := w.Write([]byte(pool[rand.IntN(len(pool))] + "\n")); err != nil {
			return stats, err
		}
		stats.buckets[bucket]++
		stats.files++

		if stats.files%1000 == 0 {
			logger.Debug("seed progress", zap.Int("files", stats.files), zap.Int("total", opts.files))
		}
	}

	if err := zw.Close(); err != nil {
		return stats, err
	}
	return stats, f.Close()
}

// NewSeedCmd creates and returns the seed subcommand for the portalnav CLI.
// It generates a test archive with a hashed directory structure.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		opts       seedOptions
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test archive",
		Long: `Generate an archive for exercising portalnav commands.

Entries live in seed/bNNN/ directories chosen by a hash of the entry name.
Each entry contains a single UUID line. By default the bucket directories are
not stored in the archive, so readers have to synthesize them; --dirs stores
them explicitly. A manifest is always written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := envFrom(cmd).logger
			logger.Debug("generating test archive", zap.String("output", outputPath), zap.Int("files", opts.files))

			stats, err := writeSeedArchive(outputPath, opts, logger)
			if err != nil {
				return err
			}

			minFiles, maxFiles := opts.files, 0
			for _, n := range stats.buckets {
				minFiles = min(minFiles, n)
				maxFiles = max(maxFiles, n)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s with %d files in %d directories\n", outputPath, stats.files, len(stats.buckets))
			fmt.Fprintf(out, "Directory file counts: min=%d, max=%d\n", minFiles, maxFiles)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path of the archive to write (required)")
	cmd.Flags().IntVarP(&opts.files, "count", "c", 1000, "Number of files to generate")
	cmd.Flags().IntVarP(&opts.buckets, "buckets", "b", 16, "Number of directories to spread files over")
	cmd.Flags().BoolVar(&opts.dirs, "dirs", false, "Store directory entries explicitly")
	cmd.Flags().StringSliceVar(&opts.classPath, "class-path", nil, "Manifest Class-Path entries")
	cmd.Flags().StringVar(&opts.mainClass, "main-class", "", "Manifest Main-Class")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}
