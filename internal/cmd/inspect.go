package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// archiveSummary is what inspect reports about an archive.
type archiveSummary struct {
	Path        string            `json:"path" yaml:"path"`
	Entries     int               `json:"entries" yaml:"entries"`
	Files       int               `json:"files" yaml:"files"`
	Directories int               `json:"directories" yaml:"directories"`
	Synthesized int               `json:"synthesized" yaml:"synthesized"`
	Size        int64             `json:"size" yaml:"size"`
	Modified    time.Time         `json:"modified,omitzero" yaml:"modified,omitempty"`
	Manifest    map[string]string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	ClassPath   []string          `json:"classPath,omitempty" yaml:"classPath,omitempty"`
	Listing     []string          `json:"listing,omitempty" yaml:"listing,omitempty"`
}

func summarize(j *jarinfo.JarInfo, listing bool) (archiveSummary, error) {
	s := archiveSummary{Path: j.Path, Entries: j.Len()}
	for e := range j.Iterate {
		if e.IsDir() {
			s.Directories++
			if e.Synthesized() {
				s.Synthesized++
			}
		} else {
			s.Files++
			s.Size += e.Size()
		}
		if m := e.Modified(); m.After(s.Modified) {
			s.Modified = m
		}
		if listing {
			s.Listing = append(s.Listing, e.Name())
		}
	}

	m, err := j.Manifest()
	switch {
	case errors.Is(err, jarinfo.ErrNoManifest):
	case err != nil:
		return s, err
	default:
		s.Manifest = m.Main
		s.ClassPath = m.ClassPath()
	}
	return s, nil
}

func writeSummary(w io.Writer, s archiveSummary, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// NewInspectCmd creates and returns the inspect subcommand for the portalnav
// CLI. It summarizes an archive's entries and manifest.
func NewInspectCmd() *cobra.Command {
	var (
		format  string
		listing bool
	)

	cmd := &cobra.Command{
		Use:   "inspect ARCHIVE",
		Short: "Summarize an archive and its manifest",
		Long: `Inspect an archive and print its entry counts, total uncompressed size,
newest modification time and main manifest attributes.

Directories that the archive does not store but that its entries imply are
counted as synthesized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := jarinfo.Open(args[0])
			if err != nil {
				return err
			}
			defer j.Close()

			s, err := summarize(j, listing)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), s, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format: yaml or json")
	cmd.Flags().BoolVarP(&listing, "list", "l", false, "Include every entry name in depth-first order")

	return cmd
}
