package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// entryProblem is a file entry whose content could not be read back.
type entryProblem struct {
	Name string
	Err  error
}

// verifyArchive reads every file entry to the end, which checks its
// checksum, and returns the entries that failed along with the entries
// left out for pointing outside the archive.
func verifyArchive(j *jarinfo.JarInfo, logger *zap.Logger) []entryProblem {
	var problems []entryProblem
	for _, name := range j.Skipped() {
		problems = append(problems, entryProblem{Name: name, Err: jarinfo.ErrOutsideRoot})
	}
	for e := range j.Iterate {
		if e.IsDir() {
			continue
		}
		rc, err := j.Open(e)
		if err == nil {
			_, err = io.Copy(io.Discard, rc)
			rc.Close()
		}
		if err != nil {
			logger.Debug("entry failed verification", zap.String("entry", e.Name()), zap.Error(err))
			problems = append(problems, entryProblem{Name: e.Name(), Err: err})
		}
	}
	return problems
}

// NewVerifyCmd creates and returns the verify subcommand for the portalnav
// CLI. It checks archives for unreadable or corrupt entries.
func NewVerifyCmd() *cobra.Command {
	var listAll bool

	cmd := &cobra.Command{
		Use:   "verify ARCHIVE...",
		Short: "Check archives for corrupt entries",
		Long: `Verify archives by decompressing every file entry and checking its CRC.

Also reports the manifest when it cannot be parsed. Exits with an error when
any archive has a problem.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := envFrom(cmd).logger
			out := cmd.OutOrStdout()
			bad := 0
			for _, path := range args {
				j, err := jarinfo.Open(path)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", path, err)
					bad++
					continue
				}
				problems := verifyArchive(j, logger)
				if _, err := j.Manifest(); err != nil && !errors.Is(err, jarinfo.ErrNoManifest) {
					problems = append(problems, entryProblem{Name: jarinfo.ManifestName, Err: err})
				}
				j.Close()

				if len(problems) == 0 {
					if listAll {
						fmt.Fprintf(out, "%s: ok (%d entries)\n", path, j.Len())
					}
					continue
				}
				bad++
				for _, p := range problems {
					fmt.Fprintf(out, "%s: %s: %v\n", path, p.Name, p.Err)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d archives failed verification", bad, len(args))
			}
			if !listAll {
				fmt.Fprintf(out, "All %d archives ok\n", len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&listAll, "list", "l", false, "Report every archive, not just failures")

	return cmd
}
