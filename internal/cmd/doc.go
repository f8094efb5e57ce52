// Package cmd provides the command-line interface implementation for portalnav.
//
// This package contains all the subcommand implementations for the portalnav
// CLI tool. It uses the Cobra library for command structure and Fang for
// styling.
//
// The package is organized into the following commands:
//   - root: Configuration, logging and command groups
//   - walk: Depth-first visits of file: and jar: trees
//   - resolve: Path mapping with path info
//   - inspect: Archive and manifest summaries
//   - classpath: Classpath indexing and resource lookup
//   - mount: Read-only FUSE mounts of archives
//   - count, verify, seed, version: Utilities
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command.
package cmd
