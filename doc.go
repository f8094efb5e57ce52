// Package main provides the portalnav command-line interface.
//
// portalnav resolves hierarchical request paths against directory trees and
// JAR archives and walks file: and jar: URL trees depth first. The binary
// supports these subcommands:
//   - walk: Visit a tree, optionally filtered by globs
//   - resolve: Split a request path into matched path and path info
//   - inspect: Summarize an archive and its manifest
//   - classpath: Index a classpath and look up resources
//   - mount: Mount an archive read-only through FUSE
//   - count, verify, seed, version: Utilities
package main
