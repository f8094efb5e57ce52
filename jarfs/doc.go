// Package jarfs implements a read-only FUSE filesystem over the entries of a
// JAR archive.
//
// Directories resolve names through the archive's entry tree, including
// directories the archive only implies, and files read their content
// straight from the archive. Content is cached per file node after the
// first read.
//
// The main entry point is NewFS(), whose result can be served with the
// bazil.org/fuse library.
package jarfs
