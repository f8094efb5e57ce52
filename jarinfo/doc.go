// Package jarinfo provides a navigable model of JAR (zip) archives.
//
// Entry names are decomposed into segment lists so that entries can be
// ordered depth first and queried for parent, child, ancestor and
// descendant relationships without string prefix games:
//
//	a/            -> [a]          directory
//	a/b/c.class   -> [a b c.class] file
//
// A JarInfo holds every entry of an archive in that order, adding the
// directory entries that archivers commonly omit, so that each entry other
// than the root has a parent. Manifest reads META-INF/MANIFEST.MF and Cache
// keeps recently used archives open.
package jarinfo
