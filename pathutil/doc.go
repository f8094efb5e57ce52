// Package pathutil provides relative path tokenizing and hierarchical path
// mapping.
//
// RelativePathParser walks a relative path one segment at a time, reporting
// each segment as a step up ("..") or a step down (a named component).
// SimplePathMapper resolves an absolute request path against a tree of
// nodes supplied by a MapperContext, returning the deepest node reached
// together with the matched prefix and the unmatched remainder, in the same
// way a servlet container splits a request into servlet path and path info.
package pathutil
