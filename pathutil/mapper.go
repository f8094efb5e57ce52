package pathutil

import "strings"

// MapperContext exposes a tree to SimplePathMapper. Child reports false when
// parent has no child with the given name.
type MapperContext[N any] interface {
	Root() (N, bool)
	Child(parent N, name string) (N, bool)
}

// MapResult is the outcome of mapping a path: the deepest node reached, the
// prefix of the path that led to it, and whatever was left over.
type MapResult[N any] struct {
	Target      N
	MatchedPath string
	PathInfo    string
}

// SimplePathMapper resolves the longest prefix of a path that names a node
// in a MapperContext.
type SimplePathMapper[N any] struct {
	// MaxDepth limits the number of segments matched below the root.
	// Zero means no limit.
	MaxDepth int
}

// Map resolves path against ctx. path must be empty or absolute.
//
// MatchedPath never ends with a slash and PathInfo is either empty or starts
// with one, so MatchedPath+PathInfo always equals path.
func (m SimplePathMapper[N]) Map(ctx MapperContext[N], path string) (MapResult[N], error) {
	var res MapResult[N]
	if path != "" && path[0] != '/' {
		return res, ErrRelativePath
	}
	current, ok := ctx.Root()
	if !ok {
		return res, ErrNoRoot
	}

	matched, depth := 0, 0
	for pos := 1; pos <= len(path); {
		if m.MaxDepth > 0 && depth >= m.MaxDepth {
			break
		}
		end := strings.IndexByte(path[pos:], '/')
		if end == -1 {
			end = len(path)
		} else {
			end += pos
		}
		name := path[pos:end]
		if name == "" {
			break
		}
		child, ok := ctx.Child(current, name)
		if !ok {
			break
		}
		current = child
		matched = end
		depth++
		pos = end + 1
	}

	res.Target = current
	res.MatchedPath = path[:matched]
	res.PathInfo = path[matched:]
	return res, nil
}
