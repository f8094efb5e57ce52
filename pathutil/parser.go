package pathutil

import (
	"iter"
	"strings"
)

// Segment is the kind of step the parser reports for a path segment.
type Segment int

const (
	// SegmentNone is returned once the input is exhausted.
	SegmentNone Segment = iota
	// SegmentDown is a named segment.
	SegmentDown
	// SegmentUp is a ".." segment.
	SegmentUp
)

func (s Segment) String() string {
	switch s {
	case SegmentDown:
		return "DOWN"
	case SegmentUp:
		return "UP"
	default:
		return "NONE"
	}
}

// RelativePathParser tokenizes a relative path in a single pass. It is not
// safe for concurrent use.
type RelativePathParser struct {
	path   string
	offset int
	length int
	next   int
}

// NewRelativePathParser returns a parser positioned before the first
// segment of path.
func NewRelativePathParser(path string) *RelativePathParser {
	return &RelativePathParser{path: path}
}

// Next advances to the following segment and reports its kind. Empty and
// "." segments are skipped.
func (p *RelativePathParser) Next() Segment {
	for p.next < len(p.path) {
		end := strings.IndexByte(p.path[p.next:], '/')
		if end == -1 {
			end = len(p.path)
		} else {
			end += p.next
		}
		p.offset = p.next
		p.length = end - p.next
		p.next = end + 1

		switch p.path[p.offset:end] {
		case "", ".":
			continue
		case "..":
			return SegmentUp
		default:
			return SegmentDown
		}
	}
	p.offset = len(p.path)
	p.length = 0
	p.next = len(p.path)
	return SegmentNone
}

// Offset is the byte offset of the current segment within the input.
func (p *RelativePathParser) Offset() int {
	return p.offset
}

// Length is the byte length of the current segment.
func (p *RelativePathParser) Length() int {
	return p.length
}

// Name returns the text of the current segment.
func (p *RelativePathParser) Name() string {
	return p.path[p.offset : p.offset+p.length]
}

// Segments iterates over the remaining segments. The parser's cursor moves
// along with the iteration.
func (p *RelativePathParser) Segments() iter.Seq2[Segment, string] {
	return func(yield func(Segment, string) bool) {
		for s := p.Next(); s != SegmentNone; s = p.Next() {
			if !yield(s, p.Name()) {
				return
			}
		}
	}
}

// ResolveRelative applies rel to the base segment list and returns the
// resulting segments. base is not modified.
func ResolveRelative(base []string, rel string) ([]string, error) {
	out := make([]string, len(base), len(base)+strings.Count(rel, "/")+1)
	copy(out, base)
	for s, name := range NewRelativePathParser(rel).Segments() {
		switch s {
		case SegmentUp:
			if len(out) == 0 {
				return nil, ErrAboveRoot
			}
			out = out[:len(out)-1]
		case SegmentDown:
			out = append(out, name)
		}
	}
	return out, nil
}
