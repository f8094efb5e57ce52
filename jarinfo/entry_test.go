package jarinfo

import (
	"slices"
	"testing"
)

func TestParseEntryName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		segments []string
		dir      bool
		want     string
	}{
		{name: "root", input: "", segments: nil, dir: true, want: ""},
		{name: "slash root", input: "/", segments: nil, dir: true, want: ""},
		{name: "file", input: "a/b/C.class", segments: []string{"a", "b", "C.class"}, want: "a/b/C.class"},
		{name: "directory", input: "a/b/", segments: []string{"a", "b"}, dir: true, want: "a/b/"},
		{name: "doubled slashes", input: "a//b", segments: []string{"a", "b"}, want: "a/b"},
		{name: "leading slash", input: "/a/", segments: []string{"a"}, dir: true, want: "a/"},
		{name: "dot segments", input: "./a/./b.txt", segments: []string{"a", "b.txt"}, want: "a/b.txt"},
		{name: "trailing dot", input: "a/.", segments: []string{"a"}, dir: true, want: "a/"},
		{name: "dot dot inside", input: "a/b/../c.txt", segments: []string{"a", "c.txt"}, want: "a/c.txt"},
		{name: "dot dot to root", input: "a/..", segments: nil, dir: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ParseEntryName(tt.input)
			if !slices.Equal(e.Segments(), tt.segments) {
				t.Errorf("Segments() = %v, want %v", e.Segments(), tt.segments)
			}
			if e.IsDir() != tt.dir {
				t.Errorf("IsDir() = %v, want %v", e.IsDir(), tt.dir)
			}
			if e.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", e.Name(), tt.want)
			}
			if e.Escapes() {
				t.Errorf("Escapes() = true for %q", tt.input)
			}
		})
	}
}

func TestParseEntryName_Escapes(t *testing.T) {
	for _, name := range []string{"..", "../evil.txt", "a/../../evil.txt", "/../x/"} {
		if !ParseEntryName(name).Escapes() {
			t.Errorf("ParseEntryName(%q).Escapes() = false, want true", name)
		}
	}
}

func TestEntryInfo_Relations(t *testing.T) {
	root := ParseEntryName("")
	a := ParseEntryName("a/")
	ab := ParseEntryName("a/b/")
	abc := ParseEntryName("a/b/c.txt")
	af := ParseEntryName("a")
	other := ParseEntryName("ax/b/")

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"root parent of a", root.IsParentOf(a), true},
		{"root ancestor of abc", root.IsAncestorOf(abc), true},
		{"a parent of ab", a.IsParentOf(ab), true},
		{"a not parent of abc", a.IsParentOf(abc), false},
		{"a ancestor of abc", a.IsAncestorOf(abc), true},
		{"abc child of ab", abc.IsChildOf(ab), true},
		{"abc descendant of a", abc.IsDescendantOf(a), true},
		{"a not ancestor of itself", a.IsAncestorOf(a), false},
		{"file is never a parent", af.IsParentOf(ab), false},
		{"segment prefix is not string prefix", a.IsAncestorOf(other), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if p, ok := abc.ParentName(); !ok || p != "a/b/" {
		t.Errorf("ParentName() = %q, %v, want \"a/b/\", true", p, ok)
	}
	if p, ok := a.ParentName(); !ok || p != "" {
		t.Errorf("ParentName() = %q, %v, want \"\", true", p, ok)
	}
	if _, ok := root.ParentName(); ok {
		t.Error("root should have no parent")
	}
	if abc.BaseName() != "c.txt" || abc.Depth() != 3 {
		t.Errorf("BaseName() = %q, Depth() = %d", abc.BaseName(), abc.Depth())
	}
}

func TestCompare_DepthFirst(t *testing.T) {
	input := []string{"b.txt", "a/z.txt", "a", "a/", "", "a/b/", "a/b/c", "ab/", "a/a.txt"}
	entries := make([]*EntryInfo, 0, len(input))
	for _, n := range input {
		entries = append(entries, ParseEntryName(n))
	}
	slices.SortFunc(entries, Compare)

	want := []string{"", "a/", "a/a.txt", "a/b/", "a/b/c", "a/z.txt", "a", "ab/", "b.txt"}
	if got := names(entries); !slices.Equal(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}

	// Every directory's descendants directly follow it.
	for i, e := range entries {
		for j, o := range entries {
			if e.IsAncestorOf(o) && j < i {
				t.Errorf("%s sorted after descendant %s", e, o)
			}
		}
	}
}
