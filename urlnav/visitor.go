package urlnav

import (
	"net/url"
	"time"
)

// Node is a file or directory reached during navigation.
type Node struct {
	URL      *url.URL
	Name     string // base name, "" for the root of an archive
	Path     string // slash separated, relative to where the visit started
	IsDir    bool
	Size     int64
	Modified time.Time
}

// Visitor receives the nodes of a visit. Returning an error aborts the
// visit and the error is returned from Visit.
type Visitor interface {
	StartDir(n Node) error
	EndDir(n Node) error
	File(n Node) error
}

// VisitorFuncs adapts plain functions to a Visitor. Nil functions are
// skipped.
type VisitorFuncs struct {
	OnStartDir func(Node) error
	OnEndDir   func(Node) error
	OnFile     func(Node) error
}

// StartDir calls OnStartDir when it is set.
func (v VisitorFuncs) StartDir(n Node) error {
	if v.OnStartDir == nil {
		return nil
	}
	return v.OnStartDir(n)
}

// EndDir calls OnEndDir when it is set.
func (v VisitorFuncs) EndDir(n Node) error {
	if v.OnEndDir == nil {
		return nil
	}
	return v.OnEndDir(n)
}

// File calls OnFile when it is set.
func (v VisitorFuncs) File(n Node) error {
	if v.OnFile == nil {
		return nil
	}
	return v.OnFile(n)
}

// Collector gathers visited nodes in visit order. Directories are recorded
// when entered.
type Collector struct {
	Nodes []Node
	// FilesOnly leaves directories out of Nodes.
	FilesOnly bool
}

// StartDir records n unless FilesOnly is set.
func (c *Collector) StartDir(n Node) error {
	if !c.FilesOnly {
		c.Nodes = append(c.Nodes, n)
	}
	return nil
}

// EndDir records nothing.
func (c *Collector) EndDir(Node) error { return nil }

// File records n.
func (c *Collector) File(n Node) error {
	c.Nodes = append(c.Nodes, n)
	return nil
}

// Paths returns the Path of every collected node.
func (c *Collector) Paths() []string {
	out := make([]string, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		out = append(out, n.Path)
	}
	return out
}
