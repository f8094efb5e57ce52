package jarinfo

import "github.com/dendrascience/portalnav/pathutil"

type mapperContext struct {
	jar *JarInfo
}

// MapperContext exposes the entry tree to pathutil.SimplePathMapper. When
// a directory and a file share a name the directory is preferred.
func (j *JarInfo) MapperContext() pathutil.MapperContext[*EntryInfo] {
	return mapperContext{jar: j}
}

func (c mapperContext) Root() (*EntryInfo, bool) {
	return c.jar.Root(), true
}

func (c mapperContext) Child(parent *EntryInfo, name string) (*EntryInfo, bool) {
	if !parent.dir {
		return nil, false
	}
	prefix := parent.Name()
	if e, ok := c.jar.byName[prefix+name+"/"]; ok {
		return e, true
	}
	e, ok := c.jar.byName[prefix+name]
	return e, ok
}
