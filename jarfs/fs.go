package jarfs

import (
	"context"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/pathutil"
	"go.uber.org/zap"
)

// FS implements the jarfs FUSE filesystem
type FS struct {
	Jar     *jarinfo.JarInfo
	mounted time.Time
	inodes  map[*jarinfo.EntryInfo]uint64
	tree    pathutil.MapperContext[*jarinfo.EntryInfo]
	logger  *zap.Logger
}

// NewFS creates a filesystem serving the entries of j
func NewFS(j *jarinfo.JarInfo, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &FS{
		Jar:     j,
		mounted: time.Now(),
		inodes:  map[*jarinfo.EntryInfo]uint64{j.Root(): 1},
		tree:    j.MapperContext(),
		logger:  logger,
	}
	next := uint64(2)
	for e := range j.Iterate {
		f.inodes[e] = next
		next++
		if !e.IsDir() {
			if d, ok := j.Entry(e.Name() + "/"); ok && d.IsDir() {
				logger.Warn("file hidden by directory of the same name", zap.String("entry", e.Name()))
			}
		}
	}
	return f
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f, entry: f.Jar.Root()}, nil
}

func (f *FS) node(e *jarinfo.EntryInfo) fs.Node {
	if e.IsDir() {
		return &Dir{fs: f, entry: e}
	}
	return &File{fs: f, entry: e}
}

func (f *FS) mtime(e *jarinfo.EntryInfo) time.Time {
	if m := e.Modified(); !m.IsZero() {
		return m
	}
	return f.mounted
}

// Dir implements both Node and Handle for directories
type Dir struct {
	fs    *FS
	entry *jarinfo.EntryInfo
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.fs.inodes[d.entry]
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.fs.mtime(d.entry)
	a.Ctime = a.Mtime
	a.Atime = time.Now()
	return nil
}

// Lookup resolves a name inside the directory
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	e, ok := d.fs.tree.Child(d.entry, name)
	if !ok {
		return nil, syscall.ENOENT
	}
	return d.fs.node(e), nil
}

// ReadDirAll lists directory contents
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	children := d.fs.Jar.Children(d.entry)
	dirents := make([]fuse.Dirent, 0, len(children))
	for i, c := range children {
		// A directory sorts right before a file with the same name, and
		// Lookup only ever finds the directory.
		if !c.IsDir() && i > 0 && children[i-1].IsDir() && children[i-1].BaseName() == c.BaseName() {
			continue
		}
		typ := fuse.DT_File
		if c.IsDir() {
			typ = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes[c],
			Name:  c.BaseName(),
			Type:  typ,
		})
	}
	return dirents, nil
}

// File implements both Node and Handle for files
type File struct {
	fs    *FS
	entry *jarinfo.EntryInfo
	data  []byte // content cached after the first read
	mu    sync.Mutex
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.fs.inodes[f.entry]
	a.Mode = 0o444
	a.Size = uint64(f.entry.Size())
	a.Mtime = f.fs.mtime(f.entry)
	a.Ctime = a.Mtime
	a.Atime = time.Now()
	return nil
}

// ReadAll reads the entire file content
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.data != nil {
		return f.data, nil
	}
	rc, err := f.fs.Jar.Open(f.entry)
	if err != nil {
		f.fs.logger.Warn("failed to open entry", zap.String("entry", f.entry.Name()), zap.Error(err))
		return nil, syscall.EIO
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		f.fs.logger.Warn("failed to read entry", zap.String("entry", f.entry.Name()), zap.Error(err))
		return nil, syscall.EIO
	}
	f.data = data
	return data, nil
}
