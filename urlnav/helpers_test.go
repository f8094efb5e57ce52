package urlnav

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// recorder logs visit events as "start:path", "file:path" and "end:path".
type recorder struct {
	events []string
}

func (r *recorder) StartDir(n Node) error {
	r.events = append(r.events, "start:"+n.Path)
	return nil
}

func (r *recorder) EndDir(n Node) error {
	r.events = append(r.events, "end:"+n.Path)
	return nil
}

func (r *recorder) File(n Node) error {
	r.events = append(r.events, "file:"+n.Path)
	return nil
}

// layout is shared by the directory tree and the archive built from it.
var layout = []string{
	"b.txt",
	"a/x.class",
	"a/sub/y.class",
	"a/sub/z.txt",
	"c/",
}

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range layout {
		full := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(name), 0o644))
	}
	return root
}

func writeJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.jar")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, name := range layout {
		fw, err := w.Create(name)
		require.NoError(t, err)
		if name[len(name)-1] != '/' {
			_, err = fw.Write([]byte(name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return path
}

func newNavigator(t *testing.T) *Navigator {
	t.Helper()
	nav, err := NewNavigator()
	require.NoError(t, err)
	t.Cleanup(nav.Close)
	return nav
}
