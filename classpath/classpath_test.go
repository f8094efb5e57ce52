package classpath

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/urlnav"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeJar(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func newNavigator(t *testing.T) *urlnav.Navigator {
	t.Helper()
	nav, err := urlnav.NewNavigator()
	require.NoError(t, err)
	t.Cleanup(nav.Close)
	return nav
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	require.NoError(t, os.MkdirAll(filepath.Join(classes, "org/example"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(classes, "org/example/App.class"), []byte("local"), 0o644))

	core := filepath.Join(dir, "lib", "core.jar")
	writeJar(t, core, map[string]string{
		"org/example/App.class":  "jar",
		"org/example/Util.class": "util",
	})

	ix, err := Scan(context.Background(), newNavigator(t), []string{
		classes,
		core,
		filepath.Join(dir, "missing.jar"),
	}, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, ix.Elements, 2)
	require.Equal(t, 2, ix.Len())
	require.Equal(t, []int{1, 2}, ix.ResourceCounts())

	el, ok := ix.Find("org/example/App.class")
	require.True(t, ok)
	require.Equal(t, classes, el.Path)
	require.False(t, el.IsArchive)

	el, ok = ix.Find("org/example/Util.class")
	require.True(t, ok)
	require.Equal(t, core, el.Path)
	require.True(t, el.IsArchive)

	_, ok = ix.Find("org/example/Missing.class")
	require.False(t, ok)

	dups := ix.Duplicates()
	require.Len(t, dups, 1)
	require.Equal(t, "org/example/App.class", dups[0].Resource)
	require.Equal(t, []string{classes, core}, []string{dups[0].Elements[0].Path, dups[0].Elements[1].Path})
}

func TestScanFollowManifest(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "app.jar")
	writeJar(t, app, map[string]string{
		jarinfo.ManifestName: "Manifest-Version: 1.0\r\nClass-Path: lib/dep.jar lib/gone.jar app.jar\r\n\r\n",
		"App.class":          "app",
	})
	dep := filepath.Join(dir, "lib", "dep.jar")
	writeJar(t, dep, map[string]string{"Dep.class": "dep"})

	ix, err := Scan(context.Background(), newNavigator(t), []string{app}, Options{FollowManifest: true})
	require.NoError(t, err)
	require.Len(t, ix.Elements, 2)
	require.Equal(t, dep, ix.Elements[1].Path)
	require.Equal(t, app, ix.Elements[1].ReferencedBy)

	el, ok := ix.Find("Dep.class")
	require.True(t, ok)
	require.Equal(t, dep, el.Path)

	ix, err = Scan(context.Background(), newNavigator(t), []string{app}, Options{})
	require.NoError(t, err)
	require.Len(t, ix.Elements, 1)
}

func TestScanFiltered(t *testing.T) {
	dir := t.TempDir()
	core := filepath.Join(dir, "core.jar")
	writeJar(t, core, map[string]string{
		"a/A.class":  "a",
		"a/notes.md": "notes",
	})
	filter, err := urlnav.NewGlobFilter([]string{"**/*.class"}, nil)
	require.NoError(t, err)

	ix, err := Scan(context.Background(), newNavigator(t), []string{core}, Options{Filter: filter})
	require.NoError(t, err)
	require.Equal(t, []string{"a/A.class"}, ix.Resources())
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	core := filepath.Join(dir, "core.jar")
	writeJar(t, core, map[string]string{"A.class": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, newNavigator(t), []string{core}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}
