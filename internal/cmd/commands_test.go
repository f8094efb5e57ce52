package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/pathutil"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level=error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(name), 0o644))
	}
	return root
}

func seedArchive(t *testing.T, opts seedOptions) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.jar")
	_, err := writeSeedArchive(path, opts, zap.NewNop())
	require.NoError(t, err)
	return path
}

func TestWalkCmd(t *testing.T) {
	root := writeTree(t, "a/b.txt", "a/c.class", "d.txt")

	out, err := run(t, "walk", root)
	require.NoError(t, err)
	require.Equal(t, "a/\na/b.txt\na/c.class\nd.txt\n", out)

	out, err = run(t, "walk", root, "--files", "--include", "*.txt,a/*.txt")
	require.NoError(t, err)
	require.Equal(t, "a/b.txt\nd.txt\n", out)

	_, err = run(t, "walk", root, "--include", "[")
	require.Error(t, err)
}

func TestResolveCmd(t *testing.T) {
	root := writeTree(t, "app/WEB-INF/web.xml")

	out, err := run(t, "resolve", root, "/app/WEB-INF/lib/x.jar")
	require.NoError(t, err)
	require.Equal(t, "target:  app/WEB-INF/\nmatched: /app/WEB-INF\ninfo:    /lib/x.jar\n", out)

	out, err = run(t, "resolve", root, "../WEB-INF/web.xml", "--base", "/app/static")
	require.NoError(t, err)
	require.Contains(t, out, "matched: /app/WEB-INF/web.xml\n")

	_, err = run(t, "resolve", root, "relative")
	require.Error(t, err)
}

func TestRequestPath(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"", "/a/b", "/a/b"},
		{"", "", ""},
		{"", "rel", "rel"},
		{"/a/b", "c", "/a/b/c"},
		{"/a/b", "../c/", "/a/c/"},
		{"/a", "..", "/"},
		{"/a/../b", "c", "/b/c"},
		{"/a/./b/..", "c", "/a/c"},
	}
	for _, tt := range tests {
		got, err := requestPath(tt.base, tt.path)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "base %q path %q", tt.base, tt.path)
	}

	_, err := requestPath("/a", "../..")
	require.ErrorIs(t, err, pathutil.ErrAboveRoot)

	_, err = requestPath("/../a", "b")
	require.ErrorIs(t, err, pathutil.ErrAboveRoot)
}

func TestSeedAndInspect(t *testing.T) {
	jar := filepath.Join(t.TempDir(), "out", "seed.jar")
	out, err := run(t, "seed", "-o", jar, "-c", "20", "-b", "4", "--class-path", "dep.jar")
	require.NoError(t, err)
	require.Contains(t, out, "with 20 files")

	out, err = run(t, "inspect", jar, "-o", "json")
	require.NoError(t, err)

	var s archiveSummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	require.Equal(t, 21, s.Files)
	require.Equal(t, s.Directories, s.Synthesized)
	require.Equal(t, []string{"dep.jar"}, s.ClassPath)
	require.Equal(t, "portalnav seed", s.Manifest["Created-By"])

	out, err = run(t, "inspect", jar)
	require.NoError(t, err)
	require.Contains(t, out, "files: 21\n")
}

func TestSeedArchiveExplicitDirs(t *testing.T) {
	path := seedArchive(t, seedOptions{files: 10, buckets: 2, dirs: true})
	j, err := jarinfo.Open(path)
	require.NoError(t, err)
	defer j.Close()

	for e := range j.Iterate {
		if e.IsDir() && strings.HasPrefix(e.Name(), "seed/b") {
			require.False(t, e.Synthesized(), e.Name())
		}
	}
	require.Len(t, j.Children(mustEntry(t, j, "seed/")), countBuckets(j))
}

func mustEntry(t *testing.T, j *jarinfo.JarInfo, name string) *jarinfo.EntryInfo {
	t.Helper()
	e, ok := j.Entry(name)
	require.True(t, ok, name)
	return e
}

func countBuckets(j *jarinfo.JarInfo) int {
	n := 0
	for e := range j.Iterate {
		if e.IsDir() && e.Depth() == 2 {
			n++
		}
	}
	return n
}

func TestManifestTextWrapsLongLines(t *testing.T) {
	cp := []string{strings.Repeat("a", 40) + ".jar", strings.Repeat("b", 40) + ".jar", "c.jar"}
	text := manifestText(seedOptions{classPath: cp})
	for _, line := range strings.Split(text, "\r\n") {
		require.LessOrEqual(t, len(line), 72)
	}

	m, err := jarinfo.ParseManifest(strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, cp, m.ClassPath())
}

func TestEntryBucket(t *testing.T) {
	for _, name := range []string{"x", "y", "some/longer/name.txt"} {
		b := entryBucket(name, 7)
		require.Equal(t, b, entryBucket(name, 7))
		require.Regexp(t, `^b00[0-6]$`, b)
	}
}

func TestCountCmd(t *testing.T) {
	root := writeTree(t, "a/1", "a/2", "b/3", "4")

	out, err := run(t, "count", root)
	require.NoError(t, err)
	require.Equal(t, "Total files: 4\n", out)

	out, err = run(t, "count", root, "--limit", "2")
	require.NoError(t, err)
	require.Equal(t, "More than 2 files\n", out)
}

func TestVerifyCmd(t *testing.T) {
	jar := seedArchive(t, seedOptions{files: 5, buckets: 2})

	out, err := run(t, "verify", jar)
	require.NoError(t, err)
	require.Equal(t, "All 1 archives ok\n", out)

	escaping := filepath.Join(t.TempDir(), "escaping.jar")
	f, err := os.Create(escaping)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("../evil.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	out, err = run(t, "verify", escaping)
	require.Error(t, err)
	require.Contains(t, out, "../evil.txt: "+jarinfo.ErrOutsideRoot.Error())

	notJar := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(notJar, []byte("plain"), 0o644))
	_, err = run(t, "verify", jar, notJar)
	require.Error(t, err)
}

func TestClasspathCmd(t *testing.T) {
	first := writeTree(t, "org/App.class", "org/Only.class")
	second := writeTree(t, "org/App.class")

	out, err := run(t, "classpath", first+string(os.PathListSeparator)+second, "--find", "org/App.class")
	require.NoError(t, err)
	require.Equal(t, "org/App.class: "+first+"\n", out)

	out, err = run(t, "classpath", first, second, "--duplicates")
	require.NoError(t, err)
	require.Equal(t, "org/App.class\n  loaded   "+first+"\n  shadowed "+second+"\n", out)

	out, err = run(t, "classpath", first, second)
	require.NoError(t, err)
	require.Equal(t, first+" (2 resources)\n"+second+" (1 resources)\n", out)

	_, err = run(t, "classpath", first, "--find", "org/Missing.class")
	require.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "portalnav version "), out)
}
