package urlnav

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// FileProvider navigates directory trees on the local filesystem.
// Symbolic links are skipped.
type FileProvider struct {
	logger *zap.Logger
}

// NewFileProvider returns a provider for file: URLs. A nil logger
// discards log output.
func NewFileProvider(logger *zap.Logger) *FileProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileProvider{logger: logger}
}

func fileNode(full, rel string, info fs.FileInfo) Node {
	return Node{
		URL:      FileURL(full, info.IsDir()),
		Name:     info.Name(),
		Path:     rel,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: info.ModTime(),
	}
}

func (p *FileProvider) stat(u *url.URL) (string, Node, error) {
	full, err := FilePath(u)
	if err != nil {
		return "", Node{}, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", Node{}, fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if err != nil {
		return "", Node{}, err
	}
	n := fileNode(full, "", info)
	if !n.IsDir {
		n.Path = n.Name
	}
	return full, n, nil
}

// Stat describes the file or directory u names.
func (p *FileProvider) Stat(ctx context.Context, u *url.URL) (Node, error) {
	_, n, err := p.stat(u)
	return n, err
}

// Children lists the directory u in name order, leaving out symbolic
// links. It fails with ErrNotDirectory when u names a file.
func (p *FileProvider) Children(ctx context.Context, u *url.URL) ([]Node, error) {
	full, n, err := p.stat(u)
	if err != nil {
		return nil, err
	}
	if !n.IsDir {
		return nil, fmt.Errorf("%s: %w", u, ErrNotDirectory)
	}
	var out []Node
	err = p.each(ctx, full, "", func(n Node) error {
		out = append(out, n)
		return nil
	})
	return out, err
}

// Visit walks the tree below u depth first. When u names a file only that
// file is reported.
func (p *FileProvider) Visit(ctx context.Context, u *url.URL, v Visitor, f Filter) error {
	full, root, err := p.stat(u)
	if err != nil {
		return err
	}
	p.logger.Debug("visiting directory tree", zap.String("url", u.String()))
	if !root.IsDir {
		if f.AcceptFile(root) {
			return v.File(root)
		}
		return nil
	}
	if err := v.StartDir(root); err != nil {
		return err
	}
	if err := p.walk(ctx, full, "", v, f); err != nil {
		return err
	}
	return v.EndDir(root)
}

func (p *FileProvider) walk(ctx context.Context, dir, rel string, v Visitor, f Filter) error {
	return p.each(ctx, dir, rel, func(n Node) error {
		if !n.IsDir {
			if f.AcceptFile(n) {
				return v.File(n)
			}
			return nil
		}
		if !f.AcceptDir(n) {
			return nil
		}
		if err := v.StartDir(n); err != nil {
			return err
		}
		if err := p.walk(ctx, filepath.Join(dir, n.Name), n.Path, v, f); err != nil {
			return err
		}
		return v.EndDir(n)
	})
}

// each calls fn for every entry of dir in name order.
func (p *FileProvider) each(ctx context.Context, dir, rel string, fn func(Node) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		full := filepath.Join(dir, d.Name())
		if d.Type()&fs.ModeSymlink != 0 {
			p.logger.Debug("skipping unsupported symlink", zap.String("path", full))
			continue
		}
		info, err := d.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// Removed since ReadDir.
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(fileNode(full, path.Join(rel, d.Name()), info)); err != nil {
			return err
		}
	}
	return nil
}
