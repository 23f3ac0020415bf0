// Package file stores each key as one file: <dir>/<scope name>/<scope id>.
// The id is path-escaped, so ids containing "/" stay one file. Contents are
// wire records, zstd-compressed once they pass wire.CompressThreshold.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0xLeif/AppState-sub000/internal/wire"
	pr "github.com/0xLeif/AppState-sub000/provider"
)

// rootName holds keys that have no "<name>/" prefix. It is reserved: a scope
// named "_" is rejected.
const rootName = "_"

type Provider struct {
	dir  string
	perm os.FileMode
}

var (
	_ pr.Provider = (*Provider)(nil)
	_ pr.Lister   = (*Provider)(nil)
)

type Config struct {
	Dir  string      // required
	Perm os.FileMode // file mode; 0 => 0o600
}

func New(cfg Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("file provider: empty dir")
	}
	perm := cfg.Perm
	if perm == 0 {
		perm = 0o600
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, err
	}
	return &Provider{dir: cfg.Dir, perm: perm}, nil
}

// Dir returns the root directory.
func (p *Provider) Dir() string { return p.dir }

// Path returns the file a key is stored in.
func (p *Provider) Path(key string) (string, error) {
	name, id := pr.SplitKey(key)
	if id == "" {
		return "", fmt.Errorf("file provider: empty id in key %q", key)
	}
	if name == rootName || name == "." || name == ".." || strings.ContainsAny(name, `\`) {
		return "", fmt.Errorf("file provider: invalid scope name %q", name)
	}
	if name == "" {
		name = rootName
	}
	return filepath.Join(p.dir, name, escape(id)), nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := p.Path(key)
	if err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	b, err := wire.DecodeRecord(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return b, true, nil
}

// Set writes through a temp file and rename, so readers never see a torn file.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64) (bool, error) {
	path, err := p.Path(key)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, err
	}
	if err := writeAtomic(path, wire.EncodeRecord(value), p.perm); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	path, err := p.Path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Keys lists every stored key, sorted. Temp files are skipped.
func (p *Provider) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(p.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(p.dir, path)
		if err != nil {
			return err
		}
		name, file, ok := strings.Cut(filepath.ToSlash(rel), "/")
		if !ok || strings.Contains(file, "/") {
			return nil
		}
		id, err := url.PathUnescape(file)
		if err != nil {
			return nil
		}
		if name == rootName {
			keys = append(keys, id)
		} else {
			keys = append(keys, name+"/"+id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Provider) Close(context.Context) error { return nil }

func escape(id string) string {
	s := url.PathEscape(id)
	if s == "." || s == ".." {
		s = strings.ReplaceAll(s, ".", "%2E")
	}
	return s
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
