package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// KV is a durable key/value backend. Put replaces the whole value; readers
// never observe a partial write.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// FileKV stores each key as <dir>/<key>.json on an afero filesystem.
type FileKV struct {
	fs  afero.Fs
	dir string
}

func NewFileKV(fs afero.Fs, dir string) *FileKV {
	return &FileKV{fs: fs, dir: dir}
}

func (f *FileKV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileKV) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoValue
	}
	return data, err
}

// Put writes to a temp file and renames it over the target.
func (f *FileKV) Put(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := f.fs.MkdirAll(f.dir, 0750); err != nil {
		return err
	}

	tmp := p + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, value, 0640); err != nil {
		_ = f.fs.Remove(tmp)
		return err
	}
	if err := f.fs.Rename(tmp, p); err != nil {
		_ = f.fs.Remove(tmp)
		return err
	}
	return nil
}
