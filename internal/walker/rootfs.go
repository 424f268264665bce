package walker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// rootFS is the operating system's file tree below a directory. It works like
// os.DirFS, except that names are not required to be valid UTF-8: Unix file
// names are arbitrary bytes and must still be listed and read.
type rootFS string

func (r rootFS) join(name string) string {
	if name == "." {
		return string(r)
	}
	return filepath.Join(string(r), filepath.FromSlash(name))
}

func (r rootFS) Open(name string) (fs.File, error) {
	f, err := os.Open(r.join(name))
	if err != nil {
		return nil, relativeError(err, name)
	}
	return f, nil
}

func (r rootFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(r.join(name))
	return entries, relativeError(err, name)
}

func (r rootFS) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(r.join(name))
	return data, relativeError(err, name)
}

func (r rootFS) Stat(name string) (fs.FileInfo, error) {
	info, err := os.Stat(r.join(name))
	return info, relativeError(err, name)
}

// relativeError reports errors against the name inside the tree, as os.DirFS
// does, so placeholders never carry the absolute root
func relativeError(err error, name string) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		pathErr.Path = name
	}
	return err
}
