// Package confkit holds the small helpers shared by every config loader:
// dotenv bootstrapping, path resolution and file-backed config sections.
package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath expands environment variables in file and joins it onto base
// unless the expanded path is already absolute.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the main config file.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section is a config block whose content lives in a separate file. File is
// the (possibly relative) path as written in the main config; Value is filled
// by Hydrate.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads File through loader. An empty File leaves the section untouched.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	p := ResolvePath(base, s.File)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}
