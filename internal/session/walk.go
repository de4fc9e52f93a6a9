package session

import (
	"io/fs"
	"os"
	"path/filepath"
)

// visitor receives every regular file found under a root.
type visitor func(path string, info fs.FileInfo) error

// walk feeds every regular file under root to visit. A root that is itself
// a file is visited directly. Unreadable entries are skipped; the walk only
// stops when visit returns an error.
func walk(root string, recursive bool, visit visitor) error {
	fi, err := os.Stat(root)
	if err != nil {
		return nil
	}
	if !fi.IsDir() {
		return visit(root, fi)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return visit(path, info)
	})
}
