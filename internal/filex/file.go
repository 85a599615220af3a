// Package filex holds small filesystem helpers used by the exporters.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// EnsureSubDir creates dirName (relative to the working directory unless
// absolute) and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// StampedName builds "<base>-YYYYMMDD-HHMMSS.<ext>" from t.
func StampedName(base, ext string, t time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, t.Format("20060102-150405"), ext)
}

// WriteFile creates path through a temporary file in the same directory
// and renames it into place once write succeeds, so readers never see a
// half-written export.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
