package export

import (
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/brimon/internal/filex"
)

// ToFile writes t into dir as "<base>-<timestamp>.<format>" and returns the
// file path. dir is created when missing.
func ToFile(dir, base string, format Format, t Table, now time.Time) (string, error) {
	abs, err := filex.EnsureSubDir(dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(abs, filex.StampedName(base, string(format), now))
	err = filex.WriteFile(path, func(w io.Writer) error {
		if format == FormatXLSX {
			return WriteXLSX(w, t)
		}
		return WriteCSV(w, t)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
