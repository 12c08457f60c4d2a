package compiler

import (
	"errors"
	"log/slog"
	"os"
)

var errIsDir = errors.New("mapping path is a directory")

// removeMapping deletes the mapping file left by an earlier run so the
// engine writes a fresh one instead of merging into it. A missing file is
// not an error. It returns the path removed, or empty if nothing was.
func removeMapping(path string, log *slog.Logger) (string, error) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return "", nil
	case err != nil:
		return "", err
	case info.IsDir():
		return "", &os.PathError{Op: "remove", Path: path, Err: errIsDir}
	}
	log.Warn("removing existing mapping file", "path", path)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}
