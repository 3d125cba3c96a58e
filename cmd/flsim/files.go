package main

import (
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
)

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}
	return nil
}

func parentDir(path string) string {
	return filepath.Dir(path)
}
