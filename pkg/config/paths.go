package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// viper reports a missing explicit config file as a plain fs error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func defaultTokenDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".scanova"
	}
	return filepath.Join(dir, "scanova")
}
