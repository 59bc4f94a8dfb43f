// Package iofs creates gnamed directories and configuration files and
// resolves paths of source files.
package iofs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/templates"
)

// EnsureDirs creates config, cache and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes config.yaml from the embedded template if it
// does not exist yet.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), templates.ConfigYAML)
}

// EnsureSourcesFile writes sources.yaml from the embedded template if
// it does not exist yet.
func EnsureSourcesFile(homeDir string) error {
	return ensureFile(config.SourcesFilePath(homeDir), templates.SourcesYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}

	return nil
}

// ExpandPath replaces a leading ~ with homeDir.
func ExpandPath(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// CheckFile returns an error if path is not a readable regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ReadFileError(path, err)
	}
	if info.IsDir() {
		return ReadFileError(path, os.ErrInvalid)
	}
	return nil
}
