// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "SOLOTUBE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It follows XDG_CONFIG_HOME on Linux and the equivalent user profile paths on Darwin and Windows.
// The path can be overridden with the SOLOTUBE_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Solotube))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Solotube))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the absolute path to the practiced loops persistence file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the path to the file remembering what was typed into the source input.
func Queries() string {
	return filepath.Join(Config(), "queries.json")
}

// Temp resolves a volatile directory for transient artifacts such as mpv IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Solotube))
}
