// Package paths resolves where routetimer keeps its configuration and its
// database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "routetimer"

// DefaultDataDirName is the data directory created in the working directory
// when nothing else is configured.
const DefaultDataDirName = ".routetimer-db"

// ConfigFileName is the config file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ROUTETIMER_CONFIG_DIR"
	EnvDataDir   = "ROUTETIMER_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// Dirs is a resolved pair of directories.
type Dirs struct {
	Config string
	Data   string
}

// ConfigFile returns the path of config.yaml.
func (d Dirs) ConfigFile() string {
	return filepath.Join(d.Config, ConfigFileName)
}

// xdgDir returns $env/routetimer, or ~/fallback/routetimer when env is unset.
// Other platforms use os.UserConfigDir for both kinds of directory.
func xdgDir(env string, fallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Join(v, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform config directory:
// $XDG_CONFIG_HOME/routetimer (~/.config/routetimer) on Linux, the
// os.UserConfigDir location elsewhere.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory:
// $XDG_DATA_HOME/routetimer (~/.local/share/routetimer) on Linux, the
// os.UserConfigDir location elsewhere.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// firstAbs returns the first non-empty candidate as an absolute path.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		return abs, true, err
	}
	return "", false, nil
}

// ResolveConfigDir returns the config directory: flag, then
// ROUTETIMER_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok || err != nil {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag, then data_dir from
// config.yaml, then ROUTETIMER_DATA_DIR, then ./.routetimer-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok || err != nil {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
