package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/routetimer/internal/paths"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// Config keys in config.yaml.
const (
	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyLogLevel  = "log_level"
	cfgKeyAssumeYes = "assume_yes"
)

// envLogLevel overrides log_level from config.yaml.
const envLogLevel = "ROUTETIMER_LOG_LEVEL"

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Route Timer configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridden by --data-dir)
# data_dir:

# Log level: debug, info, warn, error
log_level: warn

# Skip confirmation prompts
assume_yes: false
`

// settings is the configuration of one invocation after flags, config.yaml
// and environment are merged.
type settings struct {
	dirs      paths.Dirs
	store     types.Config
	logLevel  string
	assumeYes bool
}

// loadSettings resolves directories and reads config.yaml, creating a
// default one on first run. Flags win over config.yaml.
func loadSettings(f rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolving config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}
	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolving data dir: %w", err)
	}

	s := settings{
		dirs: paths.Dirs{Config: configDir, Data: dataDir},
		store: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
		},
		logLevel:  v.GetString(cfgKeyLogLevel),
		assumeYes: v.GetBool(cfgKeyAssumeYes) || f.assumeYes,
	}
	if f.logLevel != "" {
		s.logLevel = f.logLevel
	}
	if err := s.store.Validate(); err != nil {
		return settings{}, fmt.Errorf("%s: %w", s.dirs.ConfigFile(), err)
	}
	return s, nil
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml if they do not exist.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(paths.Dirs{Config: configDir}.ConfigFile()); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyAssumeYes, false)
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, err
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML to path unless a file is
// already there.
func ensureDefaultConfigFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
