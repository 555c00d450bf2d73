package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/routetimer/internal/paths"
	"github.com/mesh-intelligence/routetimer/internal/sqlite"
	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// configFile is the structure init writes to config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	LogLevel  string `yaml:"log_level"`
	AssumeYes bool   `yaml:"assume_yes"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and an empty store",
		Long: "Create the configuration directory with config.yaml and the data\n" +
			"directory with an empty database. Existing files are left alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}
	dirs := paths.Dirs{Config: configDir}

	// An explicit --data-dir is recorded in a new config.yaml.
	var dataDir string
	if a.flags.dataDir != "" {
		if dataDir, err = filepath.Abs(a.flags.dataDir); err != nil {
			return fmt.Errorf("resolving data dir: %w", err)
		}
	}
	if err := os.MkdirAll(dirs.Config, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := writeConfigIfMissing(dirs.ConfigFile(), dataDir); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	cfg, err := loadSettings(a.flags)
	if err != nil {
		return err
	}

	b := sqlite.NewBackend()
	if err := b.Attach(cfg.store); err != nil {
		return err
	}
	if err := b.Detach(); err != nil {
		return fmt.Errorf("%w: closing store: %w", types.ErrStoreOperationFailed, err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, map[string]string{
			"config": cfg.dirs.ConfigFile(),
			"data":   cfg.dirs.Data,
		})
	}
	fmt.Fprintf(out, "Route Timer initialized\nconfig: %s\ndata:   %s\n", cfg.dirs.ConfigFile(), cfg.dirs.Data)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is kept as is.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: "warn",
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
