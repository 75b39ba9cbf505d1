// Package config loads undoctl configuration from defaults, an optional
// YAML file and UNDOCTL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/logging"
	"github.com/manav03panchal/undoctl/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g.
// UNDOCTL_UNDO_LEVELS_OF_UNDO or UNDOCTL_LOG_LEVEL.
const EnvPrefix = "UNDOCTL"

// EnvConfigFile names the environment variable that points at a config file.
const EnvConfigFile = "UNDOCTL_CONFIG"

// Config holds application configuration.
type Config struct {
	Undo    UndoConfig    `mapstructure:"undo" json:"undo" yaml:"undo"`
	Storage StorageConfig `mapstructure:"storage" json:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" json:"file,omitempty" yaml:"-"`
}

// UndoConfig holds the undo manager settings.
type UndoConfig struct {
	// LevelsOfUndo caps the undo stack. 0 means unlimited.
	LevelsOfUndo       int    `mapstructure:"levels_of_undo" json:"levels_of_undo" yaml:"levels_of_undo"`
	Coalescing         bool   `mapstructure:"coalescing" json:"coalescing" yaml:"coalescing"`
	CoalescingKind     string `mapstructure:"coalescing_kind" json:"coalescing_kind" yaml:"coalescing_kind"`
	Merge              string `mapstructure:"merge" json:"merge" yaml:"merge"`
	RedoOrder          string `mapstructure:"redo_order" json:"redo_order" yaml:"redo_order"`
	GroupsByEvent      bool   `mapstructure:"groups_by_event" json:"groups_by_event" yaml:"groups_by_event"`
	DiscardEmptyGroups bool   `mapstructure:"discard_empty_groups" json:"discard_empty_groups" yaml:"discard_empty_groups"`
	RetainsTargets     bool   `mapstructure:"retains_targets" json:"retains_targets" yaml:"retains_targets"`
}

// StorageConfig holds journal storage settings.
type StorageConfig struct {
	Journal bool   `mapstructure:"journal" json:"journal" yaml:"journal"`
	Path    string `mapstructure:"path" json:"path" yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" json:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" json:"json" yaml:"json"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, storage.AppName, "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("undo.levels_of_undo", 0)
	v.SetDefault("undo.coalescing", false)
	v.SetDefault("undo.coalescing_kind", "last")
	v.SetDefault("undo.merge", "refresh")
	v.SetDefault("undo.redo_order", "reverse")
	v.SetDefault("undo.groups_by_event", true)
	v.SetDefault("undo.discard_empty_groups", true)
	v.SetDefault("undo.retains_targets", true)
	v.SetDefault("storage.journal", true)
	v.SetDefault("storage.path", storage.DefaultPath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
}

// Default returns the configuration with no file and no env overrides.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration. An explicit path must exist; otherwise
// UNDOCTL_CONFIG or the default location is read if present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			ue := errors.NewUserError(
				fmt.Sprintf("cannot read config file: %v", err),
				"Check the file exists and is valid YAML",
			)
			ue.Field = "config"
			ue.Value = path
			ue.Cause = errors.ErrInvalidConfig
			return Config{}, ue
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = v.ConfigFileUsed()
	if _, err := c.Undo.ManagerOptions(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("undo.levels_of_undo", cfg.Undo.LevelsOfUndo)
	v.Set("undo.coalescing", cfg.Undo.Coalescing)
	v.Set("undo.coalescing_kind", cfg.Undo.CoalescingKind)
	v.Set("undo.merge", cfg.Undo.Merge)
	v.Set("undo.redo_order", cfg.Undo.RedoOrder)
	v.Set("undo.groups_by_event", cfg.Undo.GroupsByEvent)
	v.Set("undo.discard_empty_groups", cfg.Undo.DiscardEmptyGroups)
	v.Set("undo.retains_targets", cfg.Undo.RetainsTargets)
	v.Set("storage.journal", cfg.Storage.Journal)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.json", cfg.Log.JSON)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoggingConfig converts the log section to a logger configuration.
func (c LogConfig) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Level)
	cfg.JSON = c.JSON
	return cfg
}
