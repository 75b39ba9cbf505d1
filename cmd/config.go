package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/undoctl/internal/config"
	"github.com/manav03panchal/undoctl/internal/errors"
)

var configForce bool

// configCmd shows the effective configuration.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file and UNDOCTL_*
environment overrides are applied.

Environment variables name a key with its section, e.g.
UNDOCTL_UNDO_LEVELS_OF_UNDO=50 or UNDOCTL_LOG_LEVEL=debug.

Examples:
  undoctl config
  undoctl config --format json
  undoctl config path
  undoctl config init`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt.Formatter.Println(configPath())
	},
}

// configInitCmd writes the effective configuration to the config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration to the config file",
	Long: `Write the effective configuration to the config file, so it can be
edited. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if rt.IsJSON() {
		return rt.Formatter.JSON(rt.Config)
	}

	data, err := yaml.Marshal(rt.Config)
	if err != nil {
		return err
	}
	cli := rt.CLIFormatter()
	if rt.Config.File != "" {
		cli.Muted("# " + rt.Config.File)
	} else {
		cli.Muted("# defaults (no config file)")
	}
	rt.Formatter.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.NewUserErrorWithField("config", path,
			"config file already exists", "Use --force to overwrite it")
	}
	if err := config.Save(rt.Config, path); err != nil {
		return errors.NewSystemErrorWithOp("config init", "could not write config file", err)
	}

	if rt.IsJSON() {
		return rt.Formatter.JSON(map[string]string{"status": "ok", "path": path})
	}
	rt.CLIFormatter().Success("Wrote " + path)
	return nil
}

// configPath is the file the config commands act on.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if rt != nil && rt.Config.File != "" {
		return rt.Config.File
	}
	if env := os.Getenv(config.EnvConfigFile); env != "" {
		return env
	}
	return config.DefaultPath()
}
