// Package cmd provides the CLI commands for undoctl.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/output"
	"github.com/manav03panchal/undoctl/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat    string
	flagColor     string
	flagDebug     bool
	flagConfig    string
	flagNoJournal bool
)

// rt is the shared runtime context.
var rt *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "undoctl",
	Short: "Drive an undo manager from scripts or an interactive canvas",
	Long: `undoctl runs editing sessions against a grouped, coalescing undo manager.
Sessions are YAML scripts of host events or interactive canvas edits, and
every commit, undo and redo is written to a journal.

Examples:
  undoctl run session.yaml
  undoctl run session.yaml --format json
  undoctl shell
  undoctl journal --since "1 hour ago"
  undoctl config`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never touch the runtime
		switch cmd.Name() {
		case "completion", "help", "version", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return nil
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		opts := runtime.DefaultOptions()
		opts.ConfigPath = flagConfig
		opts.NoJournal = flagNoJournal
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		rt, err = runtime.New(opts)
		if err != nil {
			return err
		}
		rt.Formatter.Writer = cmd.OutOrStdout()
		return nil
	},
}

// Execute runs the root command and reports any error in the selected
// output format.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	if rt != nil {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = cerr
			printError(cerr)
		}
		rt = nil
	}
	return err
}

func printError(err error) {
	if rt != nil {
		rt.PrintError(err)
		return
	}
	if flagDebug {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errors.FormatDebugError(err))
		return
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error: "+errors.FormatByCategory(err))
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/undoctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoJournal, "no-journal", false,
		"Do not open or write the journal")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("undoctl %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
