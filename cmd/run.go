package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/parser"
)

var (
	runStrict bool
	runLines  bool
)

// runCmd executes a session script.
var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Run a session script",
	Long: `Run a YAML session script and print the step trace, the final drawing
and both undo stacks. Each entry of the script's events list is one host
event: edits made during an event are grouped into a single undo step.

Use - to read the script from standard input. With --lines the input is
plain session commands, one event per line. Failed commands are reported
in the trace and the run continues, unless --strict is given.

Example script:
  name: drag
  options:
    coalescing: true
  events:
    - add rect box 0 0
    - [move box 1 0, move box 1 0]
    - undo
    - list

Examples:
  undoctl run drag.yaml
  undoctl run drag.yaml --strict --format json
  cat drag.yaml | undoctl run -`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeScripts,
	RunE:              runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Stop at the first failed command")
	runCmd.Flags().BoolVar(&runLines, "lines", false, "Read plain command lines instead of YAML")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	script, err := loadScript(cmd, args[0])
	if err != nil {
		return err
	}

	s, err := rt.NewSession(script.Options)
	if err != nil {
		return err
	}
	s.StopOnError = runStrict

	rt.Debugf("running %d commands in %d events", script.CommandCount(), len(script.Events))
	res, runErr := s.Run(rt.Ctx(), script)

	if rt.IsJSON() {
		if err := rt.JSONFormatter().PrintResult(res); err != nil {
			return err
		}
	} else {
		rt.CLIFormatter().PrintResult(res)
	}

	if runErr != nil {
		return runErr
	}
	return rt.JournalErr()
}

func loadScript(cmd *cobra.Command, path string) (*parser.Script, error) {
	if path != "-" && !runLines {
		return parser.LoadScript(path)
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WithContextf(err, "read script %s", path)
	}

	if !runLines {
		return parser.ParseScript(data)
	}
	script, err := parser.ParseLines(strings.Split(string(data), "\n"))
	if err != nil {
		return nil, err
	}
	if path != "-" {
		script.Name = path
	}
	return script, nil
}
