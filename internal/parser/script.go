package parser

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/undoctl/internal/errors"
)

// Script is a recorded editing session. Each event is a list of commands
// handled as one host event: with grouping by event, the edits of one
// event form one undo step.
type Script struct {
	Name    string        `yaml:"name"`
	Options ScriptOptions `yaml:"options"`
	Events  []Event       `yaml:"events"`
}

// ScriptOptions overrides undo settings for one script. Unset fields keep
// the configured value.
type ScriptOptions struct {
	LevelsOfUndo       *int    `yaml:"levels_of_undo"`
	Coalescing         *bool   `yaml:"coalescing"`
	CoalescingKind     *string `yaml:"coalescing_kind"`
	Merge              *string `yaml:"merge"`
	RedoOrder          *string `yaml:"redo_order"`
	GroupsByEvent      *bool   `yaml:"groups_by_event"`
	DiscardEmptyGroups *bool   `yaml:"discard_empty_groups"`
	RetainsTargets     *bool   `yaml:"retains_targets"`
}

// Event is the commands of one host event.
type Event struct {
	Commands []Command
	Line     int
}

// UnmarshalYAML accepts either a single command string or a list of them.
func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	e.Line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		cmd, err := parseNode(node)
		if err != nil {
			return err
		}
		e.Commands = []Command{cmd}
	case yaml.SequenceNode:
		for _, child := range node.Content {
			if child.Kind != yaml.ScalarNode {
				return newScriptError(child.Line, "an event is a command or a list of commands")
			}
			cmd, err := parseNode(child)
			if err != nil {
				return err
			}
			e.Commands = append(e.Commands, cmd)
		}
	default:
		return newScriptError(node.Line, "an event is a command or a list of commands")
	}
	return nil
}

func parseNode(node *yaml.Node) (Command, error) {
	cmd, err := ParseCommand(node.Value)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Line = node.Line
		}
		return Command{}, err
	}
	cmd.Line = node.Line
	return cmd, nil
}

// CommandCount returns the total number of commands in the script.
func (s *Script) CommandCount() int {
	n := 0
	for _, ev := range s.Events {
		n += len(ev.Commands)
	}
	return n
}

// ParseScript parses a session script from YAML.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, pe
		}
		return nil, newScriptError(0, err.Error())
	}
	if len(s.Events) == 0 {
		return nil, newScriptError(0, "script has no events")
	}
	return &s, nil
}

// LoadScript reads and parses a session script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// ParseLines parses plain command lines, one event per line. Blank lines
// and lines starting with # are skipped.
func ParseLines(lines []string) (*Script, error) {
	s := &Script{}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = i + 1
			}
			return nil, err
		}
		cmd.Line = i + 1
		s.Events = append(s.Events, Event{Commands: []Command{cmd}, Line: i + 1})
	}
	return s, nil
}
