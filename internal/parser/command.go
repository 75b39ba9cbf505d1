package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/validate"
)

// Op is a session command verb.
type Op string

const (
	OpAdd        Op = "add"
	OpMove       Op = "move"
	OpMoveTo     Op = "moveto"
	OpColor      Op = "color"
	OpRename     Op = "rename"
	OpRemove     Op = "remove"
	OpForget     Op = "forget"
	OpUndo       Op = "undo"
	OpRedo       Op = "redo"
	OpBegin      Op = "begin"
	OpEnd        Op = "end"
	OpName       Op = "name"
	OpDisable    Op = "disable"
	OpEnable     Op = "enable"
	OpLevels     Op = "levels"
	OpCoalesce   Op = "coalesce"
	OpExplode    Op = "explode"
	OpClear      Op = "clear"
	OpResetCount Op = "reset-count"
	OpList       Op = "list"
	OpStack      Op = "stack"
)

// opSpec is the arity and usage of a verb.
type opSpec struct {
	min, max int
	usage    string
}

var opSpecs = map[Op]opSpec{
	OpAdd:        {2, 4, "add <kind> <name> [x y]"},
	OpMove:       {3, 3, "move <name> <dx> <dy>"},
	OpMoveTo:     {3, 3, "moveto <name> <x> <y>"},
	OpColor:      {2, 2, "color <name> <color>"},
	OpRename:     {2, 2, "rename <name> <new-name>"},
	OpRemove:     {1, 1, "remove <name>"},
	OpForget:     {1, 1, "forget <name>"},
	OpUndo:       {0, 1, "undo [count]"},
	OpRedo:       {0, 1, "redo [count]"},
	OpBegin:      {0, 0, "begin"},
	OpEnd:        {0, 0, "end"},
	OpName:       {1, -1, "name <action name>"},
	OpDisable:    {0, 0, "disable"},
	OpEnable:     {0, 0, "enable"},
	OpLevels:     {1, 1, "levels <n>"},
	OpCoalesce:   {1, 1, "coalesce on|off|last|all"},
	OpExplode:    {0, 0, "explode"},
	OpClear:      {0, 0, "clear"},
	OpResetCount: {0, 0, "reset-count"},
	OpList:       {0, 0, "list"},
	OpStack:      {0, 0, "stack"},
}

// aliases maps alternative spellings to verbs.
var aliases = map[string]Op{
	"delete":  OpRemove,
	"rm":      OpRemove,
	"recolor": OpColor,
	"mv":      OpMove,
	"u":       OpUndo,
	"r":       OpRedo,
	"ls":      OpList,
}

// closestVerb returns the verb within two edits of word, or "".
func closestVerb(word string) string {
	verbs := make([]string, 0, len(opSpecs))
	for op := range opSpecs {
		verbs = append(verbs, string(op))
	}
	slices.Sort(verbs)

	best, bestDist := "", 3
	for _, v := range verbs {
		d := levenshtein.ComputeDistance(word, v)
		if d < bestDist && d < len(word) {
			best, bestDist = v, d
		}
	}
	return best
}

// CoalesceModes lists the arguments accepted by the coalesce command.
var CoalesceModes = []string{"on", "off", "last", "all"}

// Usage returns one usage line per verb, sorted.
func Usage() []string {
	lines := make([]string, 0, len(opSpecs))
	for _, spec := range opSpecs {
		lines = append(lines, spec.usage)
	}
	slices.Sort(lines)
	return lines
}

// Command is one parsed session command.
type Command struct {
	Op Op
	// Shape is the shape a drawing command acts on.
	Shape string
	// Arg is the kind for add, the color, the new name, the action name
	// or the coalesce mode.
	Arg   string
	Point drawing.Point
	// N is the repeat count for undo/redo and the limit for levels.
	N int

	Line int
	Raw  string
}

// IsEdit reports whether the command changes the drawing.
func (c Command) IsEdit() bool {
	switch c.Op {
	case OpAdd, OpMove, OpMoveTo, OpColor, OpRename, OpRemove, OpForget:
		return true
	}
	return false
}

func (c Command) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return string(c.Op)
}

// ParseCommand parses a single command line such as `move box 3 -1`.
// Quoted arguments may contain spaces.
func ParseCommand(line string) (Command, error) {
	raw := strings.TrimSpace(line)
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return Command{}, newCommandError(raw, "empty command")
	}

	verb := strings.ToLower(tokens[0])
	op := Op(verb)
	if alias, ok := aliases[verb]; ok {
		op = alias
	}
	spec, ok := opSpecs[op]
	if !ok {
		msg := fmt.Sprintf("unknown command %q", tokens[0])
		if guess := closestVerb(verb); guess != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", guess)
		}
		return Command{}, newCommandError(raw, msg)
	}

	args := tokens[1:]
	if len(args) < spec.min || (spec.max >= 0 && len(args) > spec.max) {
		return Command{}, newCommandError(raw, "usage: "+spec.usage)
	}

	cmd := Command{Op: op, Raw: raw}
	var err error
	switch op {
	case OpAdd:
		var kind drawing.Kind
		if kind, err = drawing.ParseKind(args[0]); err != nil {
			return Command{}, newCommandError(raw, err.Error())
		}
		cmd.Arg, cmd.Shape = string(kind), args[1]
		if err = validate.ShapeName(cmd.Shape); err != nil {
			break
		}
		if len(args) == 3 {
			return Command{}, newCommandError(raw, "usage: "+spec.usage)
		}
		if len(args) == 4 {
			cmd.Point, err = parsePoint(args[2], args[3])
		}
	case OpMove, OpMoveTo:
		cmd.Shape = args[0]
		cmd.Point, err = parsePoint(args[1], args[2])
	case OpColor:
		cmd.Shape, cmd.Arg = args[0], args[1]
		err = validate.Color(cmd.Arg)
	case OpRename:
		cmd.Shape, cmd.Arg = args[0], args[1]
		err = validate.ShapeName(cmd.Arg)
	case OpRemove, OpForget:
		cmd.Shape = args[0]
	case OpUndo, OpRedo:
		cmd.N = 1
		if len(args) == 1 {
			cmd.N, err = parseCount(args[0], 1)
		}
	case OpLevels:
		cmd.N, err = parseCount(args[0], 0)
	case OpName:
		cmd.Arg = strings.Join(args, " ")
	case OpCoalesce:
		cmd.Arg = strings.ToLower(args[0])
		if !slices.Contains(CoalesceModes, cmd.Arg) {
			err = fmt.Errorf("coalesce mode must be one of %s", strings.Join(CoalesceModes, ", "))
		}
	}
	if err != nil {
		return Command{}, newCommandError(raw, err.Error())
	}
	return cmd, nil
}

func parsePoint(xs, ys string) (drawing.Point, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return drawing.Point{}, fmt.Errorf("x must be an integer, got %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return drawing.Point{}, fmt.Errorf("y must be an integer, got %q", ys)
	}
	return drawing.Point{X: x, Y: y}, nil
}

func parseCount(s string, minimum int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum {
		return 0, fmt.Errorf("expected an integer >= %d, got %q", minimum, s)
	}
	return n, nil
}

// tokenize splits input on whitespace, keeping single- or double-quoted
// runs together.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false
	quoted := false
	quoteChar := rune(0)

	flush := func() {
		if current.Len() > 0 || quoted {
			tokens = append(tokens, current.String())
			current.Reset()
		}
		quoted = false
	}

	for _, r := range input {
		switch {
		case !inQuote && (r == '"' || r == '\''):
			inQuote, quoted, quoteChar = true, true, r
		case inQuote && r == quoteChar:
			inQuote, quoteChar = false, 0
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}
