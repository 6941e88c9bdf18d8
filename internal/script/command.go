// Package script implements the edit-script language used by the replay
// and shell commands.
//
// A script is either line oriented:
//
//	insert 0 "SELECT "
//	replace 7 1 "a, b"
//	undo
//	at 3
//
// or YAML with a list of steps:
//
//	steps:
//	  - {op: insert, offset: 0, text: "SELECT "}
//	  - {op: undo}
package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op names a script command.
type Op string

// Supported operations.
const (
	OpInsert  Op = "insert"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpSet     Op = "set"
	OpUndo    Op = "undo"
	OpRedo    Op = "redo"
	OpClear   Op = "clear"
	OpSeal    Op = "seal"
	OpAt      Op = "at"
	OpRange   Op = "range"
	OpText    Op = "text"
	OpTokens  Op = "tokens"
	OpStatus  Op = "status"
)

var (
	// ErrUnknownCommand is returned for an unrecognized operation.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrSyntax is returned when a command's arguments cannot be parsed.
	ErrSyntax = errors.New("syntax error")
)

// Command is one parsed script step. Which fields are used depends on Op.
type Command struct {
	Op     Op     `yaml:"op"`
	Offset int    `yaml:"offset,omitempty"`
	Length int    `yaml:"length,omitempty"`
	End    int    `yaml:"end,omitempty"`
	Text   string `yaml:"text,omitempty"`
}

// Mutates reports whether the command changes the document text.
func (c Command) Mutates() bool {
	switch c.Op {
	case OpInsert, OpRemove, OpReplace, OpSet, OpUndo, OpRedo:
		return true
	default:
		return false
	}
}

// String renders the command in line syntax.
func (c Command) String() string {
	switch c.Op {
	case OpInsert:
		return fmt.Sprintf("insert %d %s", c.Offset, strconv.Quote(c.Text))
	case OpRemove:
		return fmt.Sprintf("remove %d %d", c.Offset, c.Length)
	case OpReplace:
		return fmt.Sprintf("replace %d %d %s", c.Offset, c.Length, strconv.Quote(c.Text))
	case OpSet:
		return "set " + strconv.Quote(c.Text)
	case OpAt:
		return fmt.Sprintf("at %d", c.Offset)
	case OpRange:
		return fmt.Sprintf("range %d %d", c.Offset, c.End)
	default:
		return string(c.Op)
	}
}

// arity is the argument shape of each operation: 'n' for an integer and
// 's' for a string.
//
//nolint:gochecknoglobals // Read-only lookup table.
var arity = map[Op]string{
	OpInsert:  "ns",
	OpRemove:  "nn",
	OpReplace: "nns",
	OpSet:     "s",
	OpUndo:    "",
	OpRedo:    "",
	OpClear:   "",
	OpSeal:    "",
	OpAt:      "n",
	OpRange:   "nn",
	OpText:    "",
	OpTokens:  "",
	OpStatus:  "",
}

// Ops returns every supported operation name.
func Ops() []Op {
	return []Op{
		OpInsert, OpRemove, OpReplace, OpSet, OpUndo, OpRedo, OpClear,
		OpSeal, OpAt, OpRange, OpText, OpTokens, OpStatus,
	}
}

// Parse parses one line of script. Strings use Go double-quoted syntax, so
// "\n" and "\t" escapes work. Blank lines and lines starting with '#' yield
// ok == false.
func Parse(line string) (cmd Command, ok bool, err error) {
	fields, err := split(line)
	if err != nil {
		return Command{}, false, err
	}
	if len(fields) == 0 || strings.HasPrefix(fields[0].text, "#") && !fields[0].quoted {
		return Command{}, false, nil
	}

	op := Op(strings.ToLower(fields[0].text))
	shape, known := arity[op]
	if !known {
		return Command{}, false, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0].text)
	}

	args := fields[1:]
	if len(args) != len(shape) {
		return Command{}, false, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrSyntax, op, len(shape), len(args))
	}

	var nums []int
	cmd = Command{Op: op}
	for i, kind := range shape {
		arg := args[i]
		if kind == 's' {
			if !arg.quoted {
				return Command{}, false, fmt.Errorf("%w: %s argument %d must be a quoted string", ErrSyntax, op, i+1)
			}
			cmd.Text = arg.text
			continue
		}
		if arg.quoted {
			return Command{}, false, fmt.Errorf("%w: %s argument %d must be a number", ErrSyntax, op, i+1)
		}
		n, convErr := strconv.Atoi(arg.text)
		if convErr != nil {
			return Command{}, false, fmt.Errorf("%w: %s argument %d: %w", ErrSyntax, op, i+1, convErr)
		}
		nums = append(nums, n)
	}

	if len(nums) > 0 {
		cmd.Offset = nums[0]
	}
	if len(nums) > 1 {
		if op == OpRange {
			cmd.End = nums[1]
		} else {
			cmd.Length = nums[1]
		}
	}
	return cmd, true, nil
}

type field struct {
	text   string
	quoted bool
}

// split breaks a line into whitespace separated fields, decoding quoted
// strings.
func split(line string) ([]field, error) {
	var fields []field
	rest := strings.TrimSpace(line)
	for rest != "" {
		if rest[0] == '"' {
			prefix, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
			}
			text, err := strconv.Unquote(prefix)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
			}
			fields = append(fields, field{text: text, quoted: true})
			rest = strings.TrimLeft(rest[len(prefix):], " \t")
			continue
		}

		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		fields = append(fields, field{text: rest[:end]})
		rest = strings.TrimLeft(rest[end:], " \t")
	}
	return fields, nil
}
