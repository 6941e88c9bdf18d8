// Package undo records text changes as undo units and replays them.
//
// A Manager owns two bounded stacks. Significant changes start new units;
// insignificant ones are folded into the most recent unit and are never
// undoable on their own.
package undo

import (
	"fmt"
	"strings"
)

// Target is the text a change is replayed against.
type Target interface {
	// Replace substitutes length bytes at offset with text.
	Replace(offset, length int, text string) error
}

// Change is one primitive text mutation: Removed was replaced by Inserted
// at Offset.
type Change struct {
	Offset   int
	Removed  string
	Inserted string
}

// Undo reverts the change on t.
func (c Change) Undo(t Target) error {
	if err := t.Replace(c.Offset, len(c.Inserted), c.Removed); err != nil {
		return fmt.Errorf("undo %s: %w", c, err)
	}
	return nil
}

// Redo reapplies the change on t.
func (c Change) Redo(t Target) error {
	if err := t.Replace(c.Offset, len(c.Removed), c.Inserted); err != nil {
		return fmt.Errorf("redo %s: %w", c, err)
	}
	return nil
}

// IsInsert reports whether the change only adds text.
func (c Change) IsInsert() bool {
	return c.Removed == "" && c.Inserted != ""
}

// typing reports whether the change looks like a keystroke run: a
// single-line insertion.
func (c Change) typing() bool {
	return c.IsInsert() && !strings.ContainsAny(c.Inserted, "\r\n")
}

func (c Change) String() string {
	return fmt.Sprintf("@%d -%q +%q", c.Offset, c.Removed, c.Inserted)
}
