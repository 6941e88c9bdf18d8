package undo

import (
	"fmt"
	"slices"
)

// State tracks where a unit is in its lifecycle.
type State int

const (
	// StatePending is a unit still being assembled.
	StatePending State = iota
	// StateCommitted is a unit on the undo stack that was never undone.
	StateCommitted
	// StateUndone is a unit on the redo stack.
	StateUndone
	// StateRedone is a unit moved back to the undo stack by Redo.
	StateRedone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateUndone:
		return "undone"
	case StateRedone:
		return "redone"
	default:
		return "unknown"
	}
}

// Unit is one user-visible undo step made of one or more changes.
type Unit struct {
	changes []Change
	state   State
}

// State returns the unit's lifecycle state.
func (u *Unit) State() State {
	return u.state
}

// Changes returns a copy of the unit's changes in application order.
func (u *Unit) Changes() []Change {
	return slices.Clone(u.changes)
}

// Len returns the number of changes in the unit.
func (u *Unit) Len() int {
	return len(u.changes)
}

func (u *Unit) add(c Change) {
	u.changes = append(u.changes, c)
}

func (u *Unit) last() (Change, bool) {
	if len(u.changes) == 0 {
		return Change{}, false
	}
	return u.changes[len(u.changes)-1], true
}

// undo reverts changes newest first. If a change fails, the changes
// already reverted are reapplied so t is left as it was.
func (u *Unit) undo(t Target) error {
	for i := len(u.changes) - 1; i >= 0; i-- {
		if err := u.changes[i].Undo(t); err != nil {
			return rollback(err, func() error {
				for _, c := range u.changes[i+1:] {
					if err := c.Redo(t); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}
	return nil
}

// redo reapplies changes oldest first, reverting the applied prefix when a
// change fails.
func (u *Unit) redo(t Target) error {
	for i, c := range u.changes {
		if err := c.Redo(t); err != nil {
			return rollback(err, func() error {
				for j := i - 1; j >= 0; j-- {
					if err := u.changes[j].Undo(t); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}
	return nil
}

func rollback(cause error, restore func() error) error {
	if err := restore(); err != nil {
		return fmt.Errorf("%w (rollback failed: %w)", cause, err)
	}
	return cause
}
