package undo

// DefaultLimit is the number of units kept on each stack when no limit is
// configured.
const DefaultLimit = 100

// Manager is the undo coordinator for one document. It is not safe for
// concurrent use; the owning document serializes access.
type Manager struct {
	limit          int
	coalesceTyping bool

	undo []*Unit
	redo []*Unit

	group *Unit
	depth int

	// typing is set while the top unit may absorb further keystrokes.
	typing bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit bounds each stack to n units, dropping the oldest. Zero means
// unbounded; negative values are treated as zero.
func WithLimit(n int) Option {
	return func(m *Manager) {
		m.limit = max(n, 0)
	}
}

// WithCoalesceTyping merges consecutive adjacent single-line insertions
// into one unit.
func WithCoalesceTyping(enabled bool) Option {
	return func(m *Manager) {
		m.coalesceTyping = enabled
	}
}

// NewManager creates a Manager with empty stacks.
func NewManager(opts ...Option) *Manager {
	m := &Manager{limit: DefaultLimit, coalesceTyping: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add records a change that has already been applied to the text.
//
// Inside a Begin/End group every change joins the group. Otherwise a
// significant change starts a new unit (or extends the current typing run),
// and an insignificant one is folded into the newest unit, or dropped when
// there is none. Every change, recorded or dropped, invalidates the redo
// stack: its units were recorded against text that no longer exists.
func (m *Manager) Add(c Change, significant bool) {
	m.redo = nil

	if m.group != nil {
		m.group.add(c)
		return
	}

	if !significant {
		if top := m.top(); top != nil {
			top.add(c)
		}
		return
	}

	if m.canCoalesce(c) {
		m.top().add(c)
		return
	}

	u := &Unit{state: StatePending}
	u.add(c)
	m.push(u)
	m.typing = m.coalesceTyping && c.typing()
}

func (m *Manager) canCoalesce(c Change) bool {
	if !m.typing || !c.typing() {
		return false
	}
	top := m.top()
	if top == nil {
		return false
	}
	prev, ok := top.last()
	return ok && prev.IsInsert() && c.Offset == prev.Offset+len(prev.Inserted)
}

// Begin opens a group: changes recorded until the matching End form one
// unit. Groups nest; only the outermost End commits.
func (m *Manager) Begin() {
	m.depth++
	if m.depth == 1 {
		m.group = &Unit{state: StatePending}
		m.typing = false
	}
}

// End closes a group opened by Begin. An empty group records nothing.
func (m *Manager) End() {
	if m.depth == 0 {
		return
	}
	m.depth--
	if m.depth > 0 {
		return
	}

	g := m.group
	m.group = nil
	if g.Len() == 0 {
		return
	}
	m.redo = nil
	m.push(g)
}

// Seal ends the current typing run so the next insertion starts a new unit.
func (m *Manager) Seal() {
	m.typing = false
}

// Undo reverts the newest unit on t and moves it to the redo stack.
// It reports false when there was nothing to undo. On error t is restored
// and the unit stays on the undo stack.
func (m *Manager) Undo(t Target) (bool, error) {
	m.typing = false
	if len(m.undo) == 0 {
		return false, nil
	}

	u := m.undo[len(m.undo)-1]
	if err := u.undo(t); err != nil {
		return false, err
	}
	m.undo = m.undo[:len(m.undo)-1]
	u.state = StateUndone
	m.redo = m.bound(append(m.redo, u))
	return true, nil
}

// Redo reapplies the newest undone unit on t and moves it back to the undo
// stack. It reports false when there was nothing to redo. On error t is
// restored and the unit stays on the redo stack.
func (m *Manager) Redo(t Target) (bool, error) {
	m.typing = false
	if len(m.redo) == 0 {
		return false, nil
	}

	u := m.redo[len(m.redo)-1]
	if err := u.redo(t); err != nil {
		return false, err
	}
	m.redo = m.redo[:len(m.redo)-1]
	u.state = StateRedone
	m.undo = m.bound(append(m.undo, u))
	return true, nil
}

// Clear discards both stacks and any open group.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
	m.group = nil
	m.depth = 0
	m.typing = false
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (m *Manager) Depth() (undo, redo int) {
	return len(m.undo), len(m.redo)
}

// Peek returns the unit Undo would revert, or nil.
func (m *Manager) Peek() *Unit {
	return m.top()
}

// Limit returns the per-stack bound, zero meaning unbounded.
func (m *Manager) Limit() int {
	return m.limit
}

func (m *Manager) top() *Unit {
	if len(m.undo) == 0 {
		return nil
	}
	return m.undo[len(m.undo)-1]
}

func (m *Manager) push(u *Unit) {
	u.state = StateCommitted
	m.undo = m.bound(append(m.undo, u))
}

func (m *Manager) bound(stack []*Unit) []*Unit {
	if m.limit == 0 || len(stack) <= m.limit {
		return stack
	}
	drop := len(stack) - m.limit
	clear(stack[:drop])
	return stack[drop:]
}
