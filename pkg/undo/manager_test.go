package undo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntaxdoc/pkg/undo"
)

// text is a minimal Target that also records changes like a document would.
type text struct {
	s string
	m *undo.Manager
}

func (t *text) Replace(offset, length int, s string) error {
	if offset < 0 || offset+length > len(t.s) {
		return errors.New("out of range")
	}
	t.s = t.s[:offset] + s + t.s[offset+length:]
	return nil
}

func (t *text) edit(offset, length int, s string, significant bool) {
	removed := t.s[offset : offset+length]
	t.s = t.s[:offset] + s + t.s[offset+length:]
	t.m.Add(undo.Change{Offset: offset, Removed: removed, Inserted: s}, significant)
}

func newText(s string, opts ...undo.Option) *text {
	return &text{s: s, m: undo.NewManager(opts...)}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()

	doc := newText("SELECT * FROM t")
	doc.edit(6, 0, "X", true)
	require.Equal(t, "SELECTX * FROM t", doc.s)

	ok, err := doc.m.Undo(doc)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SELECT * FROM t", doc.s)
	assert.True(t, doc.m.CanRedo())

	ok, err = doc.m.Redo(doc)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SELECTX * FROM t", doc.s)
	assert.Equal(t, undo.StateRedone, doc.m.Peek().State())
}

func TestUndoOnEmptyStacksIsNoop(t *testing.T) {
	t.Parallel()

	doc := newText("abc")
	ok, err := doc.m.Undo(doc)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = doc.m.Redo(doc)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "abc", doc.s)
}

func TestTypingCoalesces(t *testing.T) {
	t.Parallel()

	doc := newText("")
	for i, c := range "SELECT" {
		doc.edit(i, 0, string(c), true)
	}
	undoDepth, _ := doc.m.Depth()
	assert.Equal(t, 1, undoDepth)

	_, err := doc.m.Undo(doc)
	require.NoError(t, err)
	assert.Empty(t, doc.s)
}

func TestTypingBreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []undo.Option
		steps func(doc *text)
		want  int
	}{
		{
			name: "coalescing disabled",
			opts: []undo.Option{undo.WithCoalesceTyping(false)},
			steps: func(doc *text) {
				doc.edit(0, 0, "a", true)
				doc.edit(1, 0, "b", true)
			},
			want: 2,
		},
		{
			name: "non-adjacent insert",
			steps: func(doc *text) {
				doc.edit(0, 0, "a", true)
				doc.edit(0, 0, "b", true)
			},
			want: 2,
		},
		{
			name: "newline starts a new unit",
			steps: func(doc *text) {
				doc.edit(0, 0, "a", true)
				doc.edit(1, 0, "\n", true)
				doc.edit(2, 0, "b", true)
			},
			want: 3,
		},
		{
			name: "deletion is never merged",
			steps: func(doc *text) {
				doc.edit(0, 0, "ab", true)
				doc.edit(1, 1, "", true)
			},
			want: 2,
		},
		{
			name: "seal ends the run",
			steps: func(doc *text) {
				doc.edit(0, 0, "a", true)
				doc.m.Seal()
				doc.edit(1, 0, "b", true)
			},
			want: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := newText("", tc.opts...)
			tc.steps(doc)
			got, _ := doc.m.Depth()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInsignificantChangesFold(t *testing.T) {
	t.Parallel()

	doc := newText("select")
	doc.edit(0, 6, "SELECT", false)
	assert.False(t, doc.m.CanUndo(), "insignificant change without a unit is dropped")

	doc.edit(6, 0, " 1", true)
	doc.edit(0, 6, "select", false)
	undoDepth, _ := doc.m.Depth()
	assert.Equal(t, 1, undoDepth)
	assert.Equal(t, 2, doc.m.Peek().Len())

	_, err := doc.m.Undo(doc)
	require.NoError(t, err)
	assert.Equal(t, "SELECT", doc.s)
}

func TestGroups(t *testing.T) {
	t.Parallel()

	doc := newText("SELECT a FROM t")
	doc.m.Begin()
	doc.edit(14, 1, "users", true)
	doc.m.Begin()
	doc.edit(7, 1, "id", true)
	doc.m.End()
	doc.m.End()
	require.Equal(t, "SELECT id FROM users", doc.s)

	undoDepth, _ := doc.m.Depth()
	assert.Equal(t, 1, undoDepth)

	_, err := doc.m.Undo(doc)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t", doc.s)

	doc.m.Begin()
	doc.m.End()
	doc.m.End()
	undoDepth, redoDepth := doc.m.Depth()
	assert.Equal(t, 0, undoDepth, "empty group records nothing")
	assert.Equal(t, 1, redoDepth, "empty group keeps redo")
}

func TestNewChangeClearsRedo(t *testing.T) {
	t.Parallel()

	doc := newText("", undo.WithCoalesceTyping(false))
	doc.edit(0, 0, "a", true)
	_, err := doc.m.Undo(doc)
	require.NoError(t, err)
	require.True(t, doc.m.CanRedo())

	doc.edit(0, 0, "b", true)
	assert.False(t, doc.m.CanRedo())
}

func TestLimitDropsOldest(t *testing.T) {
	t.Parallel()

	doc := newText("", undo.WithLimit(2), undo.WithCoalesceTyping(false))
	doc.edit(0, 0, "a", true)
	doc.edit(1, 0, "b", true)
	doc.edit(2, 0, "c", true)

	undoDepth, _ := doc.m.Depth()
	assert.Equal(t, 2, undoDepth)

	for doc.m.CanUndo() {
		_, err := doc.m.Undo(doc)
		require.NoError(t, err)
	}
	assert.Equal(t, "a", doc.s)
}

func TestUnboundedLimit(t *testing.T) {
	t.Parallel()

	m := undo.NewManager(undo.WithLimit(0))
	assert.Equal(t, 0, m.Limit())
	assert.Equal(t, undo.DefaultLimit, undo.NewManager().Limit())
	assert.Equal(t, 0, undo.NewManager(undo.WithLimit(-3)).Limit())
}

func TestClear(t *testing.T) {
	t.Parallel()

	doc := newText("", undo.WithCoalesceTyping(false))
	doc.edit(0, 0, "a", true)
	doc.edit(1, 0, "b", true)
	_, err := doc.m.Undo(doc)
	require.NoError(t, err)

	doc.m.Clear()
	assert.False(t, doc.m.CanUndo())
	assert.False(t, doc.m.CanRedo())
}

func TestUndoFailureKeepsUnit(t *testing.T) {
	t.Parallel()

	doc := newText("abc")
	doc.edit(0, 0, "x", true)
	doc.s = "" // diverge from the recorded history

	_, err := doc.m.Undo(doc)
	require.Error(t, err)
	assert.True(t, doc.m.CanUndo())
	assert.Equal(t, undo.StateCommitted, doc.m.Peek().State())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", undo.StatePending.String())
	assert.Equal(t, "undone", undo.StateUndone.String())
	assert.Equal(t, "unknown", undo.State(42).String())
}

func TestDroppedChangeClearsRedo(t *testing.T) {
	t.Parallel()

	doc := newText("abcdef")
	doc.edit(4, 2, "", true)

	ok, err := doc.m.Undo(doc)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, doc.m.CanRedo())

	// No unit to fold into, so the change is dropped, but the text moved on.
	doc.edit(0, 5, "", false)
	assert.False(t, doc.m.CanRedo())
	assert.False(t, doc.m.CanUndo())

	ok, err = doc.m.Redo(doc)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "f", doc.s)
}

// flaky fails the failAt-th Replace call, counting from one.
type flaky struct {
	*text
	calls  int
	failAt int
}

func (f *flaky) Replace(offset, length int, s string) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("injected failure")
	}
	return f.text.Replace(offset, length, s)
}

func TestFailedReplayRollsBack(t *testing.T) {
	t.Parallel()

	newGroup := func() *flaky {
		doc := newText("abc")
		doc.m.Begin()
		doc.edit(0, 0, "x", true)
		doc.edit(4, 0, "y", true)
		doc.m.End()
		require.Equal(t, "xabcy", doc.s)
		return &flaky{text: doc}
	}

	t.Run("undo", func(t *testing.T) {
		t.Parallel()

		f := newGroup()
		f.failAt = 2

		ok, err := f.m.Undo(f)
		require.ErrorContains(t, err, "injected failure")
		assert.False(t, ok)
		assert.Equal(t, "xabcy", f.s)
		assert.True(t, f.m.CanUndo())
		assert.False(t, f.m.CanRedo())
		assert.Equal(t, undo.StateCommitted, f.m.Peek().State())
	})

	t.Run("redo", func(t *testing.T) {
		t.Parallel()

		f := newGroup()
		ok, err := f.m.Undo(f)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "abc", f.s)

		f.failAt = f.calls + 2
		ok, err = f.m.Redo(f)
		require.ErrorContains(t, err, "injected failure")
		assert.False(t, ok)
		assert.Equal(t, "abc", f.s)
		assert.True(t, f.m.CanRedo())
		assert.False(t, f.m.CanUndo())
	})
}
