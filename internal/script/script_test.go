package script_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntaxdoc/internal/logging"
	"github.com/yaklabco/syntaxdoc/internal/script"
	"github.com/yaklabco/syntaxdoc/pkg/document"
	"github.com/yaklabco/syntaxdoc/pkg/lexer"
)

func newDoc(text string) *document.Document {
	return document.New(
		document.WithText(text),
		document.WithLexer(lexer.NewSQL(lexer.SQLOptions{})),
		document.WithLogger(logging.Discard()),
	)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want script.Command
	}{
		{`insert 0 "SELECT "`, script.Command{Op: script.OpInsert, Text: "SELECT "}},
		{`remove 3 2`, script.Command{Op: script.OpRemove, Offset: 3, Length: 2}},
		{`replace 1 4 "a\nb"`, script.Command{Op: script.OpReplace, Offset: 1, Length: 4, Text: "a\nb"}},
		{`  UNDO  `, script.Command{Op: script.OpUndo}},
		{`range 2 9`, script.Command{Op: script.OpRange, Offset: 2, End: 9}},
		{`at 5`, script.Command{Op: script.OpAt, Offset: 5}},
		{`set ""`, script.Command{Op: script.OpSet}},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()

			got, ok, err := script.Parse(tc.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)

			// String renders something Parse accepts again.
			again, ok, err := script.Parse(got.String())
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, got, again)
		})
	}
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"", "   ", "# note", "#insert 0 \"x\""} {
		_, ok, err := script.Parse(line)
		require.NoError(t, err, line)
		assert.False(t, ok, line)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want error
	}{
		{`jump 3`, script.ErrUnknownCommand},
		{`insert 0`, script.ErrSyntax},
		{`insert 0 bare`, script.ErrSyntax},
		{`remove "1" 2`, script.ErrSyntax},
		{`remove x 2`, script.ErrSyntax},
		{`insert 0 "open`, script.ErrSyntax},
		{`undo now`, script.ErrSyntax},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()

			_, _, err := script.Parse(tc.line)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	cmds, err := script.ParseLines([]byte("# build a query\ninsert 0 \"SELECT 1\"\n\nundo\n"))
	require.NoError(t, err)
	assert.Equal(t, []script.Command{
		{Op: script.OpInsert, Text: "SELECT 1"},
		{Op: script.OpUndo},
	}, cmds)

	_, err = script.ParseLines([]byte("undo\nbogus\n"))
	require.ErrorIs(t, err, script.ErrUnknownCommand)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`steps:
  - op: insert
    offset: 0
    text: "SELECT * FROM t"
  - {op: Remove, offset: 7, length: 2}
  - op: range
    offset: 0
    end: 6
`)
	cmds, err := script.Load("edits.yaml", data)
	require.NoError(t, err)
	assert.Equal(t, []script.Command{
		{Op: script.OpInsert, Text: "SELECT * FROM t"},
		{Op: script.OpRemove, Offset: 7, Length: 2},
		{Op: script.OpRange, End: 6},
	}, cmds)

	out, err := script.MarshalYAML(cmds)
	require.NoError(t, err)
	again, err := script.ParseYAML(out)
	require.NoError(t, err)
	assert.Equal(t, cmds, again)
}

func TestParseYAMLErrors(t *testing.T) {
	t.Parallel()

	_, err := script.ParseYAML([]byte("steps:\n  - op: fly\n"))
	require.ErrorIs(t, err, script.ErrUnknownCommand)

	_, err = script.ParseYAML([]byte("steps:\n  - op: undo\n    color: red\n"))
	require.Error(t, err)

	cmds, err := script.ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestExec(t *testing.T) {
	t.Parallel()

	doc := newDoc("")

	steps := []struct {
		line string
		want string
	}{
		{`insert 0 "SELECT * FROM t"`, ""},
		{`text`, `"SELECT * FROM t"`},
		{`at 3`, `keyword    [0:6] "SELECT"`},
		{`at 6`, `keyword    [0:6] "SELECT"`},
		{`at 99`, "no token"},
		{`range 7 13`, "operator   [7:8] \"*\"\nkeyword    [9:13] \"FROM\""},
		{`range 6 7`, "no tokens"},
		{`tokens`, "SELECT * FROM t"},
		{`replace 7 1 "a"`, ""},
		{`status`, "15 bytes, 4 tokens, parse complete, undo true, redo false"},
		{`undo`, ""},
		{`text`, `"SELECT * FROM t"`},
		{`redo`, ""},
		{`redo`, "nothing to redo"},
		{`clear`, ""},
		{`undo`, "nothing to undo"},
		{`set "x"`, ""},
		{`text`, `"x"`},
	}

	for _, step := range steps {
		cmd, ok, err := script.Parse(step.line)
		require.NoError(t, err, step.line)
		require.True(t, ok, step.line)

		out, err := script.Exec(doc, cmd)
		require.NoError(t, err, step.line)
		assert.Equal(t, step.want, out, step.line)
	}
}

func TestExecInvalidEdit(t *testing.T) {
	t.Parallel()

	doc := newDoc("abc")
	_, err := script.Exec(doc, script.Command{Op: script.OpRemove, Offset: 2, Length: 5})
	require.ErrorIs(t, err, document.ErrInvalidRange)
	assert.Equal(t, "abc", doc.Text())
}

func TestRun(t *testing.T) {
	t.Parallel()

	cmds, err := script.ParseLines([]byte("insert 0 \"SELECT 1\"\nat 7\nremove 0 100\nat 0\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = script.NewExecutor(nil).Run(context.Background(), newDoc(""), cmds, &out)
	require.ErrorIs(t, err, document.ErrInvalidRange)
	assert.Contains(t, err.Error(), "step 3 (remove 0 100)")
	assert.Equal(t, "number     [7:8] \"1\"\n", out.String())
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := script.NewExecutor(nil).Run(ctx, newDoc(""), []script.Command{{Op: script.OpText}}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
