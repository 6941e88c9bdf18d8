package edit_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntaxdoc/pkg/edit"
)

func numbered(n int, change func(i int) string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		line := fmt.Sprintf("l%d", i)
		if change != nil {
			line = change(i)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func TestDiffLinesIdentical(t *testing.T) {
	t.Parallel()

	assert.Nil(t, edit.DiffLines("q.sql", "", ""))
	assert.Nil(t, edit.DiffLines("q.sql", "SELECT 1\n", "SELECT 1\n"))
	assert.Empty(t, (*edit.LineDiff)(nil).String())
}

func TestDiffLinesSingleChange(t *testing.T) {
	t.Parallel()

	d := edit.DiffLines("q.sql", "SELECT a\nFROM t\n", "SELECT b\nFROM t\n")
	require.NotNil(t, d)
	assert.Equal(t, 1, d.Added)
	assert.Equal(t, 1, d.Removed)
	assert.Equal(t, `--- a/q.sql
+++ b/q.sql
@@ -1,2 +1,2 @@
-SELECT a
+SELECT b
 FROM t
`, d.String())
}

func TestDiffLinesFromEmpty(t *testing.T) {
	t.Parallel()

	d := edit.DiffLines("new.sql", "", "SELECT 1\n")
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, "@@ -0,0 +1,1 @@", d.Hunks[0].Header())
	assert.Equal(t, 1, d.Added)
	assert.Zero(t, d.Removed)
}

func TestDiffLinesHunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changed map[int]bool
		headers []string
	}{
		{
			name:    "distant changes split",
			changed: map[int]bool{2: true, 18: true},
			headers: []string{"@@ -1,5 +1,5 @@", "@@ -15,6 +15,6 @@"},
		},
		{
			name:    "nearby changes merge",
			changed: map[int]bool{2: true, 6: true},
			headers: []string{"@@ -1,9 +1,9 @@"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			before := numbered(20, nil)
			after := numbered(20, func(i int) string {
				if tc.changed[i] {
					return fmt.Sprintf("L%d", i)
				}
				return fmt.Sprintf("l%d", i)
			})

			d := edit.DiffLines("f.sql", before, after)
			require.NotNil(t, d)

			headers := make([]string, 0, len(d.Hunks))
			for _, h := range d.Hunks {
				headers = append(headers, h.Header())
			}
			assert.Equal(t, tc.headers, headers)
			assert.Equal(t, len(tc.changed), d.Added)
			assert.Equal(t, len(tc.changed), d.Removed)
		})
	}
}
