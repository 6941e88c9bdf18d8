package edit

import (
	"fmt"
	"strings"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// LineDiff is a unified line diff between two versions of a text.
type LineDiff struct {
	Path    string
	Hunks   []Hunk
	Added   int
	Removed int
}

// Hunk is one "@@" section of a unified diff. Starts are 1-based.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []DiffLine
}

// DiffLine is one line of a hunk. Op is ' ', '+' or '-'.
type DiffLine struct {
	Op   byte
	Text string
}

// DiffLines compares before and after line by line. It returns nil when
// they have the same lines.
func DiffLines(path, before, after string) *LineDiff {
	if before == after {
		return nil
	}

	ops := lineOps(splitLines(before), splitLines(after))
	d := &LineDiff{Path: path, Hunks: group(ops)}
	if len(d.Hunks) == 0 {
		return nil
	}
	for _, op := range ops {
		switch op.Op {
		case '+':
			d.Added++
		case '-':
			d.Removed++
		}
	}
	return d
}

// String renders the diff in unified format.
func (d *LineDiff) String() string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", d.Path, d.Path)
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, line := range h.Lines {
			b.WriteByte(line.Op)
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Header returns the "@@ -a,b +c,d @@" line. An empty side is numbered
// from the line before it, as diff(1) does.
func (h Hunk) Header() string {
	oldStart, newStart := h.OldStart, h.NewStart
	if h.OldLines == 0 {
		oldStart--
	}
	if h.NewLines == 0 {
		newStart--
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, h.OldLines, newStart, h.NewLines)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineOps walks a longest-common-subsequence table forward, preferring
// removals before additions at each change.
func lineOps(a, b []string) []DiffLine {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, DiffLine{Op: ' ', Text: a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, DiffLine{Op: '-', Text: a[i]})
			i++
		default:
			ops = append(ops, DiffLine{Op: '+', Text: b[j]})
			j++
		}
	}
	return ops
}

// group cuts ops into hunks, merging changes separated by at most twice
// the context.
func group(ops []DiffLine) []Hunk {
	type lineNo struct{ old, new int }
	at := make([]lineNo, len(ops)+1)
	cur := lineNo{1, 1}
	for k, op := range ops {
		at[k] = cur
		if op.Op != '+' {
			cur.old++
		}
		if op.Op != '-' {
			cur.new++
		}
	}
	at[len(ops)] = cur

	var hunks []Hunk
	for k := 0; k < len(ops); {
		if ops[k].Op == ' ' {
			k++
			continue
		}

		start := max(0, k-diffContext)
		end := k
		for end < len(ops) {
			if ops[end].Op != ' ' {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Op == ' ' {
				run++
			}
			if run == len(ops) || run-end > 2*diffContext {
				break
			}
			end = run
		}
		stop := min(len(ops), end+diffContext)

		hunks = append(hunks, Hunk{
			OldStart: at[start].old,
			OldLines: at[stop].old - at[start].old,
			NewStart: at[start].new,
			NewLines: at[stop].new - at[start].new,
			Lines:    ops[start:stop],
		})
		k = stop
	}
	return hunks
}
