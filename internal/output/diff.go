package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult holds a line-level comparison of expected and actual text.
type DiffResult struct {
	Expected   string  `json:"expected"`
	Actual     string  `json:"actual"`
	Equal      bool    `json:"equal"`
	Added      int     `json:"added"`
	Removed    int     `json:"removed"`
	Similarity float64 `json:"similarity"`
	Hunks      []Hunk  `json:"hunks,omitempty"`
}

// Hunk is one changed line; Op is "+" or "-".
type Hunk struct {
	Op   string `json:"op"`
	Line string `json:"line"`
}

// ComputeDiff compares want against got line by line. The labels name the
// two sides in the written diff.
func ComputeDiff(expectedLabel, want, actualLabel, got string) *DiffResult {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	r := &DiffResult{Expected: expectedLabel, Actual: actualLabel, Equal: want == got}
	for _, d := range diffs {
		var op string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = "+"
		case diffmatchpatch.DiffDelete:
			op = "-"
		default:
			continue
		}
		for _, line := range splitLines(d.Text) {
			r.Hunks = append(r.Hunks, Hunk{Op: op, Line: line})
			if op == "+" {
				r.Added++
			} else {
				r.Removed++
			}
		}
	}

	maxLen := max(len(want), len(got))
	r.Similarity = 1
	if maxLen > 0 {
		r.Similarity = 1 - float64(dmp.DiffLevenshtein(dmp.DiffMain(want, got, false)))/float64(maxLen)
	}
	return r
}

// Write prints the changed lines with ---/+++ labels.
func (d *DiffResult) Write(w io.Writer) {
	if d.Equal {
		return
	}
	fmt.Fprintf(w, "--- %s\n+++ %s\n", d.Expected, d.Actual)
	for _, h := range d.Hunks {
		fmt.Fprintf(w, "%s%s\n", h.Op, h.Line)
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
