// Package diff computes line, word and character level differences via
// longest common subsequence, with a fuzzy pass that folds adjacent
// remove/add pairs into modifications when the two sides are similar
// enough.
package diff

import (
	"context"
	"strings"

	"github.com/bastiangx/editcore/internal/textutil"
)

// Type classifies one diff entry.
type Type string

const (
	Unchanged Type = "unchanged"
	Added     Type = "added"
	Removed   Type = "removed"
	Modified  Type = "modified"
)

// DefaultSimilarityThreshold is the minimum normalized similarity for a
// remove/add pair to collapse into a modification.
const DefaultSimilarityThreshold = 0.3

// shortLineLen: lines shorter than this always pair up, since similarity
// ratios on one or two characters are too coarse to mean anything.
const shortLineLen = 3

// Line is one entry of a line diff. Line numbers are 1-based; a side that
// does not participate carries number 0 and an empty line.
type Line struct {
	LeftLine    string  `json:"leftLine" msgpack:"l"`
	RightLine   string  `json:"rightLine" msgpack:"r"`
	LeftNumber  int     `json:"leftNumber" msgpack:"ln"`
	RightNumber int     `json:"rightNumber" msgpack:"rn"`
	Type        Type    `json:"type" msgpack:"t"`
	Similarity  float64 `json:"similarity,omitempty" msgpack:"s,omitempty"`
}

// Stats counts diff entries by type. Unchanged equals the length of the
// longest common subsequence of the two line slices.
type Stats struct {
	Unchanged int `json:"unchanged" msgpack:"u"`
	Added     int `json:"added" msgpack:"a"`
	Removed   int `json:"removed" msgpack:"r"`
	Modified  int `json:"modified" msgpack:"m"`
}

// Result is a finished line diff.
type Result struct {
	Lines []Line `json:"lines" msgpack:"l"`
	Stats Stats  `json:"stats" msgpack:"s"`
}

// Span is one entry of a word or character diff, adjacent entries of the
// same type coalesced.
type Span struct {
	Text string `json:"text" msgpack:"x"`
	Type Type   `json:"type" msgpack:"t"`
}

// Engine computes diffs. The zero threshold means the default.
type Engine struct {
	threshold float64
}

// NewEngine returns an engine with the default similarity threshold.
func NewEngine() *Engine {
	return NewEngineWithThreshold(DefaultSimilarityThreshold)
}

// NewEngineWithThreshold returns an engine that folds remove/add pairs
// into modifications when their similarity exceeds threshold.
func NewEngineWithThreshold(threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Engine{threshold: threshold}
}

// Lines diffs two texts line by line. The context is checked once per DP
// row, so cancellation lands within one row of work.
func (e *Engine) Lines(ctx context.Context, left, right string) (*Result, error) {
	leftLines := splitLines(left)
	rightLines := splitLines(right)

	ops, err := editScript(ctx, leftLines, rightLines)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	leftNo, rightNo := 0, 0
	for _, op := range ops {
		switch op.typ {
		case Unchanged:
			leftNo++
			rightNo++
			res.Lines = append(res.Lines, Line{
				LeftLine:    leftLines[op.a],
				RightLine:   rightLines[op.b],
				LeftNumber:  leftNo,
				RightNumber: rightNo,
				Type:        Unchanged,
			})
			res.Stats.Unchanged++
		case Removed:
			leftNo++
			res.Lines = append(res.Lines, Line{
				LeftLine:   leftLines[op.a],
				LeftNumber: leftNo,
				Type:       Removed,
			})
			res.Stats.Removed++
		case Added:
			rightNo++
			res.Lines = append(res.Lines, Line{
				RightLine:   rightLines[op.b],
				RightNumber: rightNo,
				Type:        Added,
			})
			res.Stats.Added++
		}
	}

	e.mergeModified(res)
	return res, nil
}

// mergeModified rewrites adjacent removed/added runs: the i-th removal of
// a run pairs with the i-th addition, and a pair collapses into one
// modified entry when the lines are similar enough or both very short.
func (e *Engine) mergeModified(res *Result) {
	var out []Line
	i := 0
	for i < len(res.Lines) {
		if res.Lines[i].Type != Removed {
			out = append(out, res.Lines[i])
			i++
			continue
		}

		runStart := i
		for i < len(res.Lines) && res.Lines[i].Type == Removed {
			i++
		}
		removed := res.Lines[runStart:i]

		addStart := i
		for i < len(res.Lines) && res.Lines[i].Type == Added {
			i++
		}
		added := res.Lines[addStart:i]

		pairs := len(removed)
		if len(added) < pairs {
			pairs = len(added)
		}

		var leftoverRemoved, leftoverAdded []Line
		for k := 0; k < len(removed); k++ {
			if k >= pairs {
				leftoverRemoved = append(leftoverRemoved, removed[k])
				continue
			}
			l, r := removed[k], added[k]
			sim := textutil.Similarity(l.LeftLine, r.RightLine)
			short := maxLen(l.LeftLine, r.RightLine) < shortLineLen
			if sim > e.threshold || short {
				out = append(out, Line{
					LeftLine:    l.LeftLine,
					RightLine:   r.RightLine,
					LeftNumber:  l.LeftNumber,
					RightNumber: r.RightNumber,
					Type:        Modified,
					Similarity:  sim,
				})
				res.Stats.Removed--
				res.Stats.Added--
				res.Stats.Modified++
			} else {
				leftoverRemoved = append(leftoverRemoved, l)
				leftoverAdded = append(leftoverAdded, r)
			}
		}
		for k := pairs; k < len(added); k++ {
			leftoverAdded = append(leftoverAdded, added[k])
		}
		out = append(out, leftoverRemoved...)
		out = append(out, leftoverAdded...)
	}
	res.Lines = out
}

// Words diffs two texts token by token, splitting on whitespace.
func (e *Engine) Words(ctx context.Context, left, right string) ([]Span, error) {
	return e.spans(ctx, strings.Fields(left), strings.Fields(right), " ")
}

// Characters diffs two texts rune by rune.
func (e *Engine) Characters(ctx context.Context, left, right string) ([]Span, error) {
	return e.spans(ctx, explode(left), explode(right), "")
}

func (e *Engine) spans(ctx context.Context, a, b []string, sep string) ([]Span, error) {
	ops, err := editScript(ctx, a, b)
	if err != nil {
		return nil, err
	}

	var out []Span
	for _, op := range ops {
		var text string
		switch op.typ {
		case Unchanged, Removed:
			text = a[op.a]
		case Added:
			text = b[op.b]
		}
		if n := len(out); n > 0 && out[n-1].Type == op.typ {
			out[n-1].Text += sep + text
			continue
		}
		out = append(out, Span{Text: text, Type: op.typ})
	}
	return out, nil
}

type op struct {
	typ  Type
	a, b int
}

// editScript runs the LCS dynamic program and backtracks into an ordered
// op list. Ties between deletion and insertion resolve toward deletion,
// so removals always precede the additions they line up with.
func editScript(ctx context.Context, a, b []string) ([]op, error) {
	n, m := len(a), len(b)

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	ops := make([]op, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			ops = append(ops, op{typ: Unchanged, a: i - 1, b: j - 1})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			// additions first here comes out as removals first once the
			// script is reversed below
			ops = append(ops, op{typ: Added, b: j - 1})
			j--
		default:
			ops = append(ops, op{typ: Removed, a: i - 1})
			i--
		}
	}

	// reverse into document order
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops, nil
}

// splitLines splits on newlines; an empty text has no lines at all rather
// than one empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func explode(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func maxLen(a, b string) int {
	if len(a) > len(b) {
		return len(a)
	}
	return len(b)
}
