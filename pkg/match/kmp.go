package match

import "context"

// KMP is the Knuth-Morris-Pratt matcher. The prefix function makes the
// scan O(n+m) with no backtracking over the text.
type KMP struct {
	pattern       string
	folded        string
	lps           []int
	caseSensitive bool
}

// NewKMP creates a KMP matcher for a single pattern.
func NewKMP(pattern string, caseSensitive bool) *KMP {
	m := &KMP{caseSensitive: caseSensitive}
	m.UpdatePattern(pattern)
	return m
}

// UpdatePattern implements Matcher. The lps table is built into a local
// and assigned last, so a rebuild is never observable half-done.
func (m *KMP) UpdatePattern(pattern string) {
	folded := foldPattern(pattern, m.caseSensitive)
	lps := buildLPS(folded)
	m.pattern = pattern
	m.folded = folded
	m.lps = lps
}

// Pattern implements Matcher.
func (m *KMP) Pattern() string { return m.pattern }

// buildLPS computes the longest-proper-prefix-suffix table: lps[i] is the
// length of the longest proper prefix of pattern[:i+1] that is also a
// suffix of it. Invariant: lps[i] <= i.
func buildLPS(pattern string) []int {
	lps := make([]int, len(pattern))
	length := 0

	for i := 1; i < len(pattern); {
		if pattern[i] == pattern[length] {
			length++
			lps[i] = length
			i++
			continue
		}
		if length > 0 {
			// fall back through shorter borders, never advance i blindly
			length = lps[length-1]
			continue
		}
		lps[i] = 0
		i++
	}
	return lps
}

// FindAll implements Matcher.
func (m *KMP) FindAll(ctx context.Context, text string) ([]Match, error) {
	p := m.folded
	t := foldText(text, m.caseSensitive)
	if len(p) == 0 || len(p) > len(t) {
		return nil, nil
	}

	var matches []Match
	j := 0
	for i := 0; i < len(t); {
		if canceled(ctx) {
			return nil, ErrCanceled
		}
		if t[i] == p[j] {
			i++
			j++
			if j == len(p) {
				matches = append(matches, Match{Index: i - j, Length: len(p)})
				// continue through the border so overlaps are reported
				j = m.lps[j-1]
			}
			continue
		}
		if j > 0 {
			j = m.lps[j-1]
		} else {
			i++
		}
	}
	return matches, nil
}

// FindFirst implements Matcher.
func (m *KMP) FindFirst(ctx context.Context, text string) (Match, bool, error) {
	return firstOf(m, ctx, text)
}
