package match

import "context"

// BoyerMoore matches a single pattern using both the bad-character and
// good-suffix rules. Windows are compared right to left; the two heuristics
// combine into the largest safe shift.
type BoyerMoore struct {
	pattern       string
	folded        string
	badChar       [256]int // last index of each byte in the pattern, -1 if absent
	goodSuffix    []int    // length m+1, shift for a mismatch after matching suffix
	caseSensitive bool
}

// NewBoyerMoore creates a Boyer-Moore matcher for a single pattern.
func NewBoyerMoore(pattern string, caseSensitive bool) *BoyerMoore {
	m := &BoyerMoore{caseSensitive: caseSensitive}
	m.UpdatePattern(pattern)
	return m
}

// UpdatePattern implements Matcher. Both tables are rebuilt into locals
// before being installed.
func (m *BoyerMoore) UpdatePattern(pattern string) {
	folded := foldPattern(pattern, m.caseSensitive)

	var bad [256]int
	for i := range bad {
		bad[i] = -1
	}
	for i := 0; i < len(folded); i++ {
		bad[folded[i]] = i
	}
	good := buildGoodSuffix(folded)

	m.pattern = pattern
	m.folded = folded
	m.badChar = bad
	m.goodSuffix = good
}

// Pattern implements Matcher.
func (m *BoyerMoore) Pattern() string { return m.pattern }

// buildGoodSuffix derives the good-suffix shift table from the pattern's
// border structure. First pass records shifts from borders of suffixes,
// second pass propagates the prefix-as-suffix case.
func buildGoodSuffix(pattern string) []int {
	m := len(pattern)
	shift := make([]int, m+1)
	border := make([]int, m+1)

	i, j := m, m+1
	border[i] = j
	for i > 0 {
		for j <= m && pattern[i-1] != pattern[j-1] {
			if shift[j] == 0 {
				shift[j] = j - i
			}
			j = border[j]
		}
		i--
		j--
		border[i] = j
	}

	j = border[0]
	for i = 0; i <= m; i++ {
		if shift[i] == 0 {
			shift[i] = j
		}
		if i == j {
			j = border[j]
		}
	}
	return shift
}

// FindAll implements Matcher.
func (m *BoyerMoore) FindAll(ctx context.Context, text string) ([]Match, error) {
	return m.scan(ctx, text, false)
}

// FindFirst implements Matcher. Stops at the first window that matches.
func (m *BoyerMoore) FindFirst(ctx context.Context, text string) (Match, bool, error) {
	matches, err := m.scan(ctx, text, true)
	if err != nil || len(matches) == 0 {
		return Match{}, false, err
	}
	return matches[0], true, nil
}

func (m *BoyerMoore) scan(ctx context.Context, text string, firstOnly bool) ([]Match, error) {
	p := m.folded
	t := foldText(text, m.caseSensitive)
	n, pl := len(t), len(p)
	if pl == 0 || pl > n {
		return nil, nil
	}

	var matches []Match
	shift := 0
	for shift <= n-pl {
		if canceled(ctx) {
			return nil, ErrCanceled
		}
		j := pl - 1
		for j >= 0 && p[j] == t[shift+j] {
			j--
		}
		if j < 0 {
			matches = append(matches, Match{Index: shift, Length: pl})
			if firstOnly {
				return matches, nil
			}
			shift += m.goodSuffix[0]
			continue
		}
		bcShift := j - m.badChar[t[shift+j]]
		gsShift := m.goodSuffix[j+1]
		step := bcShift
		if gsShift > step {
			step = gsShift
		}
		if step < 1 {
			step = 1
		}
		shift += step
	}
	return matches, nil
}
