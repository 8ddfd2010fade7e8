package match

import "context"

// Rolling hash defaults. The modulus is a large prime rather than a toy
// value so false positives stay rare on big texts; both are construction
// parameters. The modulus must stay below 1<<56/base so the rolling update
// never overflows uint64.
const (
	DefaultHashBase    uint64 = 256
	DefaultHashModulus uint64 = 2147483647 // 2^31 - 1, prime
)

// rkGroup holds the patterns of one length. Only equal-length patterns can
// collide under a single window size, so each group rolls its own hash.
type rkGroup struct {
	length int
	pow    uint64             // base^(length-1) mod modulus
	byHash map[uint64][]int32 // window hash -> candidate pattern indices
}

// RabinKarp is the multi-pattern rolling-hash matcher. Hash hits are always
// verified by direct comparison before being reported.
type RabinKarp struct {
	patterns      []string
	folded        []string
	groups        []*rkGroup
	base          uint64
	modulus       uint64
	caseSensitive bool
}

// NewRabinKarp creates a matcher over the given pattern set with the
// default base and modulus.
func NewRabinKarp(patterns []string, caseSensitive bool) *RabinKarp {
	return NewRabinKarpWithParams(patterns, caseSensitive, DefaultHashBase, DefaultHashModulus)
}

// NewRabinKarpWithParams creates a matcher with a caller-chosen rolling
// hash base and modulus. Unusable parameters (base 0, modulus below 2)
// fall back to the defaults; these can arrive from a config file and must
// never make hash computation divide by zero.
func NewRabinKarpWithParams(patterns []string, caseSensitive bool, base, modulus uint64) *RabinKarp {
	if base < 1 {
		base = DefaultHashBase
	}
	if modulus < 2 {
		modulus = DefaultHashModulus
	}
	m := &RabinKarp{
		base:          base,
		modulus:       modulus,
		caseSensitive: caseSensitive,
	}
	m.rebuild(patterns)
	return m
}

// AddPattern implements MultiMatcher. The group tables are rebuilt from
// scratch; the previous tables stay live until the new ones are installed.
func (m *RabinKarp) AddPattern(pattern string) {
	next := make([]string, len(m.patterns), len(m.patterns)+1)
	copy(next, m.patterns)
	m.rebuild(append(next, pattern))
}

// Patterns implements MultiMatcher.
func (m *RabinKarp) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

func (m *RabinKarp) rebuild(patterns []string) {
	folded := make([]string, len(patterns))
	byLen := make(map[int]*rkGroup)
	var groups []*rkGroup

	for i, p := range patterns {
		folded[i] = foldPattern(p, m.caseSensitive)
		if len(p) == 0 {
			continue
		}
		g, ok := byLen[len(p)]
		if !ok {
			g = &rkGroup{
				length: len(p),
				pow:    m.power(len(p) - 1),
				byHash: make(map[uint64][]int32),
			}
			byLen[len(p)] = g
			groups = append(groups, g)
		}
		h := m.hash(folded[i])
		g.byHash[h] = append(g.byHash[h], int32(i))
	}

	m.patterns = patterns
	m.folded = folded
	m.groups = groups
}

func (m *RabinKarp) hash(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = (h*m.base + uint64(s[i])) % m.modulus
	}
	return h
}

func (m *RabinKarp) power(exp int) uint64 {
	p := uint64(1)
	for i := 0; i < exp; i++ {
		p = (p * m.base) % m.modulus
	}
	return p
}

// FindAll implements MultiMatcher.
func (m *RabinKarp) FindAll(ctx context.Context, text string) ([]PatternMatch, error) {
	t := foldText(text, m.caseSensitive)

	var matches []PatternMatch
	for _, g := range m.groups {
		if g.length > len(t) {
			continue
		}
		h := m.hash(t[:g.length])
		for i := 0; ; i++ {
			if canceled(ctx) {
				return nil, ErrCanceled
			}
			if candidates, ok := g.byHash[h]; ok {
				window := t[i : i+g.length]
				for _, pidx := range candidates {
					// direct comparison rejects hash collisions
					if window == m.folded[pidx] {
						matches = append(matches, PatternMatch{
							Match:   Match{Index: i, Length: g.length},
							Pattern: int(pidx),
						})
					}
				}
			}
			if i+g.length >= len(t) {
				break
			}
			h = (h + m.modulus - (g.pow*uint64(t[i]))%m.modulus) % m.modulus
			h = (h*m.base + uint64(t[i+g.length])) % m.modulus
		}
	}

	sortPatternMatches(matches)
	return matches, nil
}

// FindFirst implements MultiMatcher.
func (m *RabinKarp) FindFirst(ctx context.Context, text string) (PatternMatch, bool, error) {
	matches, err := m.FindAll(ctx, text)
	if err != nil || len(matches) == 0 {
		return PatternMatch{}, false, err
	}
	return matches[0], true, nil
}
