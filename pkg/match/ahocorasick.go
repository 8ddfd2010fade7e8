package match

import "context"

// acNode is one automaton state. Nodes live in a flat arena and refer to
// each other by index, which keeps the structure relocatable and lets the
// failure graph share the node set without native pointers.
type acNode struct {
	next   map[byte]int32
	fail   int32
	depth  int32
	output []int32 // pattern indices matching when this state is reached
}

// AhoCorasick matches a pattern set in a single pass over the text. The
// automaton is a trie over all patterns with BFS-built failure links;
// outputs are unioned down the failure chain during construction, so the
// scan is O(n + m + z) where z is the number of reported matches.
type AhoCorasick struct {
	nodes         []acNode
	patterns      []string
	folded        []string
	caseSensitive bool
}

// NewAhoCorasick builds the automaton for the given pattern set.
func NewAhoCorasick(patterns []string, caseSensitive bool) *AhoCorasick {
	m := &AhoCorasick{caseSensitive: caseSensitive}
	m.rebuild(patterns)
	return m
}

// AddPattern implements MultiMatcher. The automaton does not extend
// incrementally; a full rebuild replaces the arena in one assignment, so
// no partially built automaton is ever queried.
func (m *AhoCorasick) AddPattern(pattern string) {
	next := make([]string, len(m.patterns), len(m.patterns)+1)
	copy(next, m.patterns)
	m.rebuild(append(next, pattern))
}

// Patterns implements MultiMatcher.
func (m *AhoCorasick) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

func (m *AhoCorasick) rebuild(patterns []string) {
	folded := make([]string, len(patterns))
	nodes := []acNode{{next: make(map[byte]int32)}} // root at index 0

	for i, p := range patterns {
		folded[i] = foldPattern(p, m.caseSensitive)
		if len(folded[i]) == 0 {
			continue
		}
		state := int32(0)
		for j := 0; j < len(folded[i]); j++ {
			c := folded[i][j]
			child, ok := nodes[state].next[c]
			if !ok {
				nodes = append(nodes, acNode{
					next:  make(map[byte]int32),
					depth: nodes[state].depth + 1,
				})
				child = int32(len(nodes) - 1)
				nodes[state].next[c] = child
			}
			state = child
		}
		nodes[state].output = append(nodes[state].output, int32(i))
	}

	// BFS over depth: children of the root fail to the root, deeper nodes
	// follow the parent's failure chain. Outputs are merged top-down in the
	// same pass.
	queue := make([]int32, 0, len(nodes))
	for _, child := range nodes[0].next {
		nodes[child].fail = 0
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for c, child := range nodes[curr].next {
			queue = append(queue, child)

			fail := nodes[curr].fail
			for fail != 0 {
				if next, ok := nodes[fail].next[c]; ok {
					fail = next
					break
				}
				fail = nodes[fail].fail
			}
			if fail == 0 {
				if next, ok := nodes[0].next[c]; ok && next != child {
					fail = next
				}
			}
			nodes[child].fail = fail
			nodes[child].output = append(nodes[child].output, nodes[fail].output...)
		}
	}

	m.patterns = patterns
	m.folded = folded
	m.nodes = nodes
}

// FindAll implements MultiMatcher.
func (m *AhoCorasick) FindAll(ctx context.Context, text string) ([]PatternMatch, error) {
	t := foldText(text, m.caseSensitive)

	var matches []PatternMatch
	state := int32(0)
	for i := 0; i < len(t); i++ {
		if canceled(ctx) {
			return nil, ErrCanceled
		}
		state = m.step(state, t[i])
		for _, pidx := range m.nodes[state].output {
			length := len(m.folded[pidx])
			matches = append(matches, PatternMatch{
				Match:   Match{Index: i - length + 1, Length: length},
				Pattern: int(pidx),
			})
		}
	}

	sortPatternMatches(matches)
	return matches, nil
}

// FindFirst implements MultiMatcher. Walks until the first output state.
func (m *AhoCorasick) FindFirst(ctx context.Context, text string) (PatternMatch, bool, error) {
	t := foldText(text, m.caseSensitive)

	best := PatternMatch{Match: Match{Index: -1}}
	state := int32(0)
	for i := 0; i < len(t); i++ {
		if canceled(ctx) {
			return PatternMatch{}, false, ErrCanceled
		}
		state = m.step(state, t[i])
		for _, pidx := range m.nodes[state].output {
			length := len(m.folded[pidx])
			start := i - length + 1
			if best.Index < 0 || start < best.Index ||
				(start == best.Index && int(pidx) < best.Pattern) {
				best = PatternMatch{
					Match:   Match{Index: start, Length: length},
					Pattern: int(pidx),
				}
			}
		}
		// a match ending here can only be preceded by one starting earlier
		// if some longer pattern ends later; keep scanning one more window
		if best.Index >= 0 && i >= best.Index+m.maxDepth() {
			break
		}
	}
	if best.Index < 0 {
		return PatternMatch{}, false, nil
	}
	return best, true, nil
}

func (m *AhoCorasick) step(state int32, c byte) int32 {
	for state != 0 {
		if next, ok := m.nodes[state].next[c]; ok {
			return next
		}
		state = m.nodes[state].fail
	}
	if next, ok := m.nodes[0].next[c]; ok {
		return next
	}
	return 0
}

func (m *AhoCorasick) maxDepth() int {
	longest := 0
	for _, p := range m.folded {
		if len(p) > longest {
			longest = len(p)
		}
	}
	return longest
}
