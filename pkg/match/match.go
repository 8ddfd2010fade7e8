// Package match implements the substring search engines used by the editor
// core: Knuth-Morris-Pratt, Boyer-Moore, multi-pattern Rabin-Karp, an
// Aho-Corasick automaton and a suffix array with LCP support.
//
// All matchers are built once per pattern set and reused across searches.
// Offsets are 0-based code-unit (byte) positions into the searched text,
// matches come back in strictly increasing index order, and overlapping
// matches are reported. An empty pattern or a pattern longer than the text
// yields an empty result, never an error.
//
// Searches accept a context and check it at outer-loop boundaries so a
// caller can abandon a superseded request; a canceled search returns
// ErrCanceled. Matchers are safe for repeated reads from one goroutine;
// callers must serialize UpdatePattern/AddPattern against reads.
package match

import (
	"context"
	"errors"
	"sort"
)

// ErrCanceled is returned when a search is abandoned via its context.
var ErrCanceled = errors.New("match: search canceled")

// Match is a single occurrence of a pattern in the searched text.
type Match struct {
	Index  int `json:"index" msgpack:"i"`
	Length int `json:"length" msgpack:"l"`
}

// PatternMatch is an occurrence reported by a multi-pattern matcher.
// Pattern is the index of the matched pattern in construction order.
type PatternMatch struct {
	Match
	Pattern int `json:"pattern" msgpack:"p"`
}

// Matcher is the contract shared by the single-pattern engines.
type Matcher interface {
	// FindAll returns every occurrence in increasing index order.
	FindAll(ctx context.Context, text string) ([]Match, error)
	// FindFirst returns the first occurrence, if any.
	FindFirst(ctx context.Context, text string) (Match, bool, error)
	// UpdatePattern swaps the pattern in place. Derived tables are rebuilt
	// before the call returns; a search never observes partial state.
	UpdatePattern(pattern string)
	// Pattern returns the pattern as given at construction or last update.
	Pattern() string
}

// MultiMatcher is the contract shared by Rabin-Karp and Aho-Corasick.
type MultiMatcher interface {
	// FindAll reports one match per (position, pattern) pair, ordered by
	// index, then by pattern.
	FindAll(ctx context.Context, text string) ([]PatternMatch, error)
	FindFirst(ctx context.Context, text string) (PatternMatch, bool, error)
	// AddPattern extends the pattern set. Rebuild is all-or-nothing.
	AddPattern(pattern string)
	Patterns() []string
}

// Algorithm names a search engine for dispatch at the request boundary.
type Algorithm string

const (
	AlgoNaive       Algorithm = "naive"
	AlgoKMP         Algorithm = "kmp"
	AlgoBoyerMoore  Algorithm = "boyer-moore"
	AlgoRabinKarp   Algorithm = "rabin-karp"
	AlgoAhoCorasick Algorithm = "aho-corasick"
	AlgoSuffixArray Algorithm = "suffix-array"
)

// ErrUnknownAlgorithm is returned by New for an unrecognized name.
var ErrUnknownAlgorithm = errors.New("match: unknown algorithm")

// New builds a single-pattern matcher by algorithm name. Multi-pattern
// engines and the suffix array have their own constructors; requesting one
// here wraps it for single-pattern use.
func New(algo Algorithm, pattern string, caseSensitive bool) (Matcher, error) {
	switch algo {
	case AlgoNaive, "":
		return NewNaive(pattern, caseSensitive), nil
	case AlgoKMP:
		return NewKMP(pattern, caseSensitive), nil
	case AlgoBoyerMoore:
		return NewBoyerMoore(pattern, caseSensitive), nil
	case AlgoRabinKarp:
		return &singleFromMulti{build: func(p string) MultiMatcher {
			return NewRabinKarp([]string{p}, caseSensitive)
		}, pattern: pattern}, nil
	case AlgoAhoCorasick:
		return &singleFromMulti{build: func(p string) MultiMatcher {
			return NewAhoCorasick([]string{p}, caseSensitive)
		}, pattern: pattern}, nil
	case AlgoSuffixArray:
		return &suffixSingle{pattern: pattern, caseSensitive: caseSensitive}, nil
	}
	return nil, ErrUnknownAlgorithm
}

// suffixSingle adapts the per-text suffix array to the per-pattern Matcher
// contract. The index is rebuilt on every search, so this path only pays
// off when the caller searches the same text through SuffixArray directly;
// it exists so every Algorithm name dispatches.
type suffixSingle struct {
	pattern       string
	caseSensitive bool
}

func (s *suffixSingle) FindAll(ctx context.Context, text string) ([]Match, error) {
	sa := NewSuffixArray(foldText(text, s.caseSensitive))
	return sa.FindAll(ctx, foldPattern(s.pattern, s.caseSensitive))
}

func (s *suffixSingle) FindFirst(ctx context.Context, text string) (Match, bool, error) {
	return firstOf(s, ctx, text)
}

func (s *suffixSingle) UpdatePattern(pattern string) { s.pattern = pattern }

func (s *suffixSingle) Pattern() string { return s.pattern }

// singleFromMulti adapts a multi-pattern engine to the Matcher contract.
type singleFromMulti struct {
	build   func(pattern string) MultiMatcher
	pattern string
	inner   MultiMatcher
}

func (s *singleFromMulti) matcher() MultiMatcher {
	if s.inner == nil {
		s.inner = s.build(s.pattern)
	}
	return s.inner
}

func (s *singleFromMulti) FindAll(ctx context.Context, text string) ([]Match, error) {
	pms, err := s.matcher().FindAll(ctx, text)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(pms))
	for i, pm := range pms {
		matches[i] = pm.Match
	}
	return matches, nil
}

func (s *singleFromMulti) FindFirst(ctx context.Context, text string) (Match, bool, error) {
	pm, ok, err := s.matcher().FindFirst(ctx, text)
	return pm.Match, ok, err
}

func (s *singleFromMulti) UpdatePattern(pattern string) {
	s.pattern = pattern
	s.inner = s.build(pattern)
}

func (s *singleFromMulti) Pattern() string { return s.pattern }

// Naive is the straightforward window-compare scan. It doubles as the
// equivalence oracle for the other engines in tests.
type Naive struct {
	pattern       string
	folded        string
	caseSensitive bool
}

// NewNaive creates a naive scan matcher.
func NewNaive(pattern string, caseSensitive bool) *Naive {
	n := &Naive{caseSensitive: caseSensitive}
	n.UpdatePattern(pattern)
	return n
}

// UpdatePattern implements Matcher.
func (n *Naive) UpdatePattern(pattern string) {
	n.pattern = pattern
	n.folded = foldPattern(pattern, n.caseSensitive)
}

// Pattern implements Matcher.
func (n *Naive) Pattern() string { return n.pattern }

// FindAll implements Matcher.
func (n *Naive) FindAll(ctx context.Context, text string) ([]Match, error) {
	p := n.folded
	t := foldText(text, n.caseSensitive)
	if len(p) == 0 || len(p) > len(t) {
		return nil, nil
	}

	var matches []Match
	for i := 0; i+len(p) <= len(t); i++ {
		if canceled(ctx) {
			return nil, ErrCanceled
		}
		if t[i:i+len(p)] == p {
			matches = append(matches, Match{Index: i, Length: len(p)})
		}
	}
	return matches, nil
}

// FindFirst implements Matcher.
func (n *Naive) FindFirst(ctx context.Context, text string) (Match, bool, error) {
	return firstOf(n, ctx, text)
}

// firstOf derives FindFirst from FindAll for engines whose scan is already
// linear; the suffix array and Boyer-Moore short-circuit on their own.
func firstOf(m Matcher, ctx context.Context, text string) (Match, bool, error) {
	matches, err := m.FindAll(ctx, text)
	if err != nil || len(matches) == 0 {
		return Match{}, false, err
	}
	return matches[0], true, nil
}

// foldPattern prepares a pattern for matching under the given case mode.
func foldPattern(pattern string, caseSensitive bool) string {
	if caseSensitive {
		return pattern
	}
	return asciiFold(pattern)
}

// foldText prepares the search text. The caller's string is never mutated;
// folding allocates a copy only when needed.
func foldText(text string, caseSensitive bool) string {
	if caseSensitive {
		return text
	}
	return asciiFold(text)
}

// asciiFold lowercases A-Z only. Folding is byte-preserving so offsets into
// the folded copy line up with the original text.
func asciiFold(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// canceled polls the context without blocking.
func canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// sortPatternMatches orders multi-pattern results by index, then pattern.
func sortPatternMatches(matches []PatternMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Index != matches[j].Index {
			return matches[i].Index < matches[j].Index
		}
		return matches[i].Pattern < matches[j].Pattern
	})
}
