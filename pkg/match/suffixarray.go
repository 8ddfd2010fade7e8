package match

import (
	"context"
	"sort"
)

// SuffixArray indexes one text for repeated pattern queries. Unlike the
// other engines it is built per text, not per pattern: construction sorts
// all suffixes by prefix doubling, then Kasai's algorithm derives the LCP
// array in a single rank-based pass.
type SuffixArray struct {
	text string
	sa   []int // len(text)+1 entries; sa[0] is the empty sentinel suffix
	lcp  []int // lcp[i] = common prefix length of suffixes sa[i] and sa[i+1]
	rank []int // rank[i] = position of suffix i in sa
}

// NewSuffixArray builds the suffix array and LCP array for text.
func NewSuffixArray(text string) *SuffixArray {
	n := len(text)
	s := &SuffixArray{text: text}
	if n == 0 {
		s.sa = []int{0}
		s.lcp = []int{}
		s.rank = []int{}
		return s
	}

	sa := make([]int, n)
	rank := make([]int, n)
	for i := 0; i < n; i++ {
		sa[i] = i
		rank[i] = int(text[i])
	}

	// Prefix doubling: sort by (rank[i], rank[i+k]) pairs, doubling k until
	// every suffix has a unique rank or k exceeds the text.
	tmp := make([]int, n)
	for k := 1; k < n; k *= 2 {
		rankAt := func(i int) int {
			if i < n {
				return rank[i]
			}
			return -1
		}
		sort.Slice(sa, func(a, b int) bool {
			if rank[sa[a]] != rank[sa[b]] {
				return rank[sa[a]] < rank[sa[b]]
			}
			return rankAt(sa[a]+k) < rankAt(sa[b]+k)
		})

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			if rank[sa[i-1]] != rank[sa[i]] || rankAt(sa[i-1]+k) != rankAt(sa[i]+k) {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)

		if rank[sa[n-1]] == n-1 {
			break
		}
	}

	// The empty suffix sorts before everything; prepend it and shift ranks.
	s.sa = make([]int, n+1)
	s.sa[0] = n
	copy(s.sa[1:], sa)
	s.rank = make([]int, n)
	for pos, suf := range sa {
		s.rank[suf] = pos + 1
	}

	s.buildLCP()
	return s
}

// buildLCP runs Kasai's algorithm over the inverse suffix array.
func (s *SuffixArray) buildLCP() {
	n := len(s.text)
	s.lcp = make([]int, n)
	h := 0
	for i := 0; i < n; i++ {
		r := s.rank[i]
		prev := s.sa[r-1] // suffix ordered just before suffix i
		if prev == n {
			// sentinel neighbor, nothing in common
			h = 0
			s.lcp[r-1] = 0
			continue
		}
		for i+h < n && prev+h < n && s.text[i+h] == s.text[prev+h] {
			h++
		}
		s.lcp[r-1] = h
		if h > 0 {
			h--
		}
	}
}

// Text returns the indexed text.
func (s *SuffixArray) Text() string { return s.text }

// Search returns all occurrence offsets of pattern in ascending order,
// found by two binary searches over the sorted suffixes.
func (s *SuffixArray) Search(ctx context.Context, pattern string) ([]int, error) {
	if len(pattern) == 0 || len(pattern) > len(s.text) {
		return nil, nil
	}
	if canceled(ctx) {
		return nil, ErrCanceled
	}

	n := len(s.sa)
	m := len(pattern)

	// leftmost suffix with pattern as prefix
	left := sort.Search(n, func(i int) bool {
		suffix := s.text[s.sa[i]:]
		if len(suffix) < m {
			return suffix >= pattern[:len(suffix)]
		}
		return suffix[:m] >= pattern
	})
	// one past the rightmost
	right := sort.Search(n, func(i int) bool {
		suffix := s.text[s.sa[i]:]
		if len(suffix) < m {
			return suffix > pattern[:len(suffix)]
		}
		return suffix[:m] > pattern
	})

	if left >= right {
		return nil, nil
	}
	offsets := make([]int, 0, right-left)
	for i := left; i < right; i++ {
		if canceled(ctx) {
			return nil, ErrCanceled
		}
		pos := s.sa[i]
		if pos+m <= len(s.text) && s.text[pos:pos+m] == pattern {
			offsets = append(offsets, pos)
		}
	}
	sort.Ints(offsets)
	return offsets, nil
}

// FindAll adapts Search to the Match shape shared with the other engines.
func (s *SuffixArray) FindAll(ctx context.Context, pattern string) ([]Match, error) {
	offsets, err := s.Search(ctx, pattern)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(offsets))
	for i, off := range offsets {
		matches[i] = Match{Index: off, Length: len(pattern)}
	}
	return matches, nil
}

// LongestRepeatedSubstring returns the longest substring occurring at least
// twice, with all its occurrence offsets in ascending order. Empty result
// if no substring repeats.
func (s *SuffixArray) LongestRepeatedSubstring() (string, []int) {
	best, at := 0, -1
	for i, l := range s.lcp {
		if l > best {
			best = l
			at = i
		}
	}
	if best == 0 {
		return "", nil
	}

	// expand the run of adjacent suffixes sharing at least best characters
	start, end := at, at+1
	for start > 0 && s.lcp[start-1] >= best {
		start--
	}
	for end < len(s.lcp) && s.lcp[end] >= best {
		end++
	}

	offsets := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		offsets = append(offsets, s.sa[i])
	}
	sort.Ints(offsets)
	return s.text[s.sa[at] : s.sa[at]+best], offsets
}
