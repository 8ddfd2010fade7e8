package match

import (
	"context"
	"reflect"
	"testing"
)

func TestKMPFindAll(t *testing.T) {
	testCases := []struct {
		name          string
		pattern       string
		text          string
		caseSensitive bool
		expected      []int
	}{
		{"classic textbook case", "ABABCABAB", "ABABDABACDABABCABAB", true, []int{10}},
		{"multiple hits", "ab", "ababab", true, []int{0, 2, 4}},
		{"overlapping hits", "aa", "aaaa", true, []int{0, 1, 2}},
		{"self-overlap border", "aba", "ababa", true, []int{0, 2}},
		{"no hit", "xyz", "ababab", true, nil},
		{"empty pattern", "", "ababab", true, nil},
		{"pattern longer than text", "abcdef", "abc", true, nil},
		{"case folded", "Hello", "say hello, HELLO", false, []int{4, 11}},
		{"case sensitive miss", "Hello", "say hello", true, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewKMP(tc.pattern, tc.caseSensitive)
			matches, err := m.FindAll(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("FindAll error: %v", err)
			}
			if got := startIndexes(matches); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected offsets %v, got %v", tc.expected, got)
			}
			for _, m := range matches {
				if m.Length != len(tc.pattern) {
					t.Errorf("Match length = %d, want %d", m.Length, len(tc.pattern))
				}
			}
		})
	}
}

func TestBuildLPS(t *testing.T) {
	testCases := []struct {
		pattern  string
		expected []int
	}{
		{"AAAA", []int{0, 1, 2, 3}},
		{"ABCDE", []int{0, 0, 0, 0, 0}},
		{"AABAACAABAA", []int{0, 1, 0, 1, 2, 0, 1, 2, 3, 4, 5}},
		{"ABABCABAB", []int{0, 0, 1, 2, 0, 1, 2, 3, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern, func(t *testing.T) {
			lps := buildLPS(tc.pattern)
			if !reflect.DeepEqual(lps, tc.expected) {
				t.Errorf("buildLPS(%q) = %v, want %v", tc.pattern, lps, tc.expected)
			}
			// a border is always a proper prefix
			for i, l := range lps {
				if l > i {
					t.Errorf("lps[%d] = %d violates lps[i] <= i", i, l)
				}
			}
		})
	}
}

func TestKMPUpdatePattern(t *testing.T) {
	m := NewKMP("abc", true)
	text := "abc abd abc"

	matches, err := m.FindAll(context.Background(), text)
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := startIndexes(matches); !reflect.DeepEqual(got, []int{0, 8}) {
		t.Fatalf("Before update: offsets %v", got)
	}

	m.UpdatePattern("abd")
	if m.Pattern() != "abd" {
		t.Errorf("Pattern() = %q after update", m.Pattern())
	}
	matches, err = m.FindAll(context.Background(), text)
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := startIndexes(matches); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("After update: offsets %v", got)
	}
}

func TestKMPFindFirst(t *testing.T) {
	m := NewKMP("ab", true)

	first, ok, err := m.FindFirst(context.Background(), "xxabxxab")
	if err != nil {
		t.Fatalf("FindFirst error: %v", err)
	}
	if !ok || first.Index != 2 {
		t.Errorf("FindFirst = (%v, %v), want index 2", first, ok)
	}

	_, ok, err = m.FindFirst(context.Background(), "xxxx")
	if err != nil {
		t.Fatalf("FindFirst error: %v", err)
	}
	if ok {
		t.Error("FindFirst reported a hit in text with no occurrence")
	}
}

func TestKMPCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewKMP("needle", true)
	_, err := m.FindAll(ctx, "some haystack without the word")
	if err != ErrCanceled {
		t.Errorf("Expected ErrCanceled, got %v", err)
	}
}

// startIndexes projects matches onto their offsets for compact assertions.
func startIndexes(matches []Match) []int {
	if len(matches) == 0 {
		return nil
	}
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
