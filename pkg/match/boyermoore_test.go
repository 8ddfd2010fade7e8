package match

import (
	"context"
	"reflect"
	"testing"
)

func TestBoyerMooreFindAll(t *testing.T) {
	testCases := []struct {
		name          string
		pattern       string
		text          string
		caseSensitive bool
		expected      []int
	}{
		{"single hit", "EXAMPLE", "HERE IS A SIMPLE EXAMPLE", true, []int{17}},
		{"repeated hits", "AABA", "AABAACAADAABAABA", true, []int{0, 9, 12}},
		{"overlapping hits", "aa", "aaaa", true, []int{0, 1, 2}},
		{"no hit", "zzz", "HERE IS A SIMPLE EXAMPLE", true, nil},
		{"empty pattern", "", "abc", true, nil},
		{"pattern longer than text", "abcd", "ab", true, nil},
		{"hit at end", "ple", "simple", true, []int{3}},
		{"case folded", "SiMpLe", "a simple SIMPLE thing", false, []int{2, 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewBoyerMoore(tc.pattern, tc.caseSensitive)
			matches, err := m.FindAll(context.Background(), tc.text)
			if err != nil {
				t.Fatalf("FindAll error: %v", err)
			}
			if got := startIndexes(matches); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected offsets %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestBoyerMooreBadCharTable(t *testing.T) {
	m := NewBoyerMoore("abcab", true)

	// last occurrence index per byte, -1 when absent
	if m.badChar['a'] != 3 {
		t.Errorf("badChar['a'] = %d, want 3", m.badChar['a'])
	}
	if m.badChar['b'] != 4 {
		t.Errorf("badChar['b'] = %d, want 4", m.badChar['b'])
	}
	if m.badChar['c'] != 2 {
		t.Errorf("badChar['c'] = %d, want 2", m.badChar['c'])
	}
	if m.badChar['z'] != -1 {
		t.Errorf("badChar['z'] = %d, want -1", m.badChar['z'])
	}
}

func TestBoyerMooreUpdatePattern(t *testing.T) {
	m := NewBoyerMoore("old", true)
	m.UpdatePattern("new")

	matches, err := m.FindAll(context.Background(), "old and new and new")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := startIndexes(matches); !reflect.DeepEqual(got, []int{8, 16}) {
		t.Errorf("After update: offsets %v", got)
	}
	if len(m.goodSuffix) != len("new")+1 {
		t.Errorf("goodSuffix length = %d, want %d", len(m.goodSuffix), len("new")+1)
	}
}

func TestBoyerMooreFindFirst(t *testing.T) {
	m := NewBoyerMoore("ana", true)

	first, ok, err := m.FindFirst(context.Background(), "banana")
	if err != nil {
		t.Fatalf("FindFirst error: %v", err)
	}
	if !ok || first.Index != 1 || first.Length != 3 {
		t.Errorf("FindFirst = (%v, %v), want index 1 length 3", first, ok)
	}
}

func TestBoyerMooreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewBoyerMoore("ab", true)
	_, err := m.FindAll(ctx, "ababab")
	if err != ErrCanceled {
		t.Errorf("Expected ErrCanceled, got %v", err)
	}
}
