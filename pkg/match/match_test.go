package match

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

// Every engine must agree with the naive scan on the same inputs.
func TestCrossAlgorithmEquivalence(t *testing.T) {
	texts := []string{
		"",
		"a",
		"ababababab",
		"the quick brown fox jumps over the lazy dog",
		"aaaaaaaaaaaaaaaaaaaa",
		"mississippi mississippi",
		"ABABDABACDABABCABAB",
		strings.Repeat("abcab", 40),
	}
	patterns := []string{"a", "ab", "aba", "abab", "miss", "issi", "the", "ABAB", "zz", "q"}

	ctx := context.Background()
	for _, text := range texts {
		for _, pattern := range patterns {
			for _, caseSensitive := range []bool{true, false} {
				oracle, err := NewNaive(pattern, caseSensitive).FindAll(ctx, text)
				if err != nil {
					t.Fatalf("naive: %v", err)
				}

				engines := map[string]Matcher{
					"kmp":         NewKMP(pattern, caseSensitive),
					"boyer-moore": NewBoyerMoore(pattern, caseSensitive),
				}
				for name, engine := range engines {
					got, err := engine.FindAll(ctx, text)
					if err != nil {
						t.Fatalf("%s: %v", name, err)
					}
					if !reflect.DeepEqual(got, oracle) {
						t.Errorf("%s(%q, %q, cs=%v) = %v, oracle %v",
							name, pattern, text, caseSensitive, got, oracle)
					}
				}

				// multi-pattern engines with a singleton set
				for name, engine := range map[string]MultiMatcher{
					"rabin-karp":   NewRabinKarp([]string{pattern}, caseSensitive),
					"aho-corasick": NewAhoCorasick([]string{pattern}, caseSensitive),
				} {
					pms, err := engine.FindAll(ctx, text)
					if err != nil {
						t.Fatalf("%s: %v", name, err)
					}
					got := make([]Match, 0, len(pms))
					for _, pm := range pms {
						got = append(got, pm.Match)
					}
					if len(got) == 0 {
						got = nil
					}
					if !reflect.DeepEqual(got, oracle) {
						t.Errorf("%s(%q, %q, cs=%v) = %v, oracle %v",
							name, pattern, text, caseSensitive, got, oracle)
					}
				}

				// suffix array only supports the case-sensitive contract
				if caseSensitive {
					sa := NewSuffixArray(text)
					got, err := sa.FindAll(ctx, pattern)
					if err != nil {
						t.Fatalf("suffix-array: %v", err)
					}
					if len(got) == 0 {
						got = nil
					}
					if !reflect.DeepEqual(got, oracle) {
						t.Errorf("suffix-array(%q, %q) = %v, oracle %v",
							pattern, text, got, oracle)
					}
				}
			}
		}
	}
}

func TestMatchesStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	m := NewKMP("aa", true)
	matches, err := m.FindAll(ctx, "aaaaaa")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Index <= matches[i-1].Index {
			t.Fatalf("Indexes not strictly increasing: %v", matches)
		}
	}
}

func TestNewDispatch(t *testing.T) {
	ctx := context.Background()
	for _, algo := range []Algorithm{AlgoNaive, AlgoKMP, AlgoBoyerMoore, AlgoRabinKarp, AlgoAhoCorasick, AlgoSuffixArray} {
		m, err := New(algo, "ana", true)
		if err != nil {
			t.Fatalf("New(%q): %v", algo, err)
		}
		matches, err := m.FindAll(ctx, "banana")
		if err != nil {
			t.Fatalf("%s FindAll: %v", algo, err)
		}
		if got := startIndexes(matches); !reflect.DeepEqual(got, []int{1, 3}) {
			t.Errorf("%s: expected [1 3], got %v", algo, got)
		}
	}

	if _, err := New("bogus", "x", true); err != ErrUnknownAlgorithm {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestDispatchSuffixArrayCaseFolding(t *testing.T) {
	ctx := context.Background()
	m, err := New(AlgoSuffixArray, "ANA", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	matches, err := m.FindAll(ctx, "Banana")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if got := startIndexes(matches); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("expected [1 3], got %v", got)
	}

	m.UpdatePattern("nan")
	matches, err = m.FindAll(ctx, "Banana")
	if err != nil {
		t.Fatalf("FindAll after update: %v", err)
	}
	if got := startIndexes(matches); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("expected [2] after update, got %v", got)
	}
}

func TestDispatchUpdatePattern(t *testing.T) {
	ctx := context.Background()
	m, err := New(AlgoAhoCorasick, "cat", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.UpdatePattern("dog")
	matches, err := m.FindAll(ctx, "cat dog cat")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if got := startIndexes(matches); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("After update: %v", got)
	}
}

func BenchmarkEngines(b *testing.B) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 200)
	pattern := "lazy dog"
	ctx := context.Background()

	b.Run("naive", func(b *testing.B) {
		m := NewNaive(pattern, true)
		for i := 0; i < b.N; i++ {
			m.FindAll(ctx, text)
		}
	})
	b.Run("kmp", func(b *testing.B) {
		m := NewKMP(pattern, true)
		for i := 0; i < b.N; i++ {
			m.FindAll(ctx, text)
		}
	})
	b.Run("boyer-moore", func(b *testing.B) {
		m := NewBoyerMoore(pattern, true)
		for i := 0; i < b.N; i++ {
			m.FindAll(ctx, text)
		}
	})
	b.Run("aho-corasick", func(b *testing.B) {
		m := NewAhoCorasick([]string{pattern}, true)
		for i := 0; i < b.N; i++ {
			m.FindAll(ctx, text)
		}
	})
}
