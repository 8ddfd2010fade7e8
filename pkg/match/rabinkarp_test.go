package match

import (
	"context"
	"reflect"
	"testing"
)

func TestRabinKarpSinglePattern(t *testing.T) {
	m := NewRabinKarp([]string{"abc"}, true)

	matches, err := m.FindAll(context.Background(), "abcxabcabc")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	got := patternStarts(matches, 0)
	if !reflect.DeepEqual(got, []int{0, 4, 7}) {
		t.Errorf("Expected offsets [0 4 7], got %v", got)
	}
}

func TestRabinKarpMultiplePatterns(t *testing.T) {
	// mixed lengths exercise one rolling hash per length group
	m := NewRabinKarp([]string{"abc", "bcd", "cdab"}, true)

	matches, err := m.FindAll(context.Background(), "abcdabcd")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}

	expected := map[int][]int{
		0: {0, 4}, // abc
		1: {1, 5}, // bcd
		2: {2},    // cdab
	}
	for pidx, want := range expected {
		if got := patternStarts(matches, pidx); !reflect.DeepEqual(got, want) {
			t.Errorf("Pattern %d: expected offsets %v, got %v", pidx, want, got)
		}
	}

	// ordered by index, then pattern
	for i := 1; i < len(matches); i++ {
		prev, curr := matches[i-1], matches[i]
		if curr.Index < prev.Index ||
			(curr.Index == prev.Index && curr.Pattern < prev.Pattern) {
			t.Fatalf("Matches out of order at %d: %v then %v", i, prev, curr)
		}
	}
}

func TestRabinKarpCollisionVerification(t *testing.T) {
	// a tiny modulus forces hash collisions; direct comparison must reject
	// every false positive
	m := NewRabinKarpWithParams([]string{"ab", "xy"}, true, 256, 7)

	matches, err := m.FindAll(context.Background(), "abcdxyab")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{0, 6}) {
		t.Errorf("Pattern 'ab': expected [0 6], got %v", got)
	}
	if got := patternStarts(matches, 1); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("Pattern 'xy': expected [4], got %v", got)
	}
}

func TestRabinKarpBadParamsFallBack(t *testing.T) {
	// modulus 0 would divide by zero in the rolling hash; base 0 would
	// make every window hash to the same value. Both come straight from
	// user config, so the constructor substitutes the defaults.
	for _, params := range [][2]uint64{{256, 0}, {0, 101}, {0, 0}, {256, 1}} {
		m := NewRabinKarpWithParams([]string{"ana"}, true, params[0], params[1])
		matches, err := m.FindAll(context.Background(), "banana")
		if err != nil {
			t.Fatalf("FindAll with params %v: %v", params, err)
		}
		if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{1, 3}) {
			t.Errorf("params %v: expected [1 3], got %v", params, got)
		}
	}
}

func TestRabinKarpAddPattern(t *testing.T) {
	m := NewRabinKarp([]string{"foo"}, true)
	m.AddPattern("bar")

	if got := m.Patterns(); !reflect.DeepEqual(got, []string{"foo", "bar"}) {
		t.Fatalf("Patterns() = %v", got)
	}

	matches, err := m.FindAll(context.Background(), "foobarfoo")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := patternStarts(matches, 1); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Pattern 'bar': expected [3], got %v", got)
	}
}

func TestRabinKarpCaseFolding(t *testing.T) {
	m := NewRabinKarp([]string{"Foo"}, false)

	matches, err := m.FindAll(context.Background(), "foo FOO fOo")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{0, 4, 8}) {
		t.Errorf("Expected [0 4 8], got %v", got)
	}
}

func TestRabinKarpEmptyInputs(t *testing.T) {
	m := NewRabinKarp([]string{"", "abc"}, true)

	matches, err := m.FindAll(context.Background(), "ab")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches, got %v", matches)
	}
}

func TestRabinKarpFindFirst(t *testing.T) {
	m := NewRabinKarp([]string{"na", "ban"}, true)

	first, ok, err := m.FindFirst(context.Background(), "banana")
	if err != nil {
		t.Fatalf("FindFirst error: %v", err)
	}
	if !ok || first.Index != 0 || first.Pattern != 1 {
		t.Errorf("FindFirst = (%v, %v), want 'ban' at 0", first, ok)
	}
}

// patternStarts collects the offsets reported for one pattern index.
func patternStarts(matches []PatternMatch, pattern int) []int {
	var out []int
	for _, m := range matches {
		if m.Pattern == pattern {
			out = append(out, m.Index)
		}
	}
	return out
}
