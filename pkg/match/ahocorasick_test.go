package match

import (
	"context"
	"reflect"
	"testing"
)

func TestAhoCorasickClassic(t *testing.T) {
	m := NewAhoCorasick([]string{"he", "she", "his"}, true)

	matches, err := m.FindAll(context.Background(), "ahishers")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}

	// verified against a direct scan of the text
	if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("'he': expected [4], got %v", got)
	}
	if got := patternStarts(matches, 1); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("'she': expected [3], got %v", got)
	}
	if got := patternStarts(matches, 2); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("'his': expected [1], got %v", got)
	}
}

func TestAhoCorasickOutputViaFailure(t *testing.T) {
	// "she" ends at the same position as "he"; the failure-link output
	// union must report both
	m := NewAhoCorasick([]string{"she", "he"}, true)

	matches, err := m.FindAll(context.Background(), "she")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %v", matches)
	}
	if matches[0].Pattern != 0 || matches[0].Index != 0 {
		t.Errorf("First match = %v, want 'she' at 0", matches[0])
	}
	if matches[1].Pattern != 1 || matches[1].Index != 1 {
		t.Errorf("Second match = %v, want 'he' at 1", matches[1])
	}
}

func TestAhoCorasickOverlapSamePattern(t *testing.T) {
	m := NewAhoCorasick([]string{"aa"}, true)

	matches, err := m.FindAll(context.Background(), "aaaa")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Expected [0 1 2], got %v", got)
	}
}

func TestAhoCorasickAddPatternRebuild(t *testing.T) {
	m := NewAhoCorasick([]string{"cat"}, true)
	before := len(m.nodes)

	m.AddPattern("car")

	if got := m.Patterns(); !reflect.DeepEqual(got, []string{"cat", "car"}) {
		t.Fatalf("Patterns() = %v", got)
	}
	// shares the "ca" path, adds a single node
	if len(m.nodes) != before+1 {
		t.Errorf("Node count after rebuild = %d, want %d", len(m.nodes), before+1)
	}

	matches, err := m.FindAll(context.Background(), "a car and a cat")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{12}) {
		t.Errorf("'cat': expected [12], got %v", got)
	}
	if got := patternStarts(matches, 1); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("'car': expected [2], got %v", got)
	}
}

func TestAhoCorasickCaseFolding(t *testing.T) {
	m := NewAhoCorasick([]string{"TODO", "fixme"}, false)

	matches, err := m.FindAll(context.Background(), "todo: FIXME and Todo")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got := patternStarts(matches, 0); !reflect.DeepEqual(got, []int{0, 16}) {
		t.Errorf("'TODO': expected [0 16], got %v", got)
	}
	if got := patternStarts(matches, 1); !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("'fixme': expected [6], got %v", got)
	}
}

func TestAhoCorasickFindFirst(t *testing.T) {
	m := NewAhoCorasick([]string{"ishe", "his"}, true)

	// "his" starts at 1, "ishe" at 2; the earlier start wins even though
	// "ishe" was inserted first
	first, ok, err := m.FindFirst(context.Background(), "ahishers")
	if err != nil {
		t.Fatalf("FindFirst error: %v", err)
	}
	if !ok || first.Pattern != 1 || first.Index != 1 {
		t.Errorf("FindFirst = (%v, %v), want 'his' at 1", first, ok)
	}
}

func TestAhoCorasickEmpty(t *testing.T) {
	m := NewAhoCorasick(nil, true)
	matches, err := m.FindAll(context.Background(), "anything")
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches, got %v", matches)
	}
}
