// Package complete implements the frequency-ranked completion index: a
// character-level trie with prefix search, Levenshtein-based fuzzy lookup
// and removal with dead-chain pruning.
//
// An Index is a plain constructed value owned by its caller; there is no
// package-level instance. Reads from multiple goroutines are fine as long
// as callers serialize Insert/Remove against them.
package complete

import (
	"context"
	"sort"

	"github.com/bastiangx/editcore/internal/textutil"
)

// Result caps and traversal bounds. The DFS depth cap is part of the
// contract: prefix collection never descends more than maxCollectDepth
// below the prefix node, which bounds the walk on pathological inputs.
const (
	// DefaultMaxResults caps suggestion lists from prefix and fuzzy search.
	DefaultMaxResults = 20
	// maxCollectDepth bounds the DFS below a prefix node.
	maxCollectDepth = 50
)

// Suggestion is one ranked completion candidate.
type Suggestion struct {
	Word      string `json:"word" msgpack:"w"`
	Frequency int    `json:"freq" msgpack:"f"`
}

// FuzzyMatch is a fuzzy-search candidate with its edit distance.
type FuzzyMatch struct {
	Word      string `json:"word" msgpack:"w"`
	Frequency int    `json:"freq" msgpack:"f"`
	Distance  int    `json:"distance" msgpack:"d"`
}

// node is one trie node. Children are exclusively owned by their parent;
// the parent pointer is a non-owning back-reference for pruning walks.
type node struct {
	children  map[rune]*node
	parent    *node
	label     rune
	depth     int
	isEnd     bool
	frequency int
	endings   map[string]struct{} // original spellings that fold onto this node
}

func newNode(parent *node, label rune) *node {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	return &node{
		children: make(map[rune]*node),
		parent:   parent,
		label:    label,
		depth:    depth,
	}
}

// Index is the completion index. Words are normalized (trimmed,
// case-folded) before every operation; the original spellings survive in
// the terminal nodes' ending sets.
type Index struct {
	root       *node
	words      map[string]int // normalized word -> frequency
	wordCount  int
	maxDepth   int
	maxResults int
	cache      *hotCache
}

// NewIndex creates an empty index with the default result cap.
func NewIndex() *Index {
	return NewIndexWithLimit(DefaultMaxResults)
}

// NewIndexWithLimit creates an empty index returning at most limit
// suggestions per query.
func NewIndexWithLimit(limit int) *Index {
	if limit < 1 {
		limit = DefaultMaxResults
	}
	return &Index{
		root:       newNode(nil, 0),
		words:      make(map[string]int),
		maxResults: limit,
		cache:      newHotCache(limit),
	}
}

// Insert adds one observation of word. Empty input after normalization is
// ignored. The first insertion of a word grows the word count; repeats only
// bump its frequency.
func (ix *Index) Insert(word string) {
	ix.insertN(word, 1)
}

// insertN adds count observations of word in one trie walk.
func (ix *Index) insertN(word string, count int) {
	normalized := textutil.Normalize(word)
	if normalized == "" || count < 1 {
		return
	}

	n := ix.root
	for _, r := range normalized {
		child, ok := n.children[r]
		if !ok {
			child = newNode(n, r)
			n.children[r] = child
		}
		n = child
	}

	if !n.isEnd {
		n.isEnd = true
		ix.wordCount++
		if n.depth > ix.maxDepth {
			ix.maxDepth = n.depth
		}
	}
	n.frequency += count
	if n.endings == nil {
		n.endings = make(map[string]struct{})
	}
	n.endings[trimOnly(word)] = struct{}{}

	ix.words[normalized] = n.frequency
	ix.cache.put(normalized, n.frequency)
}

// Remove deletes word from the index, reporting whether it was present.
// The now-dead tail of the path is pruned back toward the root.
func (ix *Index) Remove(word string) bool {
	normalized := textutil.Normalize(word)
	n := ix.lookup(normalized)
	if n == nil || !n.isEnd {
		return false
	}

	n.isEnd = false
	n.frequency = 0
	n.endings = nil
	ix.wordCount--
	delete(ix.words, normalized)
	ix.cache.drop(normalized)

	// prune dead leaves up to the first node still carrying something
	for n != ix.root && !n.isEnd && len(n.children) == 0 {
		parent := n.parent
		delete(parent.children, n.label)
		n.parent = nil
		n = parent
	}
	return true
}

// Contains reports whether word is stored.
func (ix *Index) Contains(word string) bool {
	n := ix.lookup(textutil.Normalize(word))
	return n != nil && n.isEnd
}

// Frequency returns word's insertion count, 0 when absent.
func (ix *Index) Frequency(word string) int {
	n := ix.lookup(textutil.Normalize(word))
	if n == nil || !n.isEnd {
		return 0
	}
	return n.frequency
}

// WordCount returns the number of distinct stored words.
func (ix *Index) WordCount() int { return ix.wordCount }

// lookup descends to the node for a normalized word, nil if the path does
// not exist.
func (ix *Index) lookup(normalized string) *node {
	if normalized == "" {
		return nil
	}
	n := ix.root
	for _, r := range normalized {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// SearchPrefix returns ranked completions for prefix. An empty prefix
// yields the globally most frequent words. Ranking is frequency
// descending, then shorter words first, then lexicographic.
func (ix *Index) SearchPrefix(prefix string) []Suggestion {
	normalized := textutil.Normalize(prefix)
	if normalized == "" {
		return ix.cache.top(ix.maxResults)
	}

	start := ix.lookup(normalized)
	if start == nil {
		return nil
	}

	suggestions := collectWords(start, normalized)
	sortSuggestions(suggestions)
	if len(suggestions) > ix.maxResults {
		suggestions = suggestions[:ix.maxResults]
	}
	return suggestions
}

// collectWords gathers every terminal word at or below start. Iterative
// DFS with an explicit stack; descent stops at maxCollectDepth below the
// prefix node.
func collectWords(start *node, prefix string) []Suggestion {
	type frame struct {
		n    *node
		word string
	}

	var out []Suggestion
	stack := []frame{{n: start, word: prefix}}
	base := start.depth

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.n.isEnd {
			out = append(out, Suggestion{Word: top.word, Frequency: top.n.frequency})
		}
		if top.n.depth-base >= maxCollectDepth {
			continue
		}
		for r, child := range top.n.children {
			stack = append(stack, frame{n: child, word: top.word + string(r)})
		}
	}
	return out
}

// FuzzySearch returns stored words within maxDistance edits of query,
// ranked by distance ascending, then frequency descending, then
// lexicographic. The context is checked once per stored word.
func (ix *Index) FuzzySearch(ctx context.Context, query string, maxDistance int) ([]FuzzyMatch, error) {
	normalized := textutil.Normalize(query)
	if normalized == "" || maxDistance < 0 {
		return nil, nil
	}

	var out []FuzzyMatch
	for word, freq := range ix.words {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		// length difference is a cheap lower bound on the distance
		if diff := len(word) - len(normalized); diff > maxDistance || -diff > maxDistance {
			continue
		}
		dist := textutil.Levenshtein(normalized, word)
		if dist <= maxDistance {
			out = append(out, FuzzyMatch{Word: word, Frequency: freq, Distance: dist})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > ix.maxResults {
		out = out[:ix.maxResults]
	}
	return out, nil
}

func sortSuggestions(s []Suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Frequency != s[j].Frequency {
			return s[i].Frequency > s[j].Frequency
		}
		if len(s[i].Word) != len(s[j].Word) {
			return len(s[i].Word) < len(s[j].Word)
		}
		return s[i].Word < s[j].Word
	})
}

// trimOnly keeps the caller's casing but strips surrounding whitespace,
// the form recorded in a terminal node's ending set.
func trimOnly(word string) string {
	start, end := 0, len(word)
	for start < end && (word[start] == ' ' || word[start] == '\t' || word[start] == '\n' || word[start] == '\r') {
		start++
	}
	for end > start && (word[end-1] == ' ' || word[end-1] == '\t' || word[end-1] == '\n' || word[end-1] == '\r') {
		end--
	}
	return word[start:end]
}
