package complete

import (
	"sort"
	"time"
)

// SnapshotNode is the portable form of one trie node. Children are keyed
// by their single-rune edge label.
type SnapshotNode struct {
	IsEndOfWord bool                     `json:"isEndOfWord" msgpack:"e"`
	Frequency   int                      `json:"frequency" msgpack:"f"`
	WordEndings []string                 `json:"wordEndings,omitempty" msgpack:"w,omitempty"`
	Children    map[string]*SnapshotNode `json:"children,omitempty" msgpack:"c,omitempty"`
}

// Snapshot is a complete serializable image of an Index.
type Snapshot struct {
	Root      *SnapshotNode `json:"root" msgpack:"r"`
	WordCount int           `json:"wordCount" msgpack:"n"`
	MaxDepth  int           `json:"maxDepth" msgpack:"d"`
	LastSaved time.Time     `json:"lastSaved" msgpack:"t"`
}

// Snapshot captures the current index state.
func (ix *Index) Snapshot() *Snapshot {
	return &Snapshot{
		Root:      snapshotNode(ix.root),
		WordCount: ix.wordCount,
		MaxDepth:  ix.maxDepth,
		LastSaved: time.Now().UTC(),
	}
}

func snapshotNode(n *node) *SnapshotNode {
	sn := &SnapshotNode{
		IsEndOfWord: n.isEnd,
		Frequency:   n.frequency,
	}
	if len(n.endings) > 0 {
		sn.WordEndings = make([]string, 0, len(n.endings))
		for w := range n.endings {
			sn.WordEndings = append(sn.WordEndings, w)
		}
		sort.Strings(sn.WordEndings)
	}
	if len(n.children) > 0 {
		sn.Children = make(map[string]*SnapshotNode, len(n.children))
		for r, child := range n.children {
			sn.Children[string(r)] = snapshotNode(child)
		}
	}
	return sn
}

// Restore replaces the index contents with the snapshot's. The snapshot is
// trusted to be well-formed; word and depth counters come from its
// metadata.
func (ix *Index) Restore(snap *Snapshot) {
	ix.root = newNode(nil, 0)
	ix.words = make(map[string]int)
	ix.wordCount = snap.WordCount
	ix.maxDepth = snap.MaxDepth

	if snap.Root != nil {
		restoreInto(ix, ix.root, snap.Root, "")
	}
	ix.cache.reset(ix.words)
}

func restoreInto(ix *Index, n *node, sn *SnapshotNode, word string) {
	n.isEnd = sn.IsEndOfWord
	n.frequency = sn.Frequency
	if len(sn.WordEndings) > 0 {
		n.endings = make(map[string]struct{}, len(sn.WordEndings))
		for _, w := range sn.WordEndings {
			n.endings[w] = struct{}{}
		}
	}
	if n.isEnd {
		ix.words[word] = n.frequency
	}
	for label, childSnap := range sn.Children {
		r := firstRune(label)
		child := newNode(n, r)
		n.children[r] = child
		restoreInto(ix, child, childSnap, word+label)
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
