package complete

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// hotCache keeps a patricia mirror of the stored words so the empty-prefix
// query (top words overall) never walks the main trie. The ranked list is
// rebuilt lazily after mutations.
type hotCache struct {
	trie   *patricia.Trie
	ranked []Suggestion
	dirty  bool
	cap    int
	mu     sync.RWMutex
}

func newHotCache(cap int) *hotCache {
	return &hotCache{
		trie: patricia.NewTrie(),
		cap:  cap,
	}
}

func (hc *hotCache) put(word string, freq int) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.trie.Set(patricia.Prefix(word), freq)
	hc.dirty = true
}

func (hc *hotCache) drop(word string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.trie.Delete(patricia.Prefix(word))
	hc.dirty = true
}

// top returns the limit most frequent words. On a dirty cache the ranked
// list is recomputed from the patricia trie first.
func (hc *hotCache) top(limit int) []Suggestion {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if hc.dirty {
		hc.rebuild()
	}
	if limit > len(hc.ranked) {
		limit = len(hc.ranked)
	}
	if limit == 0 {
		return nil
	}
	out := make([]Suggestion, limit)
	copy(out, hc.ranked[:limit])
	return out
}

func (hc *hotCache) rebuild() {
	all := make([]Suggestion, 0, hc.cap*2)

	err := hc.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		freq, ok := item.(int)
		if !ok {
			return nil
		}
		all = append(all, Suggestion{Word: string(p), Frequency: freq})
		return nil
	})
	if err != nil {
		log.Errorf("hot cache rebuild: %v", err)
	}

	sortSuggestions(all)
	if len(all) > hc.cap {
		all = all[:hc.cap]
	}
	hc.ranked = all
	hc.dirty = false
}

// reset replaces the cache contents wholesale, used after a snapshot
// restore.
func (hc *hotCache) reset(words map[string]int) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.trie = patricia.NewTrie()
	for w, f := range words {
		hc.trie.Set(patricia.Prefix(w), f)
	}
	hc.dirty = true
}
