package complete

// Stats is a point-in-time summary of the index shape.
type Stats struct {
	WordCount     int     `json:"wordCount" msgpack:"w"`
	NodeCount     int     `json:"nodeCount" msgpack:"n"`
	MaxDepth      int     `json:"maxDepth" msgpack:"d"`
	AvgWordLength float64 `json:"avgWordLength" msgpack:"a"`
	ApproxBytes   int     `json:"approxBytes" msgpack:"b"`
}

// approxNodeBytes is a rough per-node footprint: the struct itself plus
// map bucket overhead for an average fanout.
const approxNodeBytes = 96

// Stats walks the trie and reports its shape. Node count and average word
// length are computed fresh on every call.
func (ix *Index) Stats() Stats {
	nodes := countNodes(ix.root)

	totalLen := 0
	for w := range ix.words {
		totalLen += len(w)
	}
	avg := 0.0
	if ix.wordCount > 0 {
		avg = float64(totalLen) / float64(ix.wordCount)
	}

	return Stats{
		WordCount:     ix.wordCount,
		NodeCount:     nodes,
		MaxDepth:      ix.maxDepth,
		AvgWordLength: avg,
		ApproxBytes:   nodes * approxNodeBytes,
	}
}

func countNodes(n *node) int {
	count := 1
	for _, child := range n.children {
		count += countNodes(child)
	}
	return count
}
