// Package cli handles cmd line input for DBG and testing the core features
// in real time: completions, pattern search, fuzzy lookup and diffs.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/editcore/pkg/complete"
	"github.com/bastiangx/editcore/pkg/diff"
	"github.com/bastiangx/editcore/pkg/match"
)

// InputHandler processes user input from stdin. Plain words become prefix
// completion queries; lines starting with a colon run one of the debug
// commands listed by :help.
type InputHandler struct {
	index         *complete.Index
	engine        *diff.Engine
	algorithm     match.Algorithm
	caseSensitive bool
	suggestLimit  int
	fuzzyDistance int
	requestCount  int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(index *complete.Index, algorithm string, caseSensitive bool, limit, fuzzyDistance int) *InputHandler {
	return &InputHandler{
		index:         index,
		engine:        diff.NewEngine(),
		algorithm:     match.Algorithm(algorithm),
		caseSensitive: caseSensitive,
		suggestLimit:  limit,
		fuzzyDistance: fuzzyDistance,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and passes
// the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("editcore CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a prefix and press Enter for completions, :help for commands (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if !strings.HasPrefix(line, ":") {
		h.showCompletions(line)
		return
	}

	cmd, rest, _ := strings.Cut(line[1:], " ")
	switch cmd {
	case "help":
		h.showHelp()
	case "add":
		h.index.Insert(rest)
		log.Printf("added '%s' (freq now %d)", rest, h.index.Frequency(rest))
	case "rm":
		if h.index.Remove(rest) {
			log.Printf("removed '%s'", rest)
		} else {
			log.Warnf("'%s' not in index", rest)
		}
	case "fuzzy":
		h.showFuzzy(rest)
	case "find":
		h.showMatches(rest)
	case "diff":
		h.showDiff(rest)
	case "algo":
		h.algorithm = match.Algorithm(rest)
		log.Printf("algorithm set to '%s'", rest)
	case "stats":
		st := h.index.Stats()
		log.Printf("words: %s  nodes: %s  depth: %d  avg len: %.1f",
			formatWithCommas(st.WordCount), formatWithCommas(st.NodeCount), st.MaxDepth, st.AvgWordLength)
	default:
		log.Errorf("unknown command ':%s' (try :help)", cmd)
	}
}

func (h *InputHandler) showHelp() {
	log.Print("  <prefix>               completions for a prefix")
	log.Print("  :add <word>            insert a word")
	log.Print("  :rm <word>             remove a word")
	log.Print("  :fuzzy <query>         fuzzy lookup")
	log.Print("  :find <pat> :: <text>  search pattern in text")
	log.Print("  :diff <left> :: <right>  line diff, \\n for newlines")
	log.Print("  :algo <name>           naive|kmp|boyer-moore|rabin-karp|aho-corasick|suffix-array")
	log.Print("  :stats                 index statistics")
}

func (h *InputHandler) showCompletions(prefix string) {
	start := time.Now()
	suggestions := h.index.SearchPrefix(prefix)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}
	if len(suggestions) > h.suggestLimit {
		suggestions = suggestions[:h.suggestLimit]
	}

	log.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		fmtFreq := formatWithCommas(s.Frequency)
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word)
		log.Printf("%2d. %-40s (freq: %8s)", i+1, clWord, fmtFreq)
	}
}

func (h *InputHandler) showFuzzy(query string) {
	start := time.Now()
	matches, err := h.index.FuzzySearch(context.Background(), query, h.fuzzyDistance)
	if err != nil {
		log.Errorf("fuzzy search: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	if len(matches) == 0 {
		log.Warnf("Nothing within %d edits of '%s'", h.fuzzyDistance, query)
		return
	}
	for i, m := range matches {
		log.Printf("%2d. %-30s (dist: %d, freq: %s)", i+1, m.Word, m.Distance, formatWithCommas(m.Frequency))
	}
}

func (h *InputHandler) showMatches(rest string) {
	pattern, text, ok := strings.Cut(rest, " :: ")
	if !ok {
		log.Error("usage: :find <pattern> :: <text>")
		return
	}

	m, err := match.New(h.algorithm, pattern, h.caseSensitive)
	if err != nil {
		log.Errorf("matcher: %v", err)
		return
	}

	start := time.Now()
	found, err := m.FindAll(context.Background(), text)
	if err != nil {
		log.Errorf("search: %v", err)
		return
	}
	log.Debugf("Took [ %v ] with %s", time.Since(start), h.algorithm)

	if len(found) == 0 {
		log.Warnf("No matches for '%s'", pattern)
		return
	}
	log.Printf("Found %d matches:", len(found))
	for i, f := range found {
		log.Printf("%2d. offset %d len %d", i+1, f.Index, f.Length)
	}
}

func (h *InputHandler) showDiff(rest string) {
	left, right, ok := strings.Cut(rest, " :: ")
	if !ok {
		log.Error("usage: :diff <left> :: <right>")
		return
	}
	left = strings.ReplaceAll(left, "\\n", "\n")
	right = strings.ReplaceAll(right, "\\n", "\n")

	res, err := h.engine.Lines(context.Background(), left, right)
	if err != nil {
		log.Errorf("diff: %v", err)
		return
	}
	log.Printf("unchanged %d  added %d  removed %d  modified %d",
		res.Stats.Unchanged, res.Stats.Added, res.Stats.Removed, res.Stats.Modified)
	for _, l := range strings.Split(strings.TrimRight(diff.Unified(res, "left", "right"), "\n"), "\n") {
		log.Print(l)
	}
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	str := fmt.Sprintf("%d", n)
	result := ""
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(char)
	}
	return result
}
