package complete

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadWordFile seeds the index from a plain text word list, one entry per
// line as "word" or "word frequency". Comment lines starting with '#' and
// malformed lines are skipped, not fatal. Returns the number of entries
// loaded.
func (ix *Index) LoadWordFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("complete: open word file: %w", err)
	}
	defer file.Close()

	loaded := 0
	skipped := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		word := line
		freq := 1
		if fields := strings.Fields(line); len(fields) == 2 {
			word = fields[0]
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				skipped++
				continue
			}
			freq = n
		} else if len(fields) > 2 {
			skipped++
			continue
		}

		ix.insertN(word, freq)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("complete: read word file: %w", err)
	}

	if skipped > 0 {
		log.Warnf("skipped %d malformed lines in %s", skipped, path)
	}
	log.Debugf("loaded %d words from %s", loaded, path)
	return loaded, nil
}
