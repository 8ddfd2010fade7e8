package textutil

import "strings"

// Normalize trims surrounding whitespace and case-folds a word before it
// touches the completion index. Every index operation goes through this so
// lookups and inserts agree on the stored form.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// IsWordChar reports whether b belongs to a word for whole-word search:
// letters, digits and underscore.
func IsWordChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	}
	return false
}

// IsWordBoundary reports whether the match [start, start+length) in text
// sits on word boundaries on both sides.
func IsWordBoundary(text string, start, length int) bool {
	if start > 0 && IsWordChar(text[start-1]) {
		return false
	}
	end := start + length
	if end < len(text) && IsWordChar(text[end]) {
		return false
	}
	return true
}
