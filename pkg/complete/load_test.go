package complete

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# common words\n" +
		"function 300\n" +
		"functor 12\n" +
		"plain\n" +
		"\n" +
		"broken entry here\n" +
		"negative -5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ix := NewIndex()
	loaded, err := ix.LoadWordFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != 3 {
		t.Errorf("loaded = %d, want 3", loaded)
	}
	if got := ix.Frequency("function"); got != 300 {
		t.Errorf("Frequency(function) = %d, want 300", got)
	}
	if got := ix.Frequency("plain"); got != 1 {
		t.Errorf("Frequency(plain) = %d, want 1", got)
	}
	if ix.Contains("broken") || ix.Contains("negative") {
		t.Error("malformed lines were indexed")
	}
}

func TestLoadWordFileMissing(t *testing.T) {
	ix := NewIndex()
	if _, err := ix.LoadWordFile("/nonexistent/words.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
