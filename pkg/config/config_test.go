package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[search]
default_algorithm = "boyer-moore"
case_sensitive = false

[complete]
max_results = 5

[diff]
similarity_threshold = 0.5
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.DefaultAlgorithm != "boyer-moore" || cfg.Search.CaseSensitive {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Complete.MaxResults != 5 {
		t.Errorf("max_results = %d", cfg.Complete.MaxResults)
	}
	if cfg.Diff.SimilarityThreshold != 0.5 {
		t.Errorf("threshold = %f", cfg.Diff.SimilarityThreshold)
	}
	// untouched sections keep defaults
	if cfg.Server.HistoryLimit != 100 {
		t.Errorf("history_limit = %d", cfg.Server.HistoryLimit)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// broken value in one section, valid in another
	path := writeConfig(t, `
[complete]
max_results = "not a number"

[search]
default_algorithm = "rabin-karp"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Complete.MaxResults != 20 {
		t.Errorf("max_results = %d, want default 20", cfg.Complete.MaxResults)
	}
	if cfg.Search.DefaultAlgorithm != "rabin-karp" {
		t.Errorf("algorithm = %q, want the recovered value", cfg.Search.DefaultAlgorithm)
	}
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeConfig(t, "%% this is not toml %%")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	// full fallback to defaults
	if cfg.Search.DefaultAlgorithm != "kmp" {
		t.Errorf("algorithm = %q", cfg.Search.DefaultAlgorithm)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Complete.MaxResults != 20 {
		t.Errorf("max_results = %d", cfg.Complete.MaxResults)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}

	// second init reads the file it just wrote
	again, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if *again != *cfg {
		t.Errorf("reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	algo := "suffix-array"
	limit := 7
	if err := cfg.Update(path, &algo, nil, nil, &limit); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Search.DefaultAlgorithm != "suffix-array" || loaded.Complete.MaxResults != 7 {
		t.Errorf("loaded = %+v", loaded)
	}
}
