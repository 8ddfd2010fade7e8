// Copyright 2026 The editcore Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the editor core server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

editcore bundles the text services an editor front end needs but should
not reimplement: exact and multi pattern search over several algorithms,
frequency-ranked prefix completion with fuzzy tolerance, and line diffing
with modification detection. It can operate as a MessagePack IPC server
for integration with editors, or as a CLI application for testing and
debugging.

# Usage

Start the server with default settings:

	editcore

Enable debug mode:

	editcore -d

Run in CLI mode for interactive testing:

	editcore -c -limit 10 -algo boyer-moore

# Configuration

Runtime configuration is managed through a TOML file covering the server,
search, completion, diff and storage sections:

	[server]
	max_text_bytes = 4194304
	history_limit = 100

	[search]
	default_algorithm = "kmp"
	case_sensitive = true

	[complete]
	max_results = 20
	max_fuzzy_distance = 2

	[diff]
	similarity_threshold = 0.3

	[storage]
	max_age_days = 30
	auto_save = true

The config file is automatically created with defaults if it doesn't
exist. A file with one broken section still contributes its valid ones.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests are
processed synchronously with microsecond timing information included in
responses.

Send a search request:

	{"id": "req1", "op": "search", "x": "the text", "p": "text"}

Receive match offsets:

	{"id": "req1", "m": [{"i": 4, "l": 4}], "c": 1, "t": 87}

Completion, fuzzy lookup, diff and history ops use the same envelope; the
server package documents every message shape.

# Persistence

The completion index and document history are saved to the state
directory on exit and loaded on startup when auto_save is enabled. Stale
state (older than max_age_days) is ignored rather than loaded, so a
long-untouched install starts clean.

# Command Line Flags

The following flags control application behavior:

	-config string
	    Custom config file path
	-state string
	    State directory for persisted index and history
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-algo string
	    Default search algorithm (CLI mode)
	-limit int
	    Number of suggestions to return
	-fuzzy int
	    Maximum edit distance for fuzzy lookup
	-words string
	    Word list file to seed the completion index
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/editcore/internal/cli"
	"github.com/bastiangx/editcore/internal/logger"
	"github.com/bastiangx/editcore/pkg/complete"
	"github.com/bastiangx/editcore/pkg/config"
	"github.com/bastiangx/editcore/pkg/server"
	"github.com/bastiangx/editcore/pkg/storage"
)

const (
	Version = "0.3.0-beta"
	AppName = "editcore"
	gh      = "https://github.com/bastiangx/editcore"
)

const indexStateName = "index"

// sigHandler runs cleanup on OS signals before exiting normally.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		if cleanup != nil {
			cleanup()
		}
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Custom config file path")
	stateDir := flag.String("state", "", "State directory for persisted index and history")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	algo := flag.String("algo", defaultConfig.Search.DefaultAlgorithm, "Default search algorithm for CLI mode")
	limit := flag.Int("limit", defaultConfig.Complete.MaxResults, "Number of suggestions to return")
	fuzzyDistance := flag.Int("fuzzy", defaultConfig.Complete.MaxFuzzyDistance, "Maximum edit distance for fuzzy lookup")
	wordsFile := flag.String("words", "", "Word list file to seed the completion index")

	flag.Parse()

	if *showVersion {
		vlog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		vlog.SetStyles(styles)

		vlog.Print("")
		vlog.Print("[ editcore ] Search, completion and diff for your editor!")
		vlog.Print("", "version", Version)
		vlog.Print("")
		vlog.Print("use -h or --help to see available options")
		vlog.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if activePath != "" {
		log.Debugf("Using config file: (%s)", activePath)
	}

	store := openStore(appConfig, *stateDir)

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)

		index := complete.NewIndexWithLimit(*limit)
		loadIndex(store, index)
		seedIndex(index, *wordsFile)
		sigHandler(func() { saveIndex(appConfig, store, index) })

		log.Debug("Input info:",
			"algo", *algo,
			"limit", *limit,
			"fuzzy", *fuzzyDistance)

		inputHandler := cli.NewInputHandler(index, *algo, appConfig.Search.CaseSensitive, *limit, *fuzzyDistance)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		saveIndex(appConfig, store, index)
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(appConfig)
	loadIndex(store, srv.Index())
	seedIndex(srv.Index(), *wordsFile)
	sigHandler(func() { saveIndex(appConfig, store, srv.Index()) })

	showStartupInfo()

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
	saveIndex(appConfig, store, srv.Index())
}

// openStore resolves the state directory and opens the file store, nil
// when persistence is unavailable.
func openStore(cfg *config.Config, flagDir string) *storage.FileStore {
	dir := flagDir
	if dir == "" {
		dir = cfg.Storage.Dir
	}
	if dir == "" {
		configDir, err := config.GetConfigDir()
		if err != nil {
			log.Warnf("No usable state directory: %v. Running without persistence.", err)
			return nil
		}
		dir = filepath.Join(configDir, "state")
	}

	maxAge := time.Duration(cfg.Storage.MaxAgeDays) * 24 * time.Hour
	store, err := storage.NewFileStoreWithMaxAge(dir, maxAge)
	if err != nil {
		log.Warnf("Cannot open state directory %s: %v. Running without persistence.", dir, err)
		return nil
	}
	log.Debugf("Using state dir at: %s", dir)
	return store
}

func seedIndex(index *complete.Index, wordsFile string) {
	if wordsFile == "" {
		return
	}
	n, err := index.LoadWordFile(wordsFile)
	if err != nil {
		log.Fatalf("Failed to load word list: %v", err)
		os.Exit(1)
	}
	log.Debugf("Seeded %d words from %s", n, wordsFile)
}

func loadIndex(store *storage.FileStore, index *complete.Index) {
	if store == nil {
		return
	}
	var snap complete.Snapshot
	if err := store.Load(indexStateName, &snap); err != nil {
		log.Debugf("No index state loaded: %v", err)
		return
	}
	index.Restore(&snap)
	log.Debugf("Restored %d words from state", index.WordCount())
}

func saveIndex(cfg *config.Config, store *storage.FileStore, index *complete.Index) {
	if store == nil || !cfg.Storage.AutoSave {
		return
	}
	if err := store.Save(indexStateName, index.Snapshot()); err != nil {
		log.Warnf("Failed to save index state: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
// It prints through its own info-level logger so the banner shows even
// when the global level is warn.
func showStartupInfo() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	println("==========")
	println(" editcore ")
	println("==========")
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Info("init: OK")
	l.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")
}
