/*
Package config manages TOML config for editcore services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/editcore/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Search   SearchConfig   `toml:"search"`
	Complete CompleteConfig `toml:"complete"`
	Diff     DiffConfig     `toml:"diff"`
	Storage  StorageConfig  `toml:"storage"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxTextBytes int `toml:"max_text_bytes"`
	HistoryLimit int `toml:"history_limit"`
}

// SearchConfig holds pattern matching options.
type SearchConfig struct {
	DefaultAlgorithm string `toml:"default_algorithm"`
	CaseSensitive    bool   `toml:"case_sensitive"`
	WholeWord        bool   `toml:"whole_word"`
	HashBase         int    `toml:"hash_base"`
	HashModulus      int    `toml:"hash_modulus"`
}

// CompleteConfig holds completion index options.
type CompleteConfig struct {
	MaxResults       int `toml:"max_results"`
	MaxFuzzyDistance int `toml:"max_fuzzy_distance"`
}

// DiffConfig holds diff engine options.
type DiffConfig struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// StorageConfig holds persistence options.
type StorageConfig struct {
	Dir        string `toml:"dir"`
	MaxAgeDays int    `toml:"max_age_days"`
	AutoSave   bool   `toml:"auto_save"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.ExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "editcore")
	if status := utils.CheckDir(primaryPath); status.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "editcore")
	if status := utils.CheckDir(macOSPath); status.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/editcore/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxTextBytes: 4 << 20,
			HistoryLimit: 100,
		},
		Search: SearchConfig{
			DefaultAlgorithm: "kmp",
			CaseSensitive:    true,
			WholeWord:        false,
			HashBase:         256,
			HashModulus:      2147483647,
		},
		Complete: CompleteConfig{
			MaxResults:       20,
			MaxFuzzyDistance: 2,
		},
		Diff: DiffConfig{
			SimilarityThreshold: 0.3,
		},
		Storage: StorageConfig{
			Dir:        "",
			MaxAgeDays: 30,
			AutoSave:   true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever valid sections a broken TOML file
// still has, defaults filling the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	loose, err := utils.ParseTOMLRecovering(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.Section(loose, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.Section(loose, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.Section(loose, "complete"); ok {
		extractCompleteConfig(section, &config.Complete)
	}
	if section, ok := utils.Section(loose, "diff"); ok {
		extractDiffConfig(section, &config.Diff)
	}
	if section, ok := utils.Section(loose, "storage"); ok {
		extractStorageConfig(section, &config.Storage)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.IntValue(data, "max_text_bytes"); ok {
		server.MaxTextBytes = val
	}
	if val, ok := utils.IntValue(data, "history_limit"); ok {
		server.HistoryLimit = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.StringValue(data, "default_algorithm"); ok {
		search.DefaultAlgorithm = val
	}
	if val, ok := utils.BoolValue(data, "case_sensitive"); ok {
		search.CaseSensitive = val
	}
	if val, ok := utils.BoolValue(data, "whole_word"); ok {
		search.WholeWord = val
	}
	if val, ok := utils.IntValue(data, "hash_base"); ok {
		search.HashBase = val
	}
	if val, ok := utils.IntValue(data, "hash_modulus"); ok {
		search.HashModulus = val
	}
}

func extractCompleteConfig(data map[string]any, complete *CompleteConfig) {
	if val, ok := utils.IntValue(data, "max_results"); ok {
		complete.MaxResults = val
	}
	if val, ok := utils.IntValue(data, "max_fuzzy_distance"); ok {
		complete.MaxFuzzyDistance = val
	}
}

func extractDiffConfig(data map[string]any, diff *DiffConfig) {
	if val, ok := utils.FloatValue(data, "similarity_threshold"); ok {
		diff.SimilarityThreshold = val
	}
}

func extractStorageConfig(data map[string]any, storage *StorageConfig) {
	if val, ok := utils.StringValue(data, "dir"); ok {
		storage.Dir = val
	}
	if val, ok := utils.IntValue(data, "max_age_days"); ok {
		storage.MaxAgeDays = val
	}
	if val, ok := utils.BoolValue(data, "auto_save"); ok {
		storage.AutoSave = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes search config values and saves to file
func (c *Config) Update(configPath string, algorithm *string, caseSensitive, wholeWord *bool, maxResults *int) error {
	if algorithm != nil {
		c.Search.DefaultAlgorithm = *algorithm
	}
	if caseSensitive != nil {
		c.Search.CaseSensitive = *caseSensitive
	}
	if wholeWord != nil {
		c.Search.WholeWord = *wholeWord
	}
	if maxResults != nil {
		c.Complete.MaxResults = *maxResults
	}
	return SaveConfig(c, configPath)
}
