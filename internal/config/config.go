package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds srcup configuration. It is merged once at startup and
// passed by value into every component; nothing mutates it afterwards.
type Config struct {
	SourceDir             string `yaml:"source_dir"`
	Remote                string `yaml:"remote"`
	Branch                string `yaml:"branch"`
	BuildType             string `yaml:"build_type"`
	Verbose               bool   `yaml:"verbose"`
	CheckForUpdates       bool   `yaml:"check_for_updates"`
	UpdateIntervalSeconds int    `yaml:"update_interval"`
	DefaultKeymaps        bool   `yaml:"default_keymaps"`
}

// fileConfig mirrors Config with pointer fields so absent keys can be
// told apart from explicit zero values when merging.
type fileConfig struct {
	SourceDir             string `yaml:"source_dir"`
	Remote                string `yaml:"remote"`
	Branch                string `yaml:"branch"`
	BuildType             string `yaml:"build_type"`
	Verbose               *bool  `yaml:"verbose"`
	CheckForUpdates       *bool  `yaml:"check_for_updates"`
	UpdateIntervalSeconds *int   `yaml:"update_interval"`
	DefaultKeymaps        *bool  `yaml:"default_keymaps"`
}

// configFile is the name of the config file
const configFile = "config.yaml"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Branch:                "master",
		BuildType:             "Release",
		UpdateIntervalSeconds: 3600,
		DefaultKeymaps:        true,
	}
}

// Load loads configuration with the following precedence (highest first):
// 1. SRCUP_* environment variables
// 2. A .env file in the current directory
// 3. Global ~/.config/srcup/config.yaml
// 4. Built-in defaults
func Load() (Config, error) {
	cfg := Default()

	globalPath := globalConfigPath()
	if globalPath != "" {
		if err := loadFromFile(globalPath, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	// A missing .env is the common case, not an error.
	_ = godotenv.Load()

	applyEnv(&cfg)

	return cfg, nil
}

// globalConfigPath returns the path to the global config
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "srcup", configFile)
}

// loadFromFile loads config from a YAML file, merging present values
// into cfg. A relative source_dir is resolved against the config file's
// directory.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}

	baseDir := filepath.Dir(path)

	if fileCfg.SourceDir != "" {
		cfg.SourceDir = ExpandPath(fileCfg.SourceDir, baseDir)
	}
	if fileCfg.Remote != "" {
		cfg.Remote = fileCfg.Remote
	}
	if fileCfg.Branch != "" {
		cfg.Branch = fileCfg.Branch
	}
	if fileCfg.BuildType != "" {
		cfg.BuildType = fileCfg.BuildType
	}
	if fileCfg.Verbose != nil {
		cfg.Verbose = *fileCfg.Verbose
	}
	if fileCfg.CheckForUpdates != nil {
		cfg.CheckForUpdates = *fileCfg.CheckForUpdates
	}
	if fileCfg.UpdateIntervalSeconds != nil {
		cfg.UpdateIntervalSeconds = *fileCfg.UpdateIntervalSeconds
	}
	if fileCfg.DefaultKeymaps != nil {
		cfg.DefaultKeymaps = *fileCfg.DefaultKeymaps
	}

	return nil
}

// applyEnv applies environment variables to config
func applyEnv(cfg *Config) {
	if v := os.Getenv("SRCUP_SOURCE_DIR"); v != "" {
		cfg.SourceDir = ExpandPath(v, "")
	}
	if v := os.Getenv("SRCUP_REMOTE"); v != "" {
		cfg.Remote = v
	}
	if v := os.Getenv("SRCUP_BRANCH"); v != "" {
		cfg.Branch = v
	}
	if v := os.Getenv("SRCUP_BUILD_TYPE"); v != "" {
		cfg.BuildType = v
	}
	if v := os.Getenv("SRCUP_VERBOSE"); v != "" {
		cfg.Verbose = isTruthy(v)
	}
	if v := os.Getenv("SRCUP_CHECK_FOR_UPDATES"); v != "" {
		cfg.CheckForUpdates = isTruthy(v)
	}
	if v := os.Getenv("SRCUP_UPDATE_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UpdateIntervalSeconds = n
		}
	}
	if v := os.Getenv("SRCUP_DEFAULT_KEYMAPS"); v != "" {
		cfg.DefaultKeymaps = isTruthy(v)
	}
}

func isTruthy(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}

// ExpandPath expands ~ and makes path absolute relative to base
func ExpandPath(path, base string) string {
	if path == "" {
		return ""
	}

	// Expand ~
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	// Make absolute if relative
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}

	return path
}
