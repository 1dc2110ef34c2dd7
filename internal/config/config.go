package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/buckleypaul/boardcheck/internal/cli"
	"github.com/buckleypaul/boardcheck/internal/harness"
	"github.com/buckleypaul/boardcheck/internal/serial"
)

const DirName = ".boardcheck"

// Config holds all boardcheck configuration.
type Config struct {
	CLIPath        string `json:"cli_path,omitempty"`
	SketchName     string `json:"sketch_name,omitempty"`
	BoardsFile     string `json:"boards_file,omitempty"`
	CommandTimeout string `json:"command_timeout,omitempty"` // Go duration, e.g. "5m"; empty waits forever
	Preflight      *bool  `json:"preflight,omitempty"`
	ProbeBaudRate  int    `json:"probe_baud_rate,omitempty"`
	History        *bool  `json:"history,omitempty"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		CLIPath:       cli.DefaultBinary,
		SketchName:    harness.DefaultSketchName,
		ProbeBaudRate: serial.DefaultProbeBaudRate,
	}
}

// Timeout parses CommandTimeout. An empty value means no timeout.
func (c Config) Timeout() (time.Duration, error) {
	if c.CommandTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil {
		return 0, fmt.Errorf("command_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("command_timeout: negative duration %s", d)
	}
	return d, nil
}

// HistoryEnabled reports whether runs are recorded; it defaults to true.
func (c Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// PreflightEnabled reports whether ports are probed before upload; it
// defaults to false.
func (c Config) PreflightEnabled() bool {
	return c.Preflight != nil && *c.Preflight
}

// Load reads and merges global and data-dir configs.
// Order: defaults → global (~/.config/boardcheck/config.json) → data dir (.boardcheck/config.json).
func Load(dataDir string) Config {
	cfg := Defaults()

	if home, err := os.UserHomeDir(); err == nil {
		mergeFromFile(&cfg, filepath.Join(home, ".config", "boardcheck", "config.json"))
	}

	if dataDir != "" {
		mergeFromFile(&cfg, filepath.Join(dataDir, DirName, "config.json"))
	}

	return cfg
}

// Path returns the config file for the data dir, or the global config file
// if global is true.
func Path(dataDir string, global bool) (string, error) {
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "boardcheck", "config.json"), nil
	}
	if dataDir == "" {
		return "", fmt.Errorf("no data dir for config")
	}
	return filepath.Join(dataDir, DirName, "config.json"), nil
}

// ReadFile returns the config stored at path alone, without defaults or
// other layers. A missing file yields an empty Config.
func ReadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to <dataDir>/.boardcheck/config.json by default,
// or to the global config if global is true.
func Save(cfg Config, dataDir string, global bool) error {
	path, err := Path(dataDir, global)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func mergeFromFile(cfg *Config, path string) {
	fileCfg, err := ReadFile(path)
	if err != nil {
		return
	}

	if fileCfg.CLIPath != "" {
		cfg.CLIPath = fileCfg.CLIPath
	}
	if fileCfg.SketchName != "" {
		cfg.SketchName = fileCfg.SketchName
	}
	if fileCfg.BoardsFile != "" {
		cfg.BoardsFile = fileCfg.BoardsFile
	}
	if fileCfg.CommandTimeout != "" {
		cfg.CommandTimeout = fileCfg.CommandTimeout
	}
	if fileCfg.Preflight != nil {
		cfg.Preflight = fileCfg.Preflight
	}
	if fileCfg.ProbeBaudRate != 0 {
		cfg.ProbeBaudRate = fileCfg.ProbeBaudRate
	}
	if fileCfg.History != nil {
		cfg.History = fileCfg.History
	}
}
