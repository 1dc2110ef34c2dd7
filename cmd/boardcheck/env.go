package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/buckleypaul/boardcheck/internal/cli"
	"github.com/buckleypaul/boardcheck/internal/config"
	"github.com/buckleypaul/boardcheck/internal/store"
)

// loadConfig merges file config with flags; flags win.
func loadConfig() config.Config {
	cfg := config.Load(opts.DataDir)
	if opts.CLIPath != "" {
		cfg.CLIPath = opts.CLIPath
	}
	if opts.BoardsFile != "" {
		cfg.BoardsFile = opts.BoardsFile
	}
	return cfg
}

// dataDir returns the configured data dir, or a fresh temporary one so every
// run gets its own sketch path.
func dataDir() (string, error) {
	if opts.DataDir != "" {
		abs, err := filepath.Abs(opts.DataDir)
		if err != nil {
			return "", err
		}
		return abs, os.MkdirAll(abs, 0o755)
	}
	dir, err := os.MkdirTemp("", "boardcheck-")
	if err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	slog.Info("created data dir", "path", dir)
	return dir, nil
}

// newRunner resolves the CLI binary and isolates it inside dir.
func newRunner(cfg config.Config, dir string) (cli.DefaultRunner, error) {
	bin, err := cli.ResolveBinary(cfg.CLIPath)
	if err != nil {
		return cli.DefaultRunner{}, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return cli.DefaultRunner{}, err
	}
	slog.Debug("using cli", "binary", bin, "data_dir", dir, "timeout", timeout)
	return cli.DefaultRunner{Binary: bin, Env: cli.IsolatedEnv(dir), Timeout: timeout}, nil
}

// openStore returns the history store: inside an explicit data dir, otherwise
// in the user cache dir so history outlives temporary data dirs.
func openStore() (*store.Store, error) {
	if opts.DataDir != "" {
		abs, err := filepath.Abs(opts.DataDir)
		if err != nil {
			return nil, err
		}
		return store.New(filepath.Join(abs, config.DirName)), nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate history: %w", err)
	}
	return store.New(filepath.Join(cache, "boardcheck")), nil
}
