// Package config loads lazyfs settings from defaults, a project file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// FileName is the per-project configuration file looked up from the root upwards.
const FileName = ".lazyfs.json"

// EnvPrefix prefixes every environment override, e.g. LAZYFS_BACKEND.
const EnvPrefix = "LAZYFS"

// Backend kinds.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendMemory = "memory"
)

// Config holds all application configuration.
//
// envconfig tags carry no defaults: an unset variable must not override the file.
type Config struct {
	Backend              string   `json:"backend" envconfig:"BACKEND"`
	RemoteURL            string   `json:"remote_url" envconfig:"REMOTE_URL"`
	RemoteTimeoutSeconds int      `json:"remote_timeout_seconds" envconfig:"REMOTE_TIMEOUT_SECONDS"`
	RemoteRetries        int      `json:"remote_retries" envconfig:"REMOTE_RETRIES"`
	RemoteToken          string   `json:"-" envconfig:"REMOTE_TOKEN"`
	TreeFile             string   `json:"tree_file" envconfig:"TREE_FILE"`
	RootDirsDeletable    bool     `json:"root_directories_are_deletable" envconfig:"ROOT_DIRECTORIES_ARE_DELETABLE"`
	ConfirmDelete        bool     `json:"confirm_delete" envconfig:"CONFIRM_DELETE"`
	Watch                bool     `json:"watch" envconfig:"WATCH"`
	Ignore               []string `json:"ignore" envconfig:"IGNORE"`
	LogLevel             string   `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFile              string   `json:"log_file" envconfig:"LOG_FILE"`
	OpenCommand          string   `json:"open_command" envconfig:"OPEN_COMMAND"`

	// Source is the file the configuration was read from, if any.
	Source string `json:"-" ignored:"true"`
}

// Default returns default configuration.
func Default() Config {
	return Config{
		Backend:              BackendLocal,
		RemoteTimeoutSeconds: 30,
		RemoteRetries:        2,
		RootDirsDeletable:    true,
		ConfirmDelete:        true,
		Watch:                true,
		LogLevel:             "info",
	}
}

// Load builds the configuration for root: defaults, then the nearest .lazyfs.json in root
// or one of its parents, then LAZYFS_* environment variables. Callers apply their own
// overrides and then Validate.
func Load(root string) (Config, error) {
	cfg := Default()

	file, err := findFile(root)
	if err != nil {
		return cfg, err
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", file, err)
		}
		cfg.Source = file
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// findFile walks up from root looking for FileName.
func findFile(root string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.RemoteURL == "" {
			errs = append(errs, errors.New("remote backend requires remote_url"))
		}
	case BackendMemory:
		if c.TreeFile == "" {
			errs = append(errs, errors.New("memory backend requires tree_file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.RemoteTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("remote_timeout_seconds must be positive, got %d", c.RemoteTimeoutSeconds))
	}
	if c.RemoteRetries < 0 {
		errs = append(errs, fmt.Errorf("remote_retries must not be negative, got %d", c.RemoteRetries))
	}
	return errors.Join(errs...)
}

// RemoteTimeout returns the remote request timeout.
func (c Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}
