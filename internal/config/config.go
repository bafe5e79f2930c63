// Package config loads the engine's tunables from an optional YAML file.
// An optional liquidmap.yaml under the config root backs every tunable;
// absence is not an error and every field falls back to its named default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codegraph/liquidmap/internal/propagate"
)

// configRootEnvVar overrides the platform-default per-user config
// directory.
const configRootEnvVar = "LIQUIDMAP_CONFIG_ROOT"

// fileName is the optional config file's name under the config root.
const fileName = "liquidmap.yaml"

// ColdStart bounds the cold-start project scan: a file-count ceiling and a
// wall-clock ceiling, whichever comes first.
type ColdStart struct {
	MaxFiles int
	MaxTime  time.Duration
}

// DefaultColdStart is the engine's default cold-start scan bound.
func DefaultColdStart() ColdStart {
	return ColdStart{MaxFiles: 200, MaxTime: 7 * time.Second}
}

// Config is the engine's full set of tunables.
type Config struct {
	Propagate propagate.Config
	ColdStart ColdStart
}

// Default returns the engine's tunables with every default applied,
// equivalent to no config file being present.
func Default() Config {
	return Config{
		Propagate: propagate.DefaultConfig(),
		ColdStart: DefaultColdStart(),
	}
}

// Root resolves the config root directory: configRootEnvVar if set,
// otherwise the platform-appropriate per-user config directory joined with
// "liquidmap".
func Root() (string, error) {
	if override := os.Getenv(configRootEnvVar); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(base, "liquidmap"), nil
}

// doc mirrors Config's shape for YAML decoding. Durations are spelled in
// milliseconds/seconds as plain integers rather than as time.Duration
// directly: yaml.v3 has no built-in support for decoding a duration string
// like "50ms" into an int64-backed type, so this package owns the
// conversion instead of silently failing on a duration override. Every
// field is a pointer so an absent key leaves the corresponding Default()
// value untouched rather than zeroing it.
type doc struct {
	Propagate *struct {
		MaxSyncUpdates    *int     `yaml:"max_sync_updates"`
		MaxAsyncUpdates   *int     `yaml:"max_async_updates"`
		MaxDepth          *int     `yaml:"max_depth"`
		SyncTimeoutMillis *int     `yaml:"sync_timeout_ms"`
		OpenFileBoost     *float64 `yaml:"open_file_boost"`
		RecentEditBoost   *float64 `yaml:"recent_edit_boost"`
		TestFilePenalty   *float64 `yaml:"test_file_penalty"`
		DepthPenalty      *float64 `yaml:"depth_penalty"`
	} `yaml:"propagate"`
	ColdStart *struct {
		MaxFiles       *int `yaml:"max_files"`
		MaxTimeSeconds *int `yaml:"max_time_seconds"`
	} `yaml:"cold_start"`
}

// Load reads liquidmap.yaml from configRoot, overlaying any present fields
// onto Default()'s values. A missing file returns Default() with no error;
// an unparseable file is reported so the caller can warn and proceed with
// Default() rather than failing cold start outright.
func Load(configRoot string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configRoot, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var d doc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Default(), fmt.Errorf("parse config file: %w", err)
	}

	if p := d.Propagate; p != nil {
		if p.MaxSyncUpdates != nil {
			cfg.Propagate.MaxSyncUpdates = *p.MaxSyncUpdates
		}
		if p.MaxAsyncUpdates != nil {
			cfg.Propagate.MaxAsyncUpdates = *p.MaxAsyncUpdates
		}
		if p.MaxDepth != nil {
			cfg.Propagate.MaxDepth = *p.MaxDepth
		}
		if p.SyncTimeoutMillis != nil {
			cfg.Propagate.SyncTimeout = time.Duration(*p.SyncTimeoutMillis) * time.Millisecond
		}
		if p.OpenFileBoost != nil {
			cfg.Propagate.OpenFileBoost = *p.OpenFileBoost
		}
		if p.RecentEditBoost != nil {
			cfg.Propagate.RecentEditBoost = *p.RecentEditBoost
		}
		if p.TestFilePenalty != nil {
			cfg.Propagate.TestFilePenalty = *p.TestFilePenalty
		}
		if p.DepthPenalty != nil {
			cfg.Propagate.DepthPenalty = *p.DepthPenalty
		}
	}
	if c := d.ColdStart; c != nil {
		if c.MaxFiles != nil {
			cfg.ColdStart.MaxFiles = *c.MaxFiles
		}
		if c.MaxTimeSeconds != nil {
			cfg.ColdStart.MaxTime = time.Duration(*c.MaxTimeSeconds) * time.Second
		}
	}

	return cfg, nil
}
