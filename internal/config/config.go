package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Resolver contains thresholds and timing for clip resolution.
type Resolver struct {
	AcceptanceThreshold    float64 `toml:"acceptance_threshold"`
	CandidateFloor         float64 `toml:"candidate_floor"`
	CallTimeoutSeconds     int     `toml:"call_timeout_seconds"`
	OverallDeadlineSeconds int     `toml:"overall_deadline_seconds"`
	PaceDelayMillis        int     `toml:"pace_delay_ms"`
	MinWindowLines         int     `toml:"min_window_lines"`
	MaxWindowLines         int     `toml:"max_window_lines"`
	BatchLimit             int     `toml:"batch_limit"`
}

// WhisperX contains configuration for the whisperx transcription tool.
type WhisperX struct {
	Binary      string `toml:"binary"`
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	AlignModel  string `toml:"align_model"`
}

// LRCLib contains configuration for the lrclib.net lyrics provider.
type LRCLib struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Cache contains configuration for the persistent resolution cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Strategy describes one transcription/alignment attempt in the fallback
// chain. Strategies run in file order until one produces an accepted
// resolution.
type Strategy struct {
	Name        string `toml:"name"`
	Transcriber string `toml:"transcriber"`
	Aligner     string `toml:"aligner"`
	Language    string `toml:"language"`
}

// Config encapsulates all configuration values for lyricsync.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
	Resolver   Resolver   `toml:"resolver"`
	WhisperX   WhisperX   `toml:"whisperx"`
	LRCLib     LRCLib     `toml:"lrclib"`
	Cache      Cache      `toml:"cache"`
	Strategies []Strategy `toml:"strategy"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lyricsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// toml appends array tables to a pre-populated slice, so strategies
		// from a file must replace the defaults rather than pile onto them.
		defaultStrategies := cfg.Strategies
		cfg.Strategies = nil

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Strategies) == 0 {
			cfg.Strategies = defaultStrategies
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lyricsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the resolver writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CachePath returns the resolution cache database path, deriving it from
// CacheDir when not set explicitly.
func (c *Config) CachePath() string {
	if strings.TrimSpace(c.Cache.Path) != "" {
		return c.Cache.Path
	}
	return filepath.Join(c.Paths.CacheDir, "resolutions.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
