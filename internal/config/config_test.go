package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Strategies) == 0 {
		t.Fatal("default config should define at least one strategy")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for a missing file")
	}
	if resolved == "" {
		t.Fatal("expected a resolved path even when the file is missing")
	}
	if cfg.Resolver.AcceptanceThreshold != defaultAcceptanceThreshold {
		t.Fatalf("expected default acceptance threshold, got %v", cfg.Resolver.AcceptanceThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "json"
level = "debug"

[resolver]
acceptance_threshold = 0.85
pace_delay_ms = 250

[whisperx]
model = "medium"
cuda_enabled = true

[[strategy]]
name = "only"
transcriber = "WhisperX"
aligner = "whisperx"
`)
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging overrides not applied: %+v", cfg.Logging)
	}
	if cfg.Resolver.AcceptanceThreshold != 0.85 {
		t.Fatalf("acceptance threshold override not applied: %v", cfg.Resolver.AcceptanceThreshold)
	}
	if cfg.Resolver.PaceDelayMillis != 250 {
		t.Fatalf("pace delay override not applied: %v", cfg.Resolver.PaceDelayMillis)
	}
	if cfg.WhisperX.Model != "medium" || !cfg.WhisperX.CUDAEnabled {
		t.Fatalf("whisperx overrides not applied: %+v", cfg.WhisperX)
	}
	if len(cfg.Strategies) != 1 {
		t.Fatalf("strategy list should replace defaults, got %d entries", len(cfg.Strategies))
	}
	if cfg.Strategies[0].Transcriber != "whisperx" {
		t.Fatalf("transcriber should be lowercased: %q", cfg.Strategies[0].Transcriber)
	}
	if cfg.Strategies[0].Language != "und" {
		t.Fatalf("blank language should default to und: %q", cfg.Strategies[0].Language)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "bad log format",
			contents: "[logging]\nformat = \"xml\"\n",
			want:     "logging.format",
		},
		{
			name:     "threshold out of range",
			contents: "[resolver]\nacceptance_threshold = 1.5\n",
			want:     "acceptance_threshold",
		},
		{
			name:     "floor above acceptance",
			contents: "[resolver]\nacceptance_threshold = 0.5\ncandidate_floor = 0.6\n",
			want:     "candidate_floor",
		},
		{
			name:     "window bounds inverted",
			contents: "[resolver]\nmin_window_lines = 9\nmax_window_lines = 3\n",
			want:     "min_window_lines",
		},
		{
			name:     "negative pace delay",
			contents: "[resolver]\npace_delay_ms = -1\n",
			want:     "pace_delay_ms",
		},
		{
			name:     "strategy without transcriber",
			contents: "[[strategy]]\nname = \"broken\"\naligner = \"whisperx\"\n",
			want:     "transcriber",
		},
		{
			name:     "duplicate strategy names",
			contents: "[[strategy]]\nname = \"a\"\ntranscriber = \"whisperx\"\naligner = \"whisperx\"\n[[strategy]]\nname = \"a\"\ntranscriber = \"whisperx\"\naligner = \"whisperx\"\n",
			want:     "more than once",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			_, _, _, err := Load(path)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	var cfg Config
	if err := toml.Unmarshal([]byte(sampleConfig), &cfg); err != nil {
		t.Fatalf("sample config should parse: %v", err)
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize sample config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestCachePath(t *testing.T) {
	cfg := Default()
	cfg.Paths.CacheDir = "/var/cache/lyricsync"
	if got := cfg.CachePath(); got != filepath.Join("/var/cache/lyricsync", "resolutions.db") {
		t.Fatalf("derived cache path: %q", got)
	}
	cfg.Cache.Path = "/tmp/custom.db"
	if got := cfg.CachePath(); got != "/tmp/custom.db" {
		t.Fatalf("explicit cache path: %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[[strategy]]") {
		t.Fatal("sample config should include a strategy block")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got, err := ExpandPath("~/lyricsync-test")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "lyricsync-test") {
		t.Fatalf("expected tilde expansion, got %q", got)
	}
}
