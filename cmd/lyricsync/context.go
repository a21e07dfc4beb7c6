package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"lyricsync/internal/config"
	"lyricsync/internal/logging"
	"lyricsync/internal/ports"
	"lyricsync/internal/providers/lrclib"
	"lyricsync/internal/providers/whisperx"
	"lyricsync/internal/resolve"
	"lyricsync/internal/resolvecache"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		outputs := []string{"stderr"}
		if strings.TrimSpace(cfg.Paths.LogDir) != "" {
			outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "lyricsync.log"))
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newCorpus() (ports.LyricsCorpus, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return lrclib.New(lrclib.Config{
		BaseURL:    cfg.LRCLib.BaseURL,
		UserAgent:  cfg.LRCLib.UserAgent,
		HTTPClient: lrclibHTTPClient(cfg),
		Logger:     logger,
	})
}

// newResolver assembles the full resolution stack from configuration. The
// returned cleanup closes the cache store and must run after resolution.
func (c *commandContext) newResolver() (*resolve.Resolver, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	corpus, err := c.newCorpus()
	if err != nil {
		return nil, nil, err
	}

	service := whisperx.NewService(whisperx.Config{
		Binary:      cfg.WhisperX.Binary,
		Model:       cfg.WhisperX.Model,
		CUDAEnabled: cfg.WhisperX.CUDAEnabled,
		AlignModel:  cfg.WhisperX.AlignModel,
	}, cfg.Paths.WorkDir, logger)

	cleanup := func() {}
	var cache ports.Cache
	if cfg.Cache.Enabled {
		cachePath := cfg.CachePath()
		if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create cache directory: %w", err)
		}
		store, err := resolvecache.Open(cachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open resolution cache: %w", err)
		}
		cache = store
		cleanup = func() { _ = store.Close() }
	}

	policy := resolve.DefaultPolicy()
	policy.AcceptanceThreshold = cfg.Resolver.AcceptanceThreshold
	policy.CandidateFloor = cfg.Resolver.CandidateFloor
	policy.MinWindowLines = cfg.Resolver.MinWindowLines
	policy.MaxWindowLines = cfg.Resolver.MaxWindowLines

	strategies := make([]resolve.Strategy, 0, len(cfg.Strategies))
	for _, s := range cfg.Strategies {
		strategies = append(strategies, resolve.Strategy{
			Name:        s.Name,
			Transcriber: s.Transcriber,
			Aligner:     s.Aligner,
			Language:    s.Language,
		})
	}

	resolver, err := resolve.New(resolve.Options{
		Policy:          policy,
		Strategies:      strategies,
		Transcribers:    []ports.Transcriber{service},
		Aligners:        []ports.Aligner{service},
		Corpus:          corpus,
		Cache:           cache,
		Logger:          logger,
		CallTimeout:     time.Duration(cfg.Resolver.CallTimeoutSeconds) * time.Second,
		OverallDeadline: time.Duration(cfg.Resolver.OverallDeadlineSeconds) * time.Second,
		PaceDelay:       time.Duration(cfg.Resolver.PaceDelayMillis) * time.Millisecond,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return resolver, cleanup, nil
}
