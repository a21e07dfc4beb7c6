package config

import (
	"errors"
	"fmt"
)

var validLogFormats = map[string]bool{"console": true, "json": true}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateStrategies(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateResolver() error {
	r := c.Resolver
	if r.AcceptanceThreshold < 0 || r.AcceptanceThreshold > 1 {
		return errors.New("resolver.acceptance_threshold must be between 0 and 1")
	}
	if r.CandidateFloor < 0 || r.CandidateFloor > 1 {
		return errors.New("resolver.candidate_floor must be between 0 and 1")
	}
	if r.CandidateFloor > r.AcceptanceThreshold {
		return errors.New("resolver.candidate_floor must not exceed resolver.acceptance_threshold")
	}
	if r.MinWindowLines > r.MaxWindowLines {
		return errors.New("resolver.min_window_lines must not exceed resolver.max_window_lines")
	}
	if r.PaceDelayMillis < 0 {
		return errors.New("resolver.pace_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateStrategies() error {
	if len(c.Strategies) == 0 {
		return errors.New("at least one [[strategy]] must be configured")
	}
	seen := make(map[string]bool, len(c.Strategies))
	for i, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("strategy %d: name must be set", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("strategy %q is defined more than once", s.Name)
		}
		seen[s.Name] = true
		if s.Transcriber == "" {
			return fmt.Errorf("strategy %q: transcriber must be set", s.Name)
		}
		if s.Aligner == "" {
			return fmt.Errorf("strategy %q: aligner must be set", s.Name)
		}
	}
	return nil
}
