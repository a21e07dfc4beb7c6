package config

import "strings"

// normalize trims string fields, restores defaults for blanked values, and
// expands filesystem paths.
func (c *Config) normalize() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	c.WhisperX.Binary = strings.TrimSpace(c.WhisperX.Binary)
	if c.WhisperX.Binary == "" {
		c.WhisperX.Binary = defaultWhisperXBinary
	}
	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	c.WhisperX.AlignModel = strings.TrimSpace(c.WhisperX.AlignModel)

	c.LRCLib.BaseURL = strings.TrimSpace(c.LRCLib.BaseURL)
	if c.LRCLib.BaseURL == "" {
		c.LRCLib.BaseURL = defaultLRCLibURL
	}
	c.LRCLib.UserAgent = strings.TrimSpace(c.LRCLib.UserAgent)
	if c.LRCLib.UserAgent == "" {
		c.LRCLib.UserAgent = defaultLRCLibAgent
	}
	if c.LRCLib.TimeoutSeconds <= 0 {
		c.LRCLib.TimeoutSeconds = defaultLRCLibTimeoutSeconds
	}

	if c.Resolver.CallTimeoutSeconds <= 0 {
		c.Resolver.CallTimeoutSeconds = defaultCallTimeoutSeconds
	}
	if c.Resolver.OverallDeadlineSeconds <= 0 {
		c.Resolver.OverallDeadlineSeconds = defaultOverallDeadlineSeconds
	}
	if c.Resolver.MinWindowLines <= 0 {
		c.Resolver.MinWindowLines = defaultMinWindowLines
	}
	if c.Resolver.MaxWindowLines <= 0 {
		c.Resolver.MaxWindowLines = defaultMaxWindowLines
	}
	if c.Resolver.BatchLimit <= 0 {
		c.Resolver.BatchLimit = defaultBatchLimit
	}

	for i := range c.Strategies {
		s := &c.Strategies[i]
		s.Name = strings.TrimSpace(s.Name)
		s.Transcriber = strings.ToLower(strings.TrimSpace(s.Transcriber))
		s.Aligner = strings.ToLower(strings.TrimSpace(s.Aligner))
		s.Language = strings.ToLower(strings.TrimSpace(s.Language))
		if s.Language == "" {
			s.Language = "und"
		}
	}

	for _, field := range []*string{&c.Paths.CacheDir, &c.Paths.WorkDir, &c.Paths.LogDir, &c.Cache.Path} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
