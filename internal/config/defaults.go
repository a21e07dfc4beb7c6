package config

const (
	defaultCacheDir    = "~/.local/share/lyricsync/cache"
	defaultWorkDir     = "~/.local/share/lyricsync/work"
	defaultLogDir      = "~/.local/share/lyricsync/logs"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultLRCLibURL   = "https://lrclib.net"
	defaultLRCLibAgent = "lyricsync/1.0 (https://github.com/lyricsync/lyricsync)"

	defaultAcceptanceThreshold    = 0.70
	defaultCandidateFloor         = 0.40
	defaultCallTimeoutSeconds     = 15
	defaultOverallDeadlineSeconds = 30
	defaultMinWindowLines         = 1
	defaultMaxWindowLines         = 8
	defaultBatchLimit             = 4
	defaultLRCLibTimeoutSeconds   = 30
	defaultWhisperXBinary         = "whisperx"
	defaultWhisperXModel          = "large-v3"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Resolver: Resolver{
			AcceptanceThreshold:    defaultAcceptanceThreshold,
			CandidateFloor:         defaultCandidateFloor,
			CallTimeoutSeconds:     defaultCallTimeoutSeconds,
			OverallDeadlineSeconds: defaultOverallDeadlineSeconds,
			MinWindowLines:         defaultMinWindowLines,
			MaxWindowLines:         defaultMaxWindowLines,
			BatchLimit:             defaultBatchLimit,
		},
		WhisperX: WhisperX{
			Binary: defaultWhisperXBinary,
			Model:  defaultWhisperXModel,
		},
		LRCLib: LRCLib{
			BaseURL:        defaultLRCLibURL,
			UserAgent:      defaultLRCLibAgent,
			TimeoutSeconds: defaultLRCLibTimeoutSeconds,
		},
		Cache: Cache{
			Enabled: true,
		},
		Strategies: []Strategy{
			{Name: "default", Transcriber: "whisperx", Aligner: "whisperx", Language: "en"},
			{Name: "language-agnostic", Transcriber: "whisperx", Aligner: "whisperx", Language: "und"},
		},
	}
}
