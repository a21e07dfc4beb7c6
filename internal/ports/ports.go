package ports

import (
	"context"

	"lyricsync/internal/segment"
)

// ClipTranscript is the raw speech-to-text output for one clip. Word
// timestamps are clip-relative (the first audible word is near zero).
type ClipTranscript struct {
	Words   []segment.Word
	RawText string
}

// LyricLine is one canonical reference line of the full song. LineIndex
// increases strictly by one across a corpus. Timestamps are absolute within
// the full song and only present when Timed is true (synced lyrics); plain
// lyrics carry text only.
type LyricLine struct {
	LineIndex int
	Text      string
	StartSec  float64
	EndSec    float64
	Timed     bool
}

// AlignmentResult carries refined clip-relative word timestamps for exactly
// the text that was submitted for alignment. Loss is a non-negative badness
// score; its scale is provider-defined and only comparable within one
// provider. HasLoss is false when the provider reports no quality signal.
type AlignmentResult struct {
	Words    []segment.Word
	Loss     float64
	HasLoss  bool
	Provider string
}

// Transcriber converts clip audio into a timestamped transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageHint string) (ClipTranscript, error)
	Name() string
}

// Aligner force-aligns clip audio against known reference text, producing
// per-word timestamps.
type Aligner interface {
	Align(ctx context.Context, audio []byte, referenceText string) (AlignmentResult, error)
	Name() string
}

// LyricsCorpus returns the ordered canonical lyric lines for a song.
// Implementations return an error wrapping services.ErrNotFound when the
// song has no corpus.
type LyricsCorpus interface {
	Lines(ctx context.Context, songID string) ([]LyricLine, error)
}

// Cache stores finished resolutions keyed by content hash. It is optional:
// a nil cache simply re-runs the (paid) provider chain on repeats.
type Cache interface {
	Get(ctx context.Context, key string) (segment.SegmentResolution, bool, error)
	Put(ctx context.Context, key string, res segment.SegmentResolution) error
}
