package segment

import "time"

// Status reports whether a resolution attempt produced a usable segment.
type Status string

const (
	StatusResolved   Status = "RESOLVED"
	StatusUnresolved Status = "UNRESOLVED"
)

// Word is a single timestamped token. Timestamps are clip-relative seconds
// with StartSec <= EndSec.
type Word struct {
	Text     string  `json:"text"`
	StartSec float64 `json:"startSec"`
	EndSec   float64 `json:"endSec"`
}

// LineWithWords is a resolved lyric line whose timestamps have been
// re-expressed clip-relative (0 at the resolved segment start).
type LineWithWords struct {
	LineIndex int     `json:"lineIndex"`
	Text      string  `json:"text"`
	StartSec  float64 `json:"startSec"`
	EndSec    float64 `json:"endSec"`
	Words     []Word  `json:"words"`
}

// ProviderAttempt is one append-only audit entry describing a strategy run.
// Attempts are never mutated after creation.
type ProviderAttempt struct {
	Provider  string    `json:"provider"`
	Strategy  string    `json:"strategy"`
	StartedAt time.Time `json:"startedAt"`
	Succeeded bool      `json:"succeeded"`
	ErrorKind string    `json:"errorKind,omitempty"`
}

// SegmentResolution is the final result of resolving a clip against a song.
// A status of UNRESOLVED means every configured strategy was attempted and
// none produced an acceptable segment; the provider chain explains why.
type SegmentResolution struct {
	SongID           string            `json:"songId"`
	ClipDurationSec  float64           `json:"clipDurationSec"`
	ResolvedStartSec float64           `json:"resolvedStartSec"`
	ResolvedEndSec   float64           `json:"resolvedEndSec"`
	Confidence       float64           `json:"confidence"`
	Status           Status            `json:"status"`
	Lines            []LineWithWords   `json:"lines"`
	ProviderChain    []ProviderAttempt `json:"providerChain"`
}

// Resolved reports whether the resolution was accepted.
func (r SegmentResolution) Resolved() bool {
	return r.Status == StatusResolved
}
