package resolve

import "lyricsync/internal/segment"

// buildResolution assembles the final accepted result. Pure assembly: no
// I/O, no failure mode.
func buildResolution(req Request, boundary resolvedBoundary, confidence float64, attempts []segment.ProviderAttempt) segment.SegmentResolution {
	return segment.SegmentResolution{
		SongID:           req.SongID,
		ClipDurationSec:  req.ClipDurationSec,
		ResolvedStartSec: boundary.StartSec,
		ResolvedEndSec:   boundary.EndSec,
		Confidence:       confidence,
		Status:           segment.StatusResolved,
		Lines:            boundary.Lines,
		ProviderChain:    append([]segment.ProviderAttempt(nil), attempts...),
	}
}

// buildUnresolved assembles the terminal failure result. Never nil, never an
// error: the provider chain is the caller's only failure signal.
func buildUnresolved(req Request, attempts []segment.ProviderAttempt) segment.SegmentResolution {
	return segment.SegmentResolution{
		SongID:          req.SongID,
		ClipDurationSec: req.ClipDurationSec,
		Status:          segment.StatusUnresolved,
		Lines:           []segment.LineWithWords{},
		ProviderChain:   append([]segment.ProviderAttempt(nil), attempts...),
	}
}
