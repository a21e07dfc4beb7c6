package resolve

import (
	"math"

	"lyricsync/internal/ports"
	"lyricsync/internal/segment"
	"lyricsync/internal/services"
	"lyricsync/internal/textutil"
)

// resolvedBoundary is the clip's absolute placement in the song plus the
// matched lines re-expressed clip-relative.
type resolvedBoundary struct {
	StartSec float64
	EndSec   float64
	Lines    []segment.LineWithWords
}

// resolveBoundary fuses the coarse corpus anchor with the fine alignment
// offset. The corpus anchor may be stale or approximate; the first aligned
// word is precise, so resolvedStart = coarseAnchor - firstWordStart corrects
// the coarse guess by however far into the clip the window text begins.
func resolveBoundary(window MatchWindow, alignment ports.AlignmentResult, clipDurationSec, songDurationSec float64, corpus []ports.LyricLine) (resolvedBoundary, error) {
	coarse, ok := coarseAnchor(window, alignment, clipDurationSec, songDurationSec, corpus)
	if !ok {
		return resolvedBoundary{}, services.Wrap(services.ErrValidation, "boundary", "anchor", "no corpus anchor and no alignment words", nil)
	}

	fine := 0.0
	if len(alignment.Words) > 0 {
		fine = alignment.Words[0].StartSec
	}

	start := coarse - fine
	if math.IsNaN(start) || math.IsInf(start, 0) {
		return resolvedBoundary{}, services.Wrap(services.ErrValidation, "boundary", "offset", "offset is not finite", nil)
	}
	if start < 0 {
		start = 0
	}
	end := start + clipDurationSec

	lines := buildClipLines(window, alignment, start, clipDurationSec)
	return resolvedBoundary{StartSec: start, EndSec: end, Lines: lines}, nil
}

// coarseAnchor estimates where the matched window begins in the full song.
// Timed corpora anchor directly; otherwise the line position interpolates
// against the song duration, estimated from the clip's word rate when the
// caller does not know it.
func coarseAnchor(window MatchWindow, alignment ports.AlignmentResult, clipDurationSec, songDurationSec float64, corpus []ports.LyricLine) (float64, bool) {
	if window.Timed {
		return window.ApproxStartSec, true
	}
	if len(corpus) == 0 {
		return 0, false
	}

	songDur := songDurationSec
	if songDur <= 0 {
		songDur = estimateSongDuration(alignment, clipDurationSec, corpus)
	}
	if songDur <= 0 {
		return 0, false
	}
	return float64(window.StartLine) / float64(len(corpus)) * songDur, true
}

func estimateSongDuration(alignment ports.AlignmentResult, clipDurationSec float64, corpus []ports.LyricLine) float64 {
	if len(alignment.Words) == 0 || clipDurationSec <= 0 {
		return 0
	}
	wordsPerSec := float64(len(alignment.Words)) / clipDurationSec
	if wordsPerSec <= 0 {
		return 0
	}
	totalWords := 0
	for _, line := range corpus {
		totalWords += len(textutil.Tokenize(line.Text))
	}
	return float64(totalWords) / wordsPerSec
}

// buildClipLines re-expresses matched lines clip-relative. Timed lines shift
// their corpus timestamps by the resolved start; untimed lines take their
// boundaries from the alignment words assigned to them. Lines falling
// entirely outside [0, clipDurationSec] are dropped.
func buildClipLines(window MatchWindow, alignment ports.AlignmentResult, resolvedStartSec, clipDurationSec float64) []segment.LineWithWords {
	groups := splitWordsByLine(window.Lines, alignment.Words)

	lines := make([]segment.LineWithWords, 0, len(window.Lines))
	for i, line := range window.Lines {
		words := clampWords(groups[i], clipDurationSec)

		var startSec, endSec float64
		switch {
		case line.Timed:
			startSec = line.StartSec - resolvedStartSec
			endSec = line.EndSec - resolvedStartSec
		case len(words) > 0:
			startSec = words[0].StartSec
			endSec = words[len(words)-1].EndSec
		default:
			continue
		}

		if endSec <= 0 || startSec >= clipDurationSec {
			continue
		}
		startSec = clamp(startSec, 0, clipDurationSec)
		endSec = clamp(endSec, 0, clipDurationSec)

		lines = append(lines, segment.LineWithWords{
			LineIndex: line.LineIndex,
			Text:      line.Text,
			StartSec:  startSec,
			EndSec:    endSec,
			Words:     words,
		})
	}
	return lines
}

// splitWordsByLine walks the alignment words in order, assigning each line as
// many words as its text has tokens. The alignment was produced from exactly
// the window's text, so counts line up except when a provider drops words;
// then trailing lines simply receive fewer.
func splitWordsByLine(lines []ports.LyricLine, words []segment.Word) [][]segment.Word {
	groups := make([][]segment.Word, len(lines))
	cursor := 0
	for i, line := range lines {
		count := len(textutil.Tokenize(line.Text))
		if count == 0 {
			continue
		}
		end := cursor + count
		if end > len(words) {
			end = len(words)
		}
		if cursor < end {
			groups[i] = append([]segment.Word(nil), words[cursor:end]...)
		}
		cursor = end
	}
	// Any provider extras beyond the final line's token count attach to the
	// last line so no timed word is silently discarded.
	if cursor < len(words) && len(lines) > 0 {
		last := len(lines) - 1
		groups[last] = append(groups[last], words[cursor:]...)
	}
	return groups
}

func clampWords(words []segment.Word, clipDurationSec float64) []segment.Word {
	if len(words) == 0 {
		return nil
	}
	out := make([]segment.Word, 0, len(words))
	prevEnd := 0.0
	for _, word := range words {
		start := clamp(word.StartSec, 0, clipDurationSec)
		end := clamp(word.EndSec, 0, clipDurationSec)
		if start < prevEnd {
			start = prevEnd
		}
		if end < start {
			end = start
		}
		prevEnd = end
		out = append(out, segment.Word{Text: word.Text, StartSec: start, EndSec: end})
	}
	return out
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
