package resolve

import (
	"math"
	"strings"

	"lyricsync/internal/ports"
	"lyricsync/internal/textutil"
)

// MatchWindow is a candidate contiguous run of corpus lines hypothesized to
// match the clip. Approx timestamps are corpus-absolute and only meaningful
// when Timed is true.
type MatchWindow struct {
	StartLine      int
	EndLine        int
	Similarity     float64
	ApproxStartSec float64
	ApproxEndSec   float64
	Timed          bool
	Lines          []ports.LyricLine
}

// similarityTieEpsilon treats scores this close as equal so ties break toward
// the earlier song position.
const similarityTieEpsilon = 1e-9

// findWindow slides a variable-size window of corpus lines and returns the
// best-scoring one, or ok=false when nothing clears the candidate floor.
func findWindow(transcript ports.ClipTranscript, corpus []ports.LyricLine, clipDurationSec float64, policy Policy) (MatchWindow, bool) {
	clipNorm := normalizeTranscript(transcript)
	if clipNorm == "" || len(corpus) == 0 {
		return MatchWindow{}, false
	}
	clipPrint := textutil.NewFingerprint(clipNorm)

	lineNorms := make([]string, len(corpus))
	for i, line := range corpus {
		lineNorms[i] = textutil.Normalize(line.Text)
	}

	minLines, maxLines := windowSizeRange(corpus, clipDurationSec, policy)

	best := MatchWindow{Similarity: -1, StartLine: len(corpus)}
	found := false
	for size := minLines; size <= maxLines && size <= len(corpus); size++ {
		for start := 0; start+size <= len(corpus); start++ {
			windowNorm := joinNonEmpty(lineNorms[start : start+size])
			if windowNorm == "" {
				continue
			}
			score := scoreWindow(clipNorm, clipPrint, windowNorm)
			better := score > best.Similarity+similarityTieEpsilon ||
				(score > best.Similarity-similarityTieEpsilon && start < best.StartLine)
			if !better {
				continue
			}
			best = MatchWindow{
				StartLine:  start,
				EndLine:    start + size - 1,
				Similarity: score,
			}
			found = true
		}
	}

	if !found || best.Similarity < policy.CandidateFloor {
		return MatchWindow{}, false
	}

	best.Lines = append([]ports.LyricLine(nil), corpus[best.StartLine:best.EndLine+1]...)
	first := corpus[best.StartLine]
	last := corpus[best.EndLine]
	if first.Timed && last.Timed {
		best.Timed = true
		best.ApproxStartSec = first.StartSec
		best.ApproxEndSec = last.EndSec
	}
	return best, true
}

// scoreWindow scores a candidate window against the clip transcript. Exact
// and substring matches outrank plain token overlap, mirroring how noisy
// transcripts usually cover a window either fully or not at all.
func scoreWindow(clipNorm string, clipPrint *textutil.Fingerprint, windowNorm string) float64 {
	if clipNorm == windowNorm {
		return 1.0
	}
	if strings.Contains(windowNorm, clipNorm) {
		return 0.9
	}
	if strings.Contains(clipNorm, windowNorm) {
		return 0.8
	}
	overlap := textutil.WordOverlap(clipNorm, windowNorm)
	cosine := textutil.CosineSimilarity(clipPrint, textutil.NewFingerprint(windowNorm))
	return math.Max(overlap, cosine) * 0.7
}

// windowSizeRange bounds the line-count search. With a timed corpus the
// range derives from how many average-length lines fit the clip duration;
// otherwise a fixed policy range applies.
func windowSizeRange(corpus []ports.LyricLine, clipDurationSec float64, policy Policy) (int, int) {
	minLines := policy.MinWindowLines
	maxLines := policy.MaxWindowLines

	avg := averageLineDuration(corpus)
	if avg > 0 && clipDurationSec > 0 {
		estimate := int(math.Round(clipDurationSec / avg))
		if estimate < 1 {
			estimate = 1
		}
		minLines = estimate / 2
		if minLines < 1 {
			minLines = 1
		}
		maxLines = estimate * 2
	}

	if maxLines > len(corpus) {
		maxLines = len(corpus)
	}
	if minLines > maxLines {
		minLines = maxLines
	}
	if minLines < 1 {
		minLines = 1
	}
	return minLines, maxLines
}

func averageLineDuration(corpus []ports.LyricLine) float64 {
	var total float64
	var count int
	for _, line := range corpus {
		if !line.Timed || line.EndSec <= line.StartSec {
			continue
		}
		total += line.EndSec - line.StartSec
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func normalizeTranscript(transcript ports.ClipTranscript) string {
	if len(transcript.Words) > 0 {
		parts := make([]string, 0, len(transcript.Words))
		for _, word := range transcript.Words {
			parts = append(parts, word.Text)
		}
		return textutil.Normalize(strings.Join(parts, " "))
	}
	return textutil.Normalize(transcript.RawText)
}

func joinNonEmpty(values []string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}
