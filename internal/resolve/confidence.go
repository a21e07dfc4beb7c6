package resolve

import (
	"math"

	"lyricsync/internal/ports"
)

// scoreConfidence combines duration fit, text similarity, and alignment
// quality into a single acceptance score. Each term is clamped to [0,1]
// before weighting so no term can contribute negative confidence.
func scoreConfidence(window MatchWindow, alignment ports.AlignmentResult, durationActual, durationExpected float64, policy Policy) float64 {
	diff := math.Abs(durationActual - durationExpected)
	var durationTerm float64
	switch {
	case diff <= policy.DurationFullCreditSec:
		durationTerm = 1
	case diff <= policy.DurationHalfCreditSec:
		durationTerm = 0.5
	}

	similarityTerm := clamp(window.Similarity, 0, 1)

	// A provider with no loss signal contributes neutrally, neither penalty
	// nor bonus.
	alignmentTerm := 0.5
	if alignment.HasLoss {
		alignmentTerm = clamp(1-alignment.Loss/policy.LossNormalization, 0, 1)
	}

	score := policy.DurationWeight*durationTerm +
		policy.SimilarityWeight*similarityTerm +
		policy.AlignmentWeight*alignmentTerm
	return clamp(score, 0, 1)
}

// actualWindowDuration measures how long the matched content really is: the
// corpus window span when timestamps exist, else the aligned word span.
func actualWindowDuration(window MatchWindow, alignment ports.AlignmentResult) float64 {
	if window.Timed && window.ApproxEndSec > window.ApproxStartSec {
		return window.ApproxEndSec - window.ApproxStartSec
	}
	if len(alignment.Words) == 0 {
		return 0
	}
	first := alignment.Words[0]
	last := alignment.Words[len(alignment.Words)-1]
	return last.EndSec - first.StartSec
}
