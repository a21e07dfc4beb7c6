package resolve

// Policy centralizes matching thresholds and scoring weights.
type Policy struct {
	// CandidateFloor is the minimum window similarity for candidate
	// generation. It is deliberately lower than AcceptanceThreshold.
	CandidateFloor float64
	// AcceptanceThreshold is the minimum confidence for a RESOLVED result.
	AcceptanceThreshold float64

	DurationWeight   float64
	SimilarityWeight float64
	AlignmentWeight  float64

	// DurationFullCreditSec and DurationHalfCreditSec bound the duration-fit
	// term: full credit within the first, half credit within the second.
	DurationFullCreditSec float64
	DurationHalfCreditSec float64

	// LossNormalization scales provider alignment loss into [0,1].
	LossNormalization float64

	// MinWindowLines and MaxWindowLines bound the window search when the
	// corpus carries no timestamps to estimate line duration from.
	MinWindowLines int
	MaxWindowLines int
}

// DefaultPolicy returns thresholds tuned for 5-60s clips of popular songs.
func DefaultPolicy() Policy {
	return Policy{
		CandidateFloor:        0.40,
		AcceptanceThreshold:   0.70,
		DurationWeight:        0.4,
		SimilarityWeight:      0.4,
		AlignmentWeight:       0.2,
		DurationFullCreditSec: 3,
		DurationHalfCreditSec: 10,
		LossNormalization:     5.0,
		MinWindowLines:        1,
		MaxWindowLines:        8,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()

	if p.CandidateFloor <= 0 || p.CandidateFloor >= 1 {
		p.CandidateFloor = d.CandidateFloor
	}
	if p.AcceptanceThreshold <= 0 || p.AcceptanceThreshold >= 1 {
		p.AcceptanceThreshold = d.AcceptanceThreshold
	}
	if p.DurationWeight <= 0 {
		p.DurationWeight = d.DurationWeight
	}
	if p.SimilarityWeight <= 0 {
		p.SimilarityWeight = d.SimilarityWeight
	}
	if p.AlignmentWeight <= 0 {
		p.AlignmentWeight = d.AlignmentWeight
	}
	if p.DurationFullCreditSec <= 0 {
		p.DurationFullCreditSec = d.DurationFullCreditSec
	}
	if p.DurationHalfCreditSec <= p.DurationFullCreditSec {
		p.DurationHalfCreditSec = d.DurationHalfCreditSec
	}
	if p.LossNormalization <= 0 {
		p.LossNormalization = d.LossNormalization
	}
	if p.MinWindowLines <= 0 {
		p.MinWindowLines = d.MinWindowLines
	}
	if p.MaxWindowLines < p.MinWindowLines {
		p.MaxWindowLines = d.MaxWindowLines
	}
	return p
}
