package resolve

import (
	"math"
	"testing"

	"lyricsync/internal/ports"
	"lyricsync/internal/segment"
)

func TestScoreConfidence(t *testing.T) {
	policy := DefaultPolicy()
	perfect := ports.AlignmentResult{
		Words:   []segment.Word{{Text: "a", StartSec: 0, EndSec: 1}},
		Loss:    0,
		HasLoss: true,
	}

	tests := []struct {
		name      string
		window    MatchWindow
		alignment ports.AlignmentResult
		actual    float64
		expected  float64
		want      float64
	}{
		{
			name:      "perfect",
			window:    MatchWindow{Similarity: 1},
			alignment: perfect,
			actual:    30, expected: 30,
			want: 1.0,
		},
		{
			name:      "duration off by five gets half credit",
			window:    MatchWindow{Similarity: 1},
			alignment: perfect,
			actual:    35, expected: 30,
			want: 0.4*0.5 + 0.4 + 0.2,
		},
		{
			name:      "duration off by twenty gets nothing",
			window:    MatchWindow{Similarity: 1},
			alignment: perfect,
			actual:    50, expected: 30,
			want: 0.4 + 0.2,
		},
		{
			name:      "no loss signal is neutral",
			window:    MatchWindow{Similarity: 1},
			alignment: ports.AlignmentResult{Words: perfect.Words},
			actual:    30, expected: 30,
			want: 0.4 + 0.4 + 0.2*0.5,
		},
		{
			name:      "huge loss zeroes the alignment term",
			window:    MatchWindow{Similarity: 1},
			alignment: ports.AlignmentResult{Words: perfect.Words, Loss: 50, HasLoss: true},
			actual:    30, expected: 30,
			want: 0.4 + 0.4,
		},
		{
			name:      "everything bad",
			window:    MatchWindow{Similarity: 0},
			alignment: ports.AlignmentResult{Words: perfect.Words, Loss: 50, HasLoss: true},
			actual:    0, expected: 30,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreConfidence(tt.window, tt.alignment, tt.actual, tt.expected, policy)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreConfidence() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("confidence %v outside [0,1]", got)
			}
		})
	}
}

func TestScoreConfidenceDegradesWithSimilarity(t *testing.T) {
	policy := DefaultPolicy()
	alignment := ports.AlignmentResult{Words: []segment.Word{{Text: "a", EndSec: 1}}}

	prev := math.Inf(1)
	for _, sim := range []float64{1.0, 0.8, 0.6, 0.4, 0.2, 0} {
		got := scoreConfidence(MatchWindow{Similarity: sim}, alignment, 30, 30, policy)
		if got > prev {
			t.Fatalf("confidence increased from %v to %v as similarity fell to %v", prev, got, sim)
		}
		prev = got
	}
}

func TestActualWindowDuration(t *testing.T) {
	t.Run("timed window uses corpus span", func(t *testing.T) {
		window := MatchWindow{Timed: true, ApproxStartSec: 10, ApproxEndSec: 25}
		if got := actualWindowDuration(window, ports.AlignmentResult{}); got != 15 {
			t.Errorf("duration = %v, want 15", got)
		}
	})

	t.Run("untimed window uses aligned word span", func(t *testing.T) {
		alignment := ports.AlignmentResult{Words: []segment.Word{
			{Text: "a", StartSec: 0.5, EndSec: 1},
			{Text: "b", StartSec: 5, EndSec: 6.5},
		}}
		if got := actualWindowDuration(MatchWindow{}, alignment); got != 6 {
			t.Errorf("duration = %v, want 6", got)
		}
	})

	t.Run("nothing known", func(t *testing.T) {
		if got := actualWindowDuration(MatchWindow{}, ports.AlignmentResult{}); got != 0 {
			t.Errorf("duration = %v, want 0", got)
		}
	})
}
