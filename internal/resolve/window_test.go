package resolve

import (
	"testing"

	"lyricsync/internal/ports"
	"lyricsync/internal/segment"
)

func timedCorpus(lineSec float64, texts ...string) []ports.LyricLine {
	lines := make([]ports.LyricLine, len(texts))
	for i, text := range texts {
		lines[i] = ports.LyricLine{
			LineIndex: i,
			Text:      text,
			StartSec:  float64(i) * lineSec,
			EndSec:    float64(i+1) * lineSec,
			Timed:     true,
		}
	}
	return lines
}

func plainCorpus(texts ...string) []ports.LyricLine {
	lines := make([]ports.LyricLine, len(texts))
	for i, text := range texts {
		lines[i] = ports.LyricLine{LineIndex: i, Text: text}
	}
	return lines
}

func transcriptOf(words ...string) ports.ClipTranscript {
	out := make([]segment.Word, len(words))
	step := 0.5
	for i, w := range words {
		out[i] = segment.Word{Text: w, StartSec: float64(i) * step, EndSec: float64(i)*step + step}
	}
	return ports.ClipTranscript{Words: out}
}

func TestFindWindowExactMiddle(t *testing.T) {
	corpus := timedCorpus(3, "one two", "three four", "five six", "seven eight")
	transcript := transcriptOf("three", "four", "five", "six")

	window, ok := findWindow(transcript, corpus, 6, DefaultPolicy())
	if !ok {
		t.Fatal("expected a window, got none")
	}
	if window.StartLine != 1 || window.EndLine != 2 {
		t.Errorf("window = %d..%d, want 1..2", window.StartLine, window.EndLine)
	}
	if window.Similarity < 0.99 {
		t.Errorf("similarity = %v, want ~1.0", window.Similarity)
	}
	if !window.Timed {
		t.Fatal("expected timed window")
	}
	if window.ApproxStartSec != 3 || window.ApproxEndSec != 9 {
		t.Errorf("approx window = %v..%v, want 3..9", window.ApproxStartSec, window.ApproxEndSec)
	}
}

func TestFindWindowNoMatch(t *testing.T) {
	corpus := timedCorpus(3, "one two", "three four", "five six", "seven eight")
	transcript := transcriptOf("purple", "monkey", "dishwasher", "quasar")

	if _, ok := findWindow(transcript, corpus, 6, DefaultPolicy()); ok {
		t.Fatal("expected no window for unrelated text")
	}
}

func TestFindWindowEmptyInputs(t *testing.T) {
	corpus := timedCorpus(3, "one two")
	if _, ok := findWindow(ports.ClipTranscript{}, corpus, 6, DefaultPolicy()); ok {
		t.Error("expected no window for empty transcript")
	}
	if _, ok := findWindow(transcriptOf("one"), nil, 6, DefaultPolicy()); ok {
		t.Error("expected no window for empty corpus")
	}
}

func TestFindWindowTieBreaksEarlier(t *testing.T) {
	// Identical chorus appears twice; the earlier occurrence wins.
	corpus := plainCorpus("hold me close", "never let go", "bridge words here", "hold me close", "never let go")
	transcript := transcriptOf("hold", "me", "close", "never", "let", "go")

	window, ok := findWindow(transcript, corpus, 8, DefaultPolicy())
	if !ok {
		t.Fatal("expected a window")
	}
	if window.StartLine != 0 {
		t.Errorf("start line = %d, want 0 (earlier occurrence)", window.StartLine)
	}
	if window.Timed {
		t.Error("plain corpus must not produce a timed window")
	}
}

func TestFindWindowFallsBackToRawText(t *testing.T) {
	corpus := timedCorpus(3, "one two", "three four", "five six", "seven eight")
	transcript := ports.ClipTranscript{RawText: "Three four, five six!"}

	window, ok := findWindow(transcript, corpus, 6, DefaultPolicy())
	if !ok {
		t.Fatal("expected a window from raw text")
	}
	if window.StartLine != 1 || window.EndLine != 2 {
		t.Errorf("window = %d..%d, want 1..2", window.StartLine, window.EndLine)
	}
}

func TestWindowSizeRange(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("timed corpus derives from clip duration", func(t *testing.T) {
		corpus := timedCorpus(3, "a b", "c d", "e f", "g h", "i j", "k l")
		minLines, maxLines := windowSizeRange(corpus, 6, policy)
		if minLines != 1 || maxLines != 4 {
			t.Errorf("range = %d..%d, want 1..4", minLines, maxLines)
		}
	})

	t.Run("plain corpus uses policy range", func(t *testing.T) {
		corpus := plainCorpus("a b", "c d", "e f", "g h", "i j", "k l")
		minLines, maxLines := windowSizeRange(corpus, 6, policy)
		if minLines != policy.MinWindowLines || maxLines != 6 {
			t.Errorf("range = %d..%d, want %d..6", minLines, maxLines, policy.MinWindowLines)
		}
	})

	t.Run("capped at corpus length", func(t *testing.T) {
		corpus := timedCorpus(1, "a b", "c d")
		_, maxLines := windowSizeRange(corpus, 60, policy)
		if maxLines != 2 {
			t.Errorf("maxLines = %d, want 2", maxLines)
		}
	})
}
