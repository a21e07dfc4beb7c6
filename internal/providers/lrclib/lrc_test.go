package lrclib

import (
	"math"
	"testing"
)

func TestParseSyncedLyrics(t *testing.T) {
	synced := "[00:12.00] First line\n" +
		"[00:15.50] Second line\n" +
		"[00:19.00] Third line\n"

	lines, err := parseSyncedLyrics(synced, 180)
	if err != nil {
		t.Fatalf("parseSyncedLyrics returned error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Text != "First line" || !lines[0].Timed {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if math.Abs(lines[0].StartSec-12) > 1e-9 || math.Abs(lines[0].EndSec-15.5) > 1e-9 {
		t.Fatalf("unexpected first line timing: %+v", lines[0])
	}
	if math.Abs(lines[1].EndSec-19) > 1e-9 {
		t.Fatalf("second line should end where third starts: %+v", lines[1])
	}
	if math.Abs(lines[2].EndSec-180) > 1e-9 {
		t.Fatalf("final line should run to song duration: %+v", lines[2])
	}
	for i, line := range lines {
		if line.LineIndex != i {
			t.Fatalf("line %d has index %d", i, line.LineIndex)
		}
	}
}

func TestParseSyncedLyricsUnknownDuration(t *testing.T) {
	synced := "[00:10.00] One\n[00:14.00] Two\n[00:20.00] Three\n"
	lines, err := parseSyncedLyrics(synced, 0)
	if err != nil {
		t.Fatalf("parseSyncedLyrics returned error: %v", err)
	}
	// Median gap is 4s, applied to the final line.
	last := lines[len(lines)-1]
	if math.Abs(last.EndSec-24) > 1e-9 {
		t.Fatalf("expected final line to end at 24, got %+v", last)
	}
}

func TestParseSyncedLyricsRepeatedTimestamps(t *testing.T) {
	synced := "[00:30.00][01:30.00] Chorus line\n[00:45.00] Verse line\n"
	lines, err := parseSyncedLyrics(synced, 120)
	if err != nil {
		t.Fatalf("parseSyncedLyrics returned error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Text != "Chorus line" || lines[1].Text != "Verse line" || lines[2].Text != "Chorus line" {
		t.Fatalf("repeated timestamp not expanded in order: %+v", lines)
	}
	if math.Abs(lines[2].StartSec-90) > 1e-9 {
		t.Fatalf("unexpected repeated line start: %+v", lines[2])
	}
}

func TestParseSyncedLyricsTimestampForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want float64
	}{
		{"centiseconds", "[01:02.34] x", 62.34},
		{"milliseconds", "[00:05.500] x", 5.5},
		{"tenths", "[00:05.5] x", 5.5},
		{"colon separator", "[00:05:25] x", 5.25},
		{"no fraction", "[02:00] x", 120},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines, err := parseSyncedLyrics(tc.line, 300)
			if err != nil {
				t.Fatalf("parseSyncedLyrics returned error: %v", err)
			}
			if len(lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(lines))
			}
			if math.Abs(lines[0].StartSec-tc.want) > 1e-9 {
				t.Fatalf("expected start %.3f, got %.3f", tc.want, lines[0].StartSec)
			}
		})
	}
}

func TestParseSyncedLyricsInvalidSeconds(t *testing.T) {
	if _, err := parseSyncedLyrics("[00:75.00] bad\n", 100); err == nil {
		t.Fatal("expected error for out-of-range seconds")
	}
}

func TestParseSyncedLyricsSkipsMetadataAndBlanks(t *testing.T) {
	synced := "[ar: Some Artist]\n\n[00:10.00] Real line\n[00:20.00]\n"
	lines, err := parseSyncedLyrics(synced, 60)
	if err != nil {
		t.Fatalf("parseSyncedLyrics returned error: %v", err)
	}
	if len(lines) != 1 || lines[0].Text != "Real line" {
		t.Fatalf("expected only the lyric line, got %+v", lines)
	}
}

func TestParsePlainLyrics(t *testing.T) {
	lines := parsePlainLyrics("First\n\nSecond\n  Third  \n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if lines[i].Text != want {
			t.Fatalf("line %d: expected %q, got %q", i, want, lines[i].Text)
		}
		if lines[i].LineIndex != i {
			t.Fatalf("line %d has index %d", i, lines[i].LineIndex)
		}
		if lines[i].Timed {
			t.Fatalf("plain line %d should be untimed", i)
		}
	}
}
