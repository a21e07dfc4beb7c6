package lrclib

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lyricsync/internal/ports"
)

var lrcTimestampPattern = regexp.MustCompile(`^\[(\d{1,3}):(\d{2})(?:[.:](\d{1,3}))?\]`)

// parseSyncedLyrics converts LRC-format lyrics into timestamped lines. Lines
// are sorted by start time; each line ends where the next begins, and the
// final line runs to songDuration when known, otherwise it is extended by the
// median line duration.
func parseSyncedLyrics(synced string, songDuration float64) ([]ports.LyricLine, error) {
	type stamped struct {
		start float64
		text  string
	}
	var entries []stamped

	for _, raw := range strings.Split(synced, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		// A line may carry several timestamps when it repeats in the song.
		var starts []float64
		rest := raw
		for {
			match := lrcTimestampPattern.FindStringSubmatch(rest)
			if match == nil {
				break
			}
			start, err := timestampSeconds(match)
			if err != nil {
				return nil, err
			}
			starts = append(starts, start)
			rest = rest[len(match[0]):]
		}
		if len(starts) == 0 {
			continue
		}
		text := strings.TrimSpace(rest)
		if text == "" {
			continue
		}
		for _, start := range starts {
			entries = append(entries, stamped{start: start, text: text})
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	lines := make([]ports.LyricLine, 0, len(entries))
	for i, entry := range entries {
		line := ports.LyricLine{
			LineIndex: i,
			Text:      entry.text,
			StartSec:  entry.start,
			Timed:     true,
		}
		if i+1 < len(entries) {
			line.EndSec = entries[i+1].start
		}
		lines = append(lines, line)
	}

	last := &lines[len(lines)-1]
	switch {
	case songDuration > last.StartSec:
		last.EndSec = songDuration
	default:
		last.EndSec = last.StartSec + medianLineDuration(lines)
	}
	return lines, nil
}

func timestampSeconds(match []string) (float64, error) {
	minutes, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", match[1], err)
	}
	seconds, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, fmt.Errorf("parse seconds %q: %w", match[2], err)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("seconds out of range in timestamp %q", match[0])
	}
	frac := 0.0
	if match[3] != "" {
		digits, err := strconv.Atoi(match[3])
		if err != nil {
			return 0, fmt.Errorf("parse fraction %q: %w", match[3], err)
		}
		switch len(match[3]) {
		case 1:
			frac = float64(digits) / 10
		case 2:
			frac = float64(digits) / 100
		default:
			frac = float64(digits) / 1000
		}
	}
	return float64(minutes)*60 + float64(seconds) + frac, nil
}

func medianLineDuration(lines []ports.LyricLine) float64 {
	if len(lines) < 2 {
		return 4
	}
	durations := make([]float64, 0, len(lines)-1)
	for i := 0; i+1 < len(lines); i++ {
		durations = append(durations, lines[i+1].StartSec-lines[i].StartSec)
	}
	sort.Float64s(durations)
	return durations[len(durations)/2]
}

// parsePlainLyrics splits unsynced lyrics into untimed lines, skipping
// blanks while keeping line indices dense.
func parsePlainLyrics(plain string) []ports.LyricLine {
	var lines []ports.LyricLine
	for _, raw := range strings.Split(plain, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		lines = append(lines, ports.LyricLine{
			LineIndex: len(lines),
			Text:      text,
		})
	}
	return lines
}
