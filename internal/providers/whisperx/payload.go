package whisperx

import (
	"encoding/json"
	"fmt"
	"strings"

	"lyricsync/internal/ports"
	"lyricsync/internal/segment"
)

type whisperXWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}

type whisperXSegment struct {
	Text  string         `json:"text"`
	Start float64        `json:"start"`
	End   float64        `json:"end"`
	Words []whisperXWord `json:"words"`
}

type whisperXPayload struct {
	Segments []whisperXSegment `json:"segments"`
	Language string            `json:"language"`
}

func parsePayload(data []byte) (whisperXPayload, error) {
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return whisperXPayload{}, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}

// transcriptFromPayload flattens segment words into a clip transcript.
// Segments without word arrays still contribute their text to RawText.
func transcriptFromPayload(payload whisperXPayload) ports.ClipTranscript {
	var words []segment.Word
	var texts []string
	for _, seg := range payload.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			texts = append(texts, text)
		}
		for _, word := range seg.Words {
			text := strings.TrimSpace(word.Word)
			if text == "" {
				continue
			}
			words = append(words, segment.Word{Text: text, StartSec: word.Start, EndSec: word.End})
		}
	}
	return ports.ClipTranscript{Words: words, RawText: strings.Join(texts, "\n")}
}

// alignmentFromPayload converts aligned words and derives a loss from the
// per-word confidence scores: the mean of (1 - score), so a flawless
// alignment reports zero loss. Payloads without scores carry no loss signal.
func alignmentFromPayload(payload whisperXPayload, provider string) ports.AlignmentResult {
	var words []segment.Word
	var scoreSum float64
	var scored int
	for _, seg := range payload.Segments {
		for _, word := range seg.Words {
			text := strings.TrimSpace(word.Word)
			if text == "" {
				continue
			}
			words = append(words, segment.Word{Text: text, StartSec: word.Start, EndSec: word.End})
			if word.Score > 0 {
				scoreSum += word.Score
				scored++
			}
		}
	}

	result := ports.AlignmentResult{Words: words, Provider: provider}
	if scored > 0 {
		mean := scoreSum / float64(scored)
		result.Loss = 1 - mean
		if result.Loss < 0 {
			result.Loss = 0
		}
		result.HasLoss = true
	}
	return result
}
