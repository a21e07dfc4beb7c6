package main

import (
	"encoding/binary"
	"fmt"
	"net/http"
	"time"

	"lyricsync/internal/config"
)

func lrclibHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.LRCLib.TimeoutSeconds) * time.Second}
}

// clipDurationFromWAV derives the play time of canonical RIFF/WAVE PCM data
// from the fmt chunk's byte rate. Callers fall back to an explicit duration
// flag for other container formats.
func clipDurationFromWAV(data []byte) (float64, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var byteRate uint32
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return 0, fmt.Errorf("fmt chunk too short")
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			if byteRate == 0 {
				return 0, fmt.Errorf("fmt chunk missing or zero byte rate")
			}
			return float64(chunkSize) / float64(byteRate), nil
		}
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}
	return 0, fmt.Errorf("data chunk not found")
}

func formatSeconds(sec float64) string {
	return fmt.Sprintf("%.2f", sec)
}
