package resolve

import (
	"fmt"
	"strings"
)

// Strategy names one (provider, parameter-set) pair in the fallback order.
// Transcriber and Aligner refer to registered provider names.
type Strategy struct {
	Name        string
	Transcriber string
	Aligner     string
	// Language is an optional hint passed to the transcriber.
	Language string
}

func (s Strategy) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("strategy name is empty")
	}
	if strings.TrimSpace(s.Transcriber) == "" {
		return fmt.Errorf("strategy %s: transcriber is empty", s.Name)
	}
	if strings.TrimSpace(s.Aligner) == "" {
		return fmt.Errorf("strategy %s: aligner is empty", s.Name)
	}
	return nil
}

// transcriptKey identifies the memoized transcript for this strategy: one
// transcription per (provider, language) pair per clip, no matter how many
// strategies reuse it.
func (s Strategy) transcriptKey() string {
	return s.Transcriber + "/" + s.Language
}
