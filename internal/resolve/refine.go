package resolve

import (
	"context"
	"strings"

	"lyricsync/internal/ports"
	"lyricsync/internal/services"
)

// refineAlignment force-aligns the clip audio against the matched window's
// original-cased text so alignment anchors on ground truth rather than the
// noisy transcript. It does not retry; retries belong to the orchestrator.
func refineAlignment(ctx context.Context, aligner ports.Aligner, audio []byte, window MatchWindow) (ports.AlignmentResult, error) {
	reference := windowReferenceText(window)
	if reference == "" {
		return ports.AlignmentResult{}, services.Wrap(services.ErrValidation, aligner.Name(), "align", "matched window has no text", nil)
	}

	result, err := aligner.Align(ctx, audio, reference)
	if err != nil {
		return ports.AlignmentResult{}, err
	}
	if err := validateAlignment(result); err != nil {
		return ports.AlignmentResult{}, err
	}
	if result.Provider == "" {
		result.Provider = aligner.Name()
	}
	return result, nil
}

func validateAlignment(result ports.AlignmentResult) error {
	if len(result.Words) == 0 {
		return services.Wrap(services.ErrExternalTool, result.Provider, "align", "provider returned no words", nil)
	}
	prev := 0.0
	for _, word := range result.Words {
		if word.StartSec < 0 || word.EndSec < word.StartSec || word.StartSec+1e-9 < prev {
			return services.Wrap(services.ErrExternalTool, result.Provider, "align", "provider returned non-monotonic word timestamps", nil)
		}
		prev = word.EndSec
	}
	if result.HasLoss && result.Loss < 0 {
		return services.Wrap(services.ErrExternalTool, result.Provider, "align", "provider returned negative loss", nil)
	}
	return nil
}

func windowReferenceText(window MatchWindow) string {
	parts := make([]string, 0, len(window.Lines))
	for _, line := range window.Lines {
		text := strings.TrimSpace(line.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
