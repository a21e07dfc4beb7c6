package whisperx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"log/slog"

	"lyricsync/internal/logging"
	"lyricsync/internal/ports"
	"lyricsync/internal/services"
)

// Config captures runtime settings for WhisperX invocations.
type Config struct {
	// Binary is the whisperx executable. Defaults to "whisperx".
	Binary string
	// Model is the WhisperX model to use (e.g. "large-v3").
	Model string
	// CUDAEnabled selects GPU inference.
	CUDAEnabled bool
	// AlignModel overrides the phoneme alignment model.
	AlignModel string
}

const (
	defaultBinary  = "whisperx"
	defaultModel   = "large-v3"
	cpuDevice      = "cpu"
	cudaDevice     = "cuda"
	cpuComputeType = "float32"
	batchSize      = "4"
	outputFormat   = "json"
)

// Service implements the transcription and forced-alignment ports over the
// WhisperX CLI.
type Service struct {
	cfg           Config
	workDir       string
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service. Scratch files are created under
// workDir (the OS temp dir when empty).
func NewService(cfg Config, workDir string, logger *slog.Logger) *Service {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Service{
		cfg:     cfg,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Name implements the provider naming used in strategies and attempt logs.
func (s *Service) Name() string { return "whisperx" }

// Transcribe runs WhisperX speech-to-text on the clip audio.
func (s *Service) Transcribe(ctx context.Context, audio []byte, languageHint string) (ports.ClipTranscript, error) {
	payload, err := s.runClip(ctx, audio, s.transcribeArgs(languageHint))
	if err != nil {
		return ports.ClipTranscript{}, err
	}
	transcript := transcriptFromPayload(payload)
	if len(transcript.Words) == 0 && transcript.RawText == "" {
		return ports.ClipTranscript{}, services.Wrap(services.ErrExternalTool, s.Name(), "transcribe", "whisperx produced no segments", nil)
	}
	return transcript, nil
}

// Align force-aligns the clip audio against the reference text, which is
// written to a scratch file and passed as the initial prompt so alignment
// anchors on the known lyrics rather than free transcription.
func (s *Service) Align(ctx context.Context, audio []byte, referenceText string) (ports.AlignmentResult, error) {
	if strings.TrimSpace(referenceText) == "" {
		return ports.AlignmentResult{}, services.Wrap(services.ErrValidation, s.Name(), "align", "reference text is empty", nil)
	}
	payload, err := s.runClip(ctx, audio, s.alignArgs(referenceText))
	if err != nil {
		return ports.AlignmentResult{}, err
	}
	result := alignmentFromPayload(payload, s.Name())
	if len(result.Words) == 0 {
		return ports.AlignmentResult{}, services.Wrap(services.ErrExternalTool, s.Name(), "align", "whisperx produced no aligned words", nil)
	}
	return result, nil
}

// runClip writes the audio to a scratch dir, executes whisperx, and parses
// the JSON it leaves next to the input file.
func (s *Service) runClip(ctx context.Context, audio []byte, extraArgs []string) (whisperXPayload, error) {
	if len(audio) == 0 {
		return whisperXPayload{}, services.Wrap(services.ErrValidation, s.Name(), "run", "clip audio is empty", nil)
	}

	dir, err := os.MkdirTemp(s.workDir, "whisperx-")
	if err != nil {
		return whisperXPayload{}, services.Wrap(services.ErrConfiguration, s.Name(), "run", "create scratch directory", err)
	}
	defer os.RemoveAll(dir)

	clipPath := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(clipPath, audio, 0o644); err != nil {
		return whisperXPayload{}, services.Wrap(services.ErrConfiguration, s.Name(), "run", "write clip audio", err)
	}

	args := append([]string{
		clipPath,
		"--model", s.cfg.Model,
		"--batch_size", batchSize,
		"--output_dir", dir,
		"--output_format", outputFormat,
	}, extraArgs...)
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", cudaDevice)
	} else {
		args = append(args, "--device", cpuDevice, "--compute_type", cpuComputeType)
	}

	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return whisperXPayload{}, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "clip.json"))
	if err != nil {
		return whisperXPayload{}, services.Wrap(services.ErrExternalTool, s.Name(), "run", "whisperx output missing", err)
	}
	payload, err := parsePayload(data)
	if err != nil {
		return whisperXPayload{}, services.Wrap(services.ErrExternalTool, s.Name(), "run", "whisperx output malformed", err)
	}
	return payload, nil
}

func (s *Service) transcribeArgs(languageHint string) []string {
	var args []string
	if lang := strings.TrimSpace(languageHint); lang != "" && lang != "und" {
		args = append(args, "--language", lang)
	}
	return args
}

func (s *Service) alignArgs(referenceText string) []string {
	args := []string{"--initial_prompt", referenceText}
	if s.cfg.AlignModel != "" {
		args = append(args, "--align_model", s.cfg.AlignModel)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		if err := s.commandRunner(ctx, name, args...); err != nil {
			return s.classify(err)
		}
		return nil
	}

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		s.logger.Debug("whisperx command failed",
			logging.String("command", name),
			logging.String("output", truncate(string(output), 512)),
			logging.Error(err),
		)
		return s.classify(err)
	}
	return nil
}

func (s *Service) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, s.Name(), "run", "whisperx call timed out", err)
	}
	return services.Wrap(services.ErrExternalTool, s.Name(), "run", "whisperx exited with error", err)
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return fmt.Sprintf("%s... (%d bytes)", text[:limit], len(text))
}
