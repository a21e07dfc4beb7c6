package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lyricsync/internal/resolve"
	"lyricsync/internal/segment"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		songID       string
		clipDuration float64
		songDuration float64
		language     string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <clip.wav> [clip.wav ...]",
		Short: "Resolve audio clips against a song's lyrics",
		Long: `Resolve determines which portion of a song each clip covers and emits
word-level lyric timing for synchronized display.

The song is addressed by an lrclib track ID or an "artist|title" pair.
Clip durations derive from WAV headers; pass --clip-duration for other
formats.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if songID == "" {
				return fmt.Errorf("--song is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requests := make([]resolve.Request, 0, len(args))
			for _, path := range args {
				audio, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read clip %s: %w", path, err)
				}
				duration := clipDuration
				if duration <= 0 {
					duration, err = clipDurationFromWAV(audio)
					if err != nil {
						return fmt.Errorf("clip %s: %w (pass --clip-duration)", path, err)
					}
				}
				requests = append(requests, resolve.Request{
					SongID:          songID,
					ClipAudio:       audio,
					ClipDurationSec: duration,
					SongDurationSec: songDuration,
					LanguageHint:    language,
				})
			}

			resolver, cleanup, err := ctx.newResolver()
			if err != nil {
				return err
			}
			defer cleanup()

			var results []segment.SegmentResolution
			if len(requests) == 1 {
				results = append(results, resolver.Resolve(cmd.Context(), requests[0]))
			} else {
				results = resolver.ResolveBatch(cmd.Context(), requests, cfg.Resolver.BatchLimit)
			}

			if jsonOutput || !isTerminal(cmd.OutOrStdout()) {
				if len(results) == 1 {
					return writeJSON(cmd, results[0])
				}
				return writeJSON(cmd, results)
			}

			for i, res := range results {
				renderResolution(cmd, args[i], res)
			}

			for _, res := range results {
				if res.Status != segment.StatusResolved {
					return fmt.Errorf("one or more clips could not be resolved")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&songID, "song", "s", "", "Song ID (lrclib track ID or artist|title)")
	cmd.Flags().Float64Var(&clipDuration, "clip-duration", 0, "Clip duration in seconds (derived from WAV headers when omitted)")
	cmd.Flags().Float64Var(&songDuration, "song-duration", 0, "Full song duration in seconds, used when lyrics carry no timestamps")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language hint for transcription (ISO 639-1)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")
	return cmd
}

func renderResolution(cmd *cobra.Command, clipPath string, res segment.SegmentResolution) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s", clipPath, res.Status)
	if res.Status == segment.StatusResolved {
		fmt.Fprintf(out, "  %ss - %ss  confidence %.2f",
			formatSeconds(res.ResolvedStartSec), formatSeconds(res.ResolvedEndSec), res.Confidence)
	}
	fmt.Fprintln(out)

	if len(res.Lines) > 0 {
		rows := make([][]string, 0, len(res.Lines))
		for _, line := range res.Lines {
			rows = append(rows, []string{
				fmt.Sprintf("%d", line.LineIndex),
				formatSeconds(line.StartSec),
				formatSeconds(line.EndSec),
				line.Text,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"LINE", "START", "END", "TEXT"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
		))
	}

	if len(res.ProviderChain) > 1 || res.Status != segment.StatusResolved {
		rows := make([][]string, 0, len(res.ProviderChain))
		for _, attempt := range res.ProviderChain {
			outcome := "ok"
			if !attempt.Succeeded {
				outcome = attempt.ErrorKind
			}
			rows = append(rows, []string{attempt.Strategy, attempt.Provider, outcome})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"STRATEGY", "PROVIDER", "OUTCOME"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
	}
}
