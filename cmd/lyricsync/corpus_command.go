package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCorpusCommand(ctx *commandContext) *cobra.Command {
	corpusCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Lyrics corpus utilities",
	}
	corpusCmd.AddCommand(newCorpusShowCommand(ctx))
	return corpusCmd
}

func newCorpusShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <song-id>",
		Short: "Fetch and display a song's lyric lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := ctx.newCorpus()
			if err != nil {
				return err
			}
			lines, err := corpus.Lines(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput || !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, lines)
			}

			rows := make([][]string, 0, len(lines))
			for _, line := range lines {
				start, end := "-", "-"
				if line.Timed {
					start = formatSeconds(line.StartSec)
					end = formatSeconds(line.EndSec)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", line.LineIndex), start, end, line.Text,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"LINE", "START", "END", "TEXT"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
