// Package whisperx adapts the WhisperX CLI to the resolver's transcription
// and forced-alignment ports. Clip audio is written to a scratch directory,
// the tool is invoked via an injectable command runner, and its word-level
// JSON output is parsed back into port types.
package whisperx
