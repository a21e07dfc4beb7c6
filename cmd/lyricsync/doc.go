// Command lyricsync resolves short audio clips against full songs and emits
// word-level lyric timing for the covered portion.
package main
