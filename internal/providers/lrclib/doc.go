// Package lrclib adapts the lrclib.net REST API to the resolver's lyrics
// corpus port. Synced lyrics parse into timestamped lines; plain lyrics fall
// back to untimed lines, which the resolver handles by interpolation.
package lrclib
