// Package ports declares the capability interfaces the resolver consumes:
// speech-to-text transcription, forced alignment, lyrics corpus lookup, and
// an optional resolution cache. Adapters under internal/providers implement
// these against real services; tests implement them with fixed data.
//
// New providers are added by implementing a port, never by branching inside
// the resolver.
package ports
