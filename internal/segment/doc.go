// Package segment defines the resolution result model returned to callers.
//
// SegmentResolution is the only contract callers should depend on; the
// intermediate types used while matching and aligning stay private to the
// resolver. Results are ephemeral: the core never persists them itself, it
// only hands them back (and optionally to an injected cache).
package segment
