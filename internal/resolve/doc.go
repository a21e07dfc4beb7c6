// Package resolve locates a short audio clip inside a full song and produces
// a word- and line-level time schedule for the matched portion.
//
// The pipeline is a strictly sequential chain per clip: transcribe the clip,
// find the best-matching contiguous window of corpus lines, force-align the
// clip audio against the window's reference text, fuse the coarse corpus
// anchor with the fine alignment offset into absolute boundaries, then score
// the result. A Resolver drives the chain as an explicit state machine over
// a priority-ordered strategy list, recording one ProviderAttempt per
// strategy so the audit trail is complete whether or not resolution
// succeeds. Failures never escape Resolve; callers observe them only as
// status UNRESOLVED with a populated provider chain.
//
// Matching uses a similarity floor well below the acceptance threshold: the
// window finder's job is candidate generation, acceptance is decided by the
// confidence score alone.
package resolve
