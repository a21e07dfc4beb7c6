// Package textutil provides text canonicalization and similarity scoring for
// lyric matching.
//
// The primary use cases are:
//   - Normalizing transcript and corpus text so comparisons are symmetric
//     (case folding, diacritic stripping, punctuation removal)
//   - Creating token-based fingerprints from text for comparison
//   - Computing cosine similarity between fingerprints
//
// Fingerprints use term frequency vectors normalized for efficient
// comparison. Tokens are kept down to a single character because lyric lines
// are full of short words that carry matching signal.
package textutil
