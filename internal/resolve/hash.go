package resolve

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey builds the idempotency key for a resolution request: a content
// hash over the clip audio and song identity. Repeated requests with the
// same key short-circuit to the cached result instead of re-invoking paid
// providers.
func CacheKey(clipAudio []byte, songID string) string {
	h := sha256.New()
	h.Write(clipAudio)
	h.Write([]byte{0})
	h.Write([]byte(songID))
	return hex.EncodeToString(h.Sum(nil))
}
