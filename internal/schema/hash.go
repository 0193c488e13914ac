package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash fingerprints a payload with SHA-256 over its key-sorted JSON
// serialization. encoding/json sorts map keys at every nesting level, so two
// deep-equal payloads hash identically regardless of insertion order. That
// makes the hash usable as the dedup key when the same logical entity shows
// up through different parsers or formats.
func Hash(data map[string]any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("serialize payload for hashing: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
