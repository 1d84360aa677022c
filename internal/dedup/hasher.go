// Package dedup provides content-identity hashing and duplicate rejection
// for extracted news items.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the hex-encoded SHA-256 identity of an item.
// The identity is lowercase(trim(title + content)): content is expected to
// be in its final truncated form, so two items differing only beyond the
// truncation boundary share an identity on purpose.
func Hash(title, content string) string {
	normalized := strings.ToLower(strings.TrimSpace(title + content))
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}
