// Package sha256 fingerprints consultation cards by their raw text.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher implements tender.Hasher. Digests are stable across runs and
// processes; the seen store persists them between cycles, so the
// algorithm must never change without migrating stored fingerprints.
type Hasher struct{}

// New returns a card fingerprinter.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex SHA-256 digest of the card text.
func (h *Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
