package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ResultFingerprint is the canonical payload the verification hash covers.
// Field order is fixed by the struct, so marshalling is deterministic.
type ResultFingerprint struct {
	DebateID   string  `json:"debateId"`
	Topic      string  `json:"topic"`
	Timestamp  string  `json:"timestamp"`
	SideAScore float64 `json:"sideAScore"`
	SideBScore float64 `json:"sideBScore"`
	Winner     string  `json:"winner"`
	Reasoning  string  `json:"reasoning"`
}

// VerificationHash computes the SHA-256 digest of the canonical result
// payload, formatted as a 0x-prefixed lowercase hex string. It is a local
// integrity fingerprint of the stored verdict, nothing more; no ledger is
// involved.
func VerificationHash(fp ResultFingerprint) (string, error) {
	data, err := json.Marshal(fp)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return "0x" + hex.EncodeToString(sum[:]), nil
}
