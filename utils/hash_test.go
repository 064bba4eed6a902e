package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFingerprint() ResultFingerprint {
	return ResultFingerprint{
		DebateID:   "debate-1",
		Topic:      "School uniforms",
		Timestamp:  "2026-08-30T12:00:00Z",
		SideAScore: 72,
		SideBScore: 61,
		Winner:     "a",
		Reasoning:  "Side A presented stronger evidence.",
	}
}

func TestVerificationHashIsDeterministic(t *testing.T) {
	first, err := VerificationHash(sampleFingerprint())
	require.NoError(t, err)
	second, err := VerificationHash(sampleFingerprint())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVerificationHashFormat(t *testing.T) {
	hash, err := VerificationHash(sampleFingerprint())
	require.NoError(t, err)
	assert.Len(t, hash, 2+64) // "0x" plus a sha256 hex digest
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, hash)
}

func TestVerificationHashChangesWithInput(t *testing.T) {
	base, err := VerificationHash(sampleFingerprint())
	require.NoError(t, err)

	changed := sampleFingerprint()
	changed.SideAScore = 73
	other, err := VerificationHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)

	changed = sampleFingerprint()
	changed.Winner = "b"
	other, err = VerificationHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)
}
