package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanAdvanceTo(t *testing.T) {
	assert.True(t, StatusWaiting.CanAdvanceTo(StatusActive))
	assert.True(t, StatusActive.CanAdvanceTo(StatusCompleted))

	// No skipping, no going back, completed is terminal
	assert.False(t, StatusWaiting.CanAdvanceTo(StatusCompleted))
	assert.False(t, StatusActive.CanAdvanceTo(StatusWaiting))
	assert.False(t, StatusCompleted.CanAdvanceTo(StatusActive))
	assert.False(t, StatusCompleted.CanAdvanceTo(StatusWaiting))
	assert.False(t, StatusWaiting.CanAdvanceTo(StatusWaiting))
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideB, SideA.Opposite())
	assert.Equal(t, SideA, SideB.Opposite())
}

func TestSideValid(t *testing.T) {
	assert.True(t, SideA.Valid())
	assert.True(t, SideB.Valid())
	assert.False(t, Side("c").Valid())
	assert.False(t, Side("").Valid())
}

func TestWinnerValid(t *testing.T) {
	assert.True(t, WinnerA.Valid())
	assert.True(t, WinnerB.Valid())
	assert.True(t, WinnerTie.Valid())
	assert.False(t, Winner("draw").Valid())
}
