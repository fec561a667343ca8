package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHubLocker(t *testing.T) {
	locker := NewLocalHubLocker()
	ctx := context.Background()

	unlock, err := locker.TryLock(ctx, "https://example.org/hub.txt")
	require.Nil(t, err)

	_, err = locker.TryLock(ctx, "https://example.org/hub.txt")
	assert.ErrorIs(t, err, ErrLockBusy)

	// Different hubs don't contend.
	unlockOther, err := locker.TryLock(ctx, "https://example.org/other/hub.txt")
	require.Nil(t, err)
	unlockOther()

	unlock()
	// Calling unlock twice is harmless.
	unlock()

	unlock, err = locker.TryLock(ctx, "https://example.org/hub.txt")
	require.Nil(t, err)
	unlock()
}
