package usecase

import (
	"log/slog"
	"testing"
	"time"

	"wallet-bridge/internal/domain"
	"wallet-bridge/internal/infrastructure/bus"
	"wallet-bridge/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *bus.Broadcaster) {
	t.Helper()
	store := storage.NewTokenStore(storage.NewMemoryBacking(), storage.NewMemoryBacking(), slog.Default())
	b := bus.NewBroadcaster()
	return NewSessionManager(store, b, slog.Default()), b
}

func drainSignals(sub *bus.Subscription) int {
	n := 0
	for {
		select {
		case <-sub.C:
			n++
		default:
			return n
		}
	}
}

func TestSessionManager_SaveTokenSignals(t *testing.T) {
	manager, b := newTestManager(t)
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	manager.SaveToken("tok-1")

	token, found := manager.Token()
	require.True(t, found)
	assert.Equal(t, "tok-1", token)
	assert.True(t, manager.HasToken())
	assert.Equal(t, 1, drainSignals(sub))
}

func TestSessionManager_PersistSignalsOnce(t *testing.T) {
	manager, b := newTestManager(t)
	sub := b.Subscribe()
	defer sub.Unsubscribe()

	verifiedAt := time.Now()
	manager.Persist("tok-1", &domain.UserProfile{EVMAddress: "0xabc"}, verifiedAt)

	assert.Equal(t, 1, drainSignals(sub), "one signal for the whole persist")

	token, found := manager.Token()
	require.True(t, found)
	assert.Equal(t, "tok-1", token)

	profile, found := manager.Profile()
	require.True(t, found)
	assert.Equal(t, "0xabc", profile.EVMAddress)

	at, found := manager.VerifiedAt()
	require.True(t, found)
	assert.WithinDuration(t, verifiedAt, at, time.Second)
}

func TestSessionManager_PersistWithoutProfile(t *testing.T) {
	manager, _ := newTestManager(t)

	manager.Persist("tok-1", nil, time.Now())

	assert.True(t, manager.HasToken())
	_, found := manager.Profile()
	assert.False(t, found, "no stale profile snapshot when verification had none")
}

func TestSessionManager_InvalidateClearsAndSignals(t *testing.T) {
	manager, b := newTestManager(t)
	manager.Persist("tok-1", &domain.UserProfile{EVMAddress: "0xabc"}, time.Now())

	sub := b.Subscribe()
	defer sub.Unsubscribe()

	manager.Invalidate()

	assert.False(t, manager.HasToken())
	_, found := manager.Profile()
	assert.False(t, found)
	_, found = manager.VerifiedAt()
	assert.False(t, found)
	assert.Equal(t, 1, drainSignals(sub))
}

func TestSessionManager_LogoutEndsSession(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.SaveToken("tok-1")

	manager.Logout()

	assert.False(t, manager.HasToken())
}
