package gameserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesse/fragNet/internal/testutil"
)

func TestRegisterAndReserve(t *testing.T) {
	tp := testutil.NewMockTransport()
	reg := NewRegistry()

	srv := reg.Register(tp.NewPeer(), 90001, 27015, 10)
	assert.Equal(t, "127.0.0.1", srv.Address)
	assert.Equal(t, 1, reg.AvailableCount())

	got, err := reg.Reserve(42)
	require.NoError(t, err)
	assert.Same(t, srv, got)
	assert.Equal(t, 0, reg.AvailableCount())

	// Reserved servers cannot be reserved again.
	_, err = reg.Reserve(43)
	assert.ErrorIs(t, err, ErrNoServerAvailable)

	reg.Release(42)
	assert.Equal(t, 1, reg.AvailableCount())
}

func TestReserveEmpty(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Reserve(1)
	assert.ErrorIs(t, err, ErrNoServerAvailable)
}

func TestHeartbeat(t *testing.T) {
	tp := testutil.NewMockTransport()
	reg := NewRegistry()

	peer := tp.NewPeer()
	reg.Register(peer, 90001, 27015, 10)

	assert.True(t, reg.Heartbeat(peer, 7))
	assert.False(t, reg.Heartbeat(tp.NewPeer(), 0), "unregistered peer")
}

func TestSweepStale(t *testing.T) {
	tp := testutil.NewMockTransport()
	reg := NewRegistry()
	reg.heartbeatTimeout = 50 * time.Millisecond

	// The stale server holds a match and then goes silent.
	stalePeer := tp.NewPeer()
	stale := reg.Register(stalePeer, 90001, 27015, 10)
	_, err := reg.Reserve(77)
	require.NoError(t, err)
	stale.lastHeartbeat = time.Now().Add(-time.Second)

	fresh := reg.Register(tp.NewPeer(), 90002, 27016, 10)

	orphaned := reg.SweepStale()

	assert.Equal(t, []uint64{77}, orphaned)
	assert.Nil(t, reg.ByPeer(stalePeer))
	assert.NotNil(t, reg.ByPeer(fresh.Peer()))
}

func TestRemoveReturnsHeldMatch(t *testing.T) {
	tp := testutil.NewMockTransport()
	reg := NewRegistry()

	peer := tp.NewPeer()
	reg.Register(peer, 90001, 27015, 10)

	_, err := reg.Reserve(5)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), reg.Remove(peer))
	assert.Equal(t, uint64(0), reg.Remove(peer), "second remove is a no-op")
}

func TestDefaultMaxPlayers(t *testing.T) {
	tp := testutil.NewMockTransport()
	reg := NewRegistry()

	srv := reg.Register(tp.NewPeer(), 90001, 27015, 0)
	assert.Equal(t, uint32(10), srv.MaxPlayers)
}
