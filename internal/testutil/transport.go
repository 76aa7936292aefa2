package testutil

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/friesse/fragNet/internal/transport"
)

// peerIDCounter is package-global so peers minted from different
// MockTransport instances never share an id, matching production where a
// single transport hands out unique ids.
var peerIDCounter atomic.Uint64

// MockTransport records sends and disconnects instead of touching sockets.
type MockTransport struct {
	mu           sync.Mutex
	sent         map[uint64][][]byte
	disconnected map[uint64]bool

	inbound chan transport.Inbound
}

var _ transport.Transport = (*MockTransport)(nil)

// NewMockTransport creates an idle mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		sent:         make(map[uint64][][]byte),
		disconnected: make(map[uint64]bool),
		inbound:      make(chan transport.Inbound, 64),
	}
}

// NewPeer mints a peer backed by a closed pipe end; only its identity is used.
func (t *MockTransport) NewPeer() *transport.Peer {
	id := peerIDCounter.Add(1)

	client, server := net.Pipe()
	client.Close()
	return transport.NewPeer(id, server, "127.0.0.1")
}

// Run blocks until ctx is cancelled.
func (t *MockTransport) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Send records the frame.
func (t *MockTransport) Send(peer *transport.Peer, frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	buf := make([]byte, len(frame))
	copy(buf, frame)
	t.sent[peer.ID()] = append(t.sent[peer.ID()], buf)
	return nil
}

// Messages yields frames pushed with Push.
func (t *MockTransport) Messages() <-chan transport.Inbound {
	return t.inbound
}

// Push injects an inbound frame.
func (t *MockTransport) Push(peer *transport.Peer, frame []byte) {
	t.inbound <- transport.Inbound{Peer: peer, Frame: frame}
}

// Disconnect records the peer as dropped.
func (t *MockTransport) Disconnect(peer *transport.Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disconnected[peer.ID()] = true
}

// Sent returns the frames sent to a peer.
func (t *MockTransport) Sent(peer *transport.Peer) [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent[peer.ID()]
}

// Disconnected reports whether Disconnect was called for the peer.
func (t *MockTransport) Disconnected(peer *transport.Peer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disconnected[peer.ID()]
}
