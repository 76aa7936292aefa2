package transport

import (
	"net"
	"sync"
	"time"
)

// Peer is one connected remote: a game client or a game server.
// The numeric ID is the peer handle upper layers key their state on.
type Peer struct {
	id   uint64
	conn net.Conn
	ip   string

	mu          sync.Mutex
	closed      bool
	connectedAt time.Time
}

// NewPeer wraps an established connection. The TCP transport creates its own
// peers; this constructor serves alternative transports and tests.
func NewPeer(id uint64, conn net.Conn, ip string) *Peer {
	return &Peer{
		id:          id,
		conn:        conn,
		ip:          ip,
		connectedAt: time.Now(),
	}
}

// ID returns the transport-unique peer handle.
func (p *Peer) ID() uint64 {
	return p.id
}

// IP returns the remote IP address.
func (p *Peer) IP() string {
	return p.ip
}

// ConnectedAt returns when the peer was accepted.
func (p *Peer) ConnectedAt() time.Time {
	return p.connectedAt
}

// close shuts the socket once; repeat calls are no-ops.
func (p *Peer) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.conn.Close()
}
