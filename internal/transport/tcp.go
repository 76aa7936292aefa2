package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/friesse/fragNet/internal/constants"
)

// Inbound is one complete frame received from a peer.
type Inbound struct {
	Peer  *Peer
	Frame []byte
}

// Transport is the contract both stream variants present to upper layers:
// the TCP listener below and the platform P2P socket (external SDK) share it.
type Transport interface {
	// Run accepts connections until ctx is cancelled.
	Run(ctx context.Context) error
	// Send writes one frame to the peer; the peer is disconnected on error.
	Send(peer *Peer, frame []byte) error
	// Messages yields completed inbound frames across all peers.
	Messages() <-chan Inbound
	// Disconnect closes the peer and fires the disconnect callback.
	Disconnect(peer *Peer)
}

// DisconnectFunc is invoked once per peer after its socket is gone.
type DisconnectFunc func(peer *Peer)

// TCP is the stream transport used by game servers and tooling.
// Framing on the wire is a 4-byte little-endian length prefix per frame;
// the framed envelope inside is the codec's concern.
type TCP struct {
	bindAddr string

	mu       sync.Mutex
	listener net.Listener
	peers    map[uint64]*Peer

	nextPeerID   atomic.Uint64
	inbound      chan Inbound
	onDisconnect DisconnectFunc
}

// NewTCP creates a TCP transport bound to addr ("ip:port") when Run is called.
func NewTCP(addr string) *TCP {
	return &TCP{
		bindAddr: addr,
		peers:    make(map[uint64]*Peer),
		inbound:  make(chan Inbound, constants.InboundQueueSize),
	}
}

// OnDisconnect registers the callback fired once per dropped peer. Must be
// set before Run.
func (t *TCP) OnDisconnect(fn DisconnectFunc) {
	t.onDisconnect = fn
}

// Addr returns the bound listen address, nil before Run.
func (t *TCP) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Messages yields completed inbound frames.
func (t *TCP) Messages() <-chan Inbound {
	return t.inbound
}

// Run listens on the configured address and accepts peers until ctx is done.
func (t *TCP) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.bindAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", t.bindAddr, err)
	}

	t.mu.Lock()
	t.listener = ln
	t.mu.Unlock()

	return t.Serve(ctx, ln)
}

// Serve accepts peers on a ready listener. Split out so tests can pass an
// ephemeral-port listener.
func (t *TCP) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
		t.closeAllPeers()
	}()

	var wg sync.WaitGroup
	slog.Info("transport started", "address", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				break
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}
		peer := t.addPeer(conn)
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.receiveLoop(ctx, peer)
		}()
	}

	wg.Wait()
	return nil
}

func (t *TCP) addPeer(conn net.Conn) *Peer {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}

	peer := &Peer{
		id:          t.nextPeerID.Add(1),
		conn:        conn,
		ip:          host,
		connectedAt: time.Now(),
	}

	t.mu.Lock()
	t.peers[peer.id] = peer
	t.mu.Unlock()

	slog.Info("peer connected", "peer", peer.id, "remote", host)
	return peer
}

// receiveLoop reads length-prefixed frames from one peer and pushes them onto
// the shared inbound queue until the socket errors or ctx is cancelled.
func (t *TCP) receiveLoop(ctx context.Context, peer *Peer) {
	defer t.removePeer(peer)

	reader := bufio.NewReaderSize(peer.conn, 64*1024)
	var prefix [constants.TCPLengthPrefixSize]byte

	for {
		if _, err := io.ReadFull(reader, prefix[:]); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				slog.Warn("peer read failed", "peer", peer.id, "error", err)
			}
			return
		}

		frameLen := binary.LittleEndian.Uint32(prefix[:])
		if frameLen == 0 || frameLen > constants.MaxFrameSize {
			slog.Warn("peer sent invalid frame length", "peer", peer.id, "length", frameLen)
			return
		}

		frame := make([]byte, frameLen)
		if _, err := io.ReadFull(reader, frame); err != nil {
			if ctx.Err() == nil {
				slog.Warn("peer frame read failed", "peer", peer.id, "error", err)
			}
			return
		}

		select {
		case t.inbound <- Inbound{Peer: peer, Frame: frame}:
		case <-ctx.Done():
			return
		}
	}
}

// Send writes one length-prefixed frame to the peer. net.Conn.Write blocks
// until the whole frame (or an error) is out, so no partial-write loop is
// needed. A failed send disconnects the peer.
func (t *TCP) Send(peer *Peer, frame []byte) error {
	packet := make([]byte, constants.TCPLengthPrefixSize+len(frame))
	binary.LittleEndian.PutUint32(packet, uint32(len(frame)))
	copy(packet[constants.TCPLengthPrefixSize:], frame)

	peer.mu.Lock()
	closed := peer.closed
	peer.mu.Unlock()
	if closed {
		return fmt.Errorf("send to peer %d: connection closed", peer.id)
	}

	if _, err := peer.conn.Write(packet); err != nil {
		t.Disconnect(peer)
		return fmt.Errorf("send to peer %d: %w", peer.id, err)
	}
	return nil
}

// Disconnect closes the peer socket; the receive loop then runs the shared
// teardown path.
func (t *TCP) Disconnect(peer *Peer) {
	peer.close()
}

func (t *TCP) removePeer(peer *Peer) {
	peer.close()

	t.mu.Lock()
	_, known := t.peers[peer.id]
	delete(t.peers, peer.id)
	t.mu.Unlock()

	if known {
		slog.Info("peer disconnected", "peer", peer.id, "remote", peer.ip)
		if t.onDisconnect != nil {
			t.onDisconnect(peer)
		}
	}
}

func (t *TCP) closeAllPeers() {
	t.mu.Lock()
	peers := make([]*Peer, 0, len(t.peers))
	for _, p := range t.peers {
		peers = append(peers, p)
	}
	t.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
}

// PeerCount returns the number of connected peers.
func (t *TCP) PeerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.peers)
}
