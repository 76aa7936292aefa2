// Package gameserver tracks registered match servers: their liveness, their
// availability, and the reservation handed to them when a match commits.
package gameserver

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/transport"
)

// ErrNoServerAvailable is returned when no registered server can host a match.
var ErrNoServerAvailable = errors.New("no game server available")

// Server is one registered match server.
type Server struct {
	SteamID    uint64
	Address    string
	GamePort   uint16
	MaxPlayers uint32

	peer *transport.Peer

	currentPlayers uint32
	lastHeartbeat  time.Time
	isAvailable    bool
	currentMatchID uint64
}

// Peer returns the transport peer the server registered on.
func (s *Server) Peer() *transport.Peer {
	return s.peer
}

// Registry is the set of live game servers. One lock guards the whole table
// so find+assign is atomic.
type Registry struct {
	mu      sync.Mutex
	servers map[uint64]*Server // keyed by server steam id
	byPeer  map[uint64]uint64  // peer id → server steam id

	heartbeatTimeout time.Duration
}

// NewRegistry creates an empty game-server registry.
func NewRegistry() *Registry {
	return &Registry{
		servers:          make(map[uint64]*Server),
		byPeer:           make(map[uint64]uint64),
		heartbeatTimeout: constants.GameServerHeartbeatTimeout,
	}
}

// Register adds or replaces a server entry. Registration on an authenticated
// connection implies the server may host matches immediately.
func (r *Registry) Register(peer *transport.Peer, steamID uint64, gamePort uint16, maxPlayers uint32) *Server {
	if maxPlayers == 0 {
		maxPlayers = constants.DefaultMaxPlayers
	}

	srv := &Server{
		SteamID:       steamID,
		Address:       peer.IP(),
		GamePort:      gamePort,
		MaxPlayers:    maxPlayers,
		peer:          peer,
		lastHeartbeat: time.Now(),
		isAvailable:   true,
	}

	r.mu.Lock()
	r.servers[steamID] = srv
	r.byPeer[peer.ID()] = steamID
	r.mu.Unlock()

	slog.Info("game server registered",
		"serverSteamId", steamID, "address", srv.Address, "gamePort", gamePort)
	return srv
}

// Heartbeat refreshes a server's liveness. Returns false for unknown peers.
func (r *Registry) Heartbeat(peer *transport.Peer, currentPlayers uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	steamID, ok := r.byPeer[peer.ID()]
	if !ok {
		return false
	}
	srv := r.servers[steamID]
	srv.lastHeartbeat = time.Now()
	srv.currentPlayers = currentPlayers
	return true
}

// ByPeer returns the server registered on a peer, nil if none.
func (r *Registry) ByPeer(peer *transport.Peer) *Server {
	r.mu.Lock()
	defer r.mu.Unlock()

	steamID, ok := r.byPeer[peer.ID()]
	if !ok {
		return nil
	}
	return r.servers[steamID]
}

// Reserve finds an available server and assigns the match to it in one
// step. Selection is first-seen-available.
func (r *Registry) Reserve(matchID uint64) (*Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, srv := range r.servers {
		if srv.isAvailable {
			srv.isAvailable = false
			srv.currentMatchID = matchID
			return srv, nil
		}
	}
	return nil, ErrNoServerAvailable
}

// Release frees the server holding the given match. Safe to call for matches
// whose server already disappeared.
func (r *Registry) Release(matchID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, srv := range r.servers {
		if srv.currentMatchID == matchID {
			srv.currentMatchID = 0
			srv.isAvailable = true
			return
		}
	}
}

// Remove drops the server registered on a peer. Returns the match it held,
// 0 if none, so the matchmaker can abandon it.
func (r *Registry) Remove(peer *transport.Peer) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	steamID, ok := r.byPeer[peer.ID()]
	if !ok {
		return 0
	}
	srv := r.servers[steamID]
	delete(r.byPeer, peer.ID())
	delete(r.servers, steamID)

	slog.Info("game server removed", "serverSteamId", steamID)
	return srv.currentMatchID
}

// AvailableCount returns how many servers could host a match right now.
func (r *Registry) AvailableCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, srv := range r.servers {
		if srv.isAvailable {
			count++
		}
	}
	return count
}

// SweepStale removes servers whose heartbeat is older than the timeout and
// returns the match ids they were holding.
func (r *Registry) SweepStale() []uint64 {
	cutoff := time.Now().Add(-r.heartbeatTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	var orphaned []uint64
	for steamID, srv := range r.servers {
		if srv.lastHeartbeat.Before(cutoff) {
			slog.Warn("game server heartbeat timed out", "serverSteamId", steamID)
			delete(r.byPeer, srv.peer.ID())
			delete(r.servers, steamID)
			if srv.currentMatchID != 0 {
				orphaned = append(orphaned, srv.currentMatchID)
			}
		}
	}
	return orphaned
}
