// Package session tracks the lifecycle of every connected peer: ticket
// authentication, activity, malformed-frame strikes, and the per-player
// inventory poll cursor.
package session

import (
	"sync"
	"time"

	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/transport"
)

// Session is the coordinator-side state of one connected peer.
type Session struct {
	peer *transport.Peer

	mu            sync.Mutex
	authenticated bool
	steamID       uint64
	steamID2      string
	lastActivity  time.Time

	malformedTimes []time.Time

	lastCheckedItemID uint64
	itemIDInitialized bool
}

// Peer returns the transport peer this session belongs to.
func (s *Session) Peer() *transport.Peer {
	return s.peer
}

// Authenticated reports whether the ticket handshake completed.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// SteamID returns the authenticated 64-bit id, 0 before authentication.
func (s *Session) SteamID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steamID
}

// SteamID2 returns the legacy STEAM_1:y:z rendering, "" before authentication.
func (s *Session) SteamID2() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steamID2
}

// Touch records inbound activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// LastActivity returns the time of the last inbound frame.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) setAuthenticated(steamID uint64) {
	s.mu.Lock()
	s.authenticated = true
	s.steamID = steamID
	s.steamID2 = model.SteamID64ToSteamID2(steamID)
	s.mu.Unlock()
}

// recordMalformed adds a strike and reports whether the peer crossed the
// limit inside the window.
func (s *Session) recordMalformed(now time.Time, limit int, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.malformedTimes[:0]
	for _, t := range s.malformedTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.malformedTimes = append(kept, now)
	return len(s.malformedTimes) >= limit
}

// itemCursor returns the poll cursor and whether it has been initialised.
func (s *Session) itemCursor() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCheckedItemID, s.itemIDInitialized
}

func (s *Session) setItemCursor(id uint64) {
	s.mu.Lock()
	s.lastCheckedItemID = id
	s.itemIDInitialized = true
	s.mu.Unlock()
}
