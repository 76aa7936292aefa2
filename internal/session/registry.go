package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/db"
	"github.com/friesse/fragNet/internal/transport"
)

// TicketValidator is the external platform auth collaborator. It checks an
// opaque session ticket and returns the verified 64-bit id.
type TicketValidator interface {
	Validate(ctx context.Context, ticket []byte, claimedSteamID uint64) (uint64, error)
}

// ExpireFunc is called for each session dropped by the registry so other
// components can release queue and match membership.
type ExpireFunc func(s *Session)

// ItemNotifyFunc pushes an inventory-changed notification to a session.
type ItemNotifyFunc func(s *Session, newItemCount uint32)

// Registry maps transport peers to sessions and runs the idle sweep and the
// inventory poll.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	bySteam  map[uint64]*Session

	validator TicketValidator
	repo      db.Repository
	tp        transport.Transport

	onExpire   ExpireFunc
	notifyItem ItemNotifyFunc

	idleTimeout   time.Duration
	sweepInterval time.Duration
	pollInterval  time.Duration
}

// NewRegistry creates a session registry.
func NewRegistry(validator TicketValidator, repo db.Repository, tp transport.Transport) *Registry {
	return &Registry{
		sessions:      make(map[uint64]*Session),
		bySteam:       make(map[uint64]*Session),
		validator:     validator,
		repo:          repo,
		tp:            tp,
		idleTimeout:   constants.SessionIdleTimeout,
		sweepInterval: constants.SessionSweepInterval,
		pollInterval:  constants.ItemPollInterval,
	}
}

// OnExpire registers the callback invoked when a session is dropped.
func (r *Registry) OnExpire(fn ExpireFunc) {
	r.onExpire = fn
}

// OnItemsUpdated registers the callback that delivers inventory notifications.
func (r *Registry) OnItemsUpdated(fn ItemNotifyFunc) {
	r.notifyItem = fn
}

// Attach creates a session for a freshly connected peer.
func (r *Registry) Attach(peer *transport.Peer) *Session {
	s := &Session{
		peer:         peer,
		lastActivity: time.Now(),
	}
	r.mu.Lock()
	r.sessions[peer.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for a peer, nil if unknown.
func (r *Registry) Get(peer *transport.Peer) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[peer.ID()]
}

// BySteamID returns the authenticated session for a player, nil if offline.
func (r *Registry) BySteamID(steamID uint64) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySteam[steamID]
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CountAuthenticated returns the number of authenticated sessions.
func (r *Registry) CountAuthenticated() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySteam)
}

// Authenticate validates the ticket and promotes the session. The inventory
// poll cursor is initialised here so the first sweep only reports items that
// arrive after connect.
func (r *Registry) Authenticate(ctx context.Context, s *Session, ticket []byte, claimedSteamID uint64) (uint64, error) {
	if s.Authenticated() {
		return 0, ErrAlreadyAuthenticated
	}

	steamID, err := r.validator.Validate(ctx, ticket, claimedSteamID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	s.setAuthenticated(steamID)

	// A second connection for the same player replaces the old index entry;
	// the stale session dies on its own idle timeout.
	r.mu.Lock()
	r.bySteam[steamID] = s
	r.mu.Unlock()

	if maxID, err := r.repo.LatestItemID(ctx, s.SteamID2()); err != nil {
		slog.Warn("item cursor init failed", "steamId", steamID, "error", err)
	} else {
		s.setItemCursor(maxID)
	}

	slog.Info("session authenticated", "peer", s.peer.ID(), "steamId", steamID)
	return steamID, nil
}

// RecordMalformed registers a malformed frame from the peer and disconnects
// it after too many strikes. Returns true if the peer was dropped.
func (r *Registry) RecordMalformed(s *Session) bool {
	if !s.recordMalformed(time.Now(), constants.MalformedFrameLimit, constants.MalformedFrameWindow) {
		return false
	}
	slog.Warn("dropping peer after repeated malformed frames", "peer", s.peer.ID())
	r.tp.Disconnect(s.peer)
	return true
}

// Detach removes the session for a disconnected peer and fires the expire
// callback.
func (r *Registry) Detach(peer *transport.Peer) {
	r.mu.Lock()
	s, ok := r.sessions[peer.ID()]
	if ok {
		delete(r.sessions, peer.ID())
		if s.Authenticated() && r.bySteam[s.SteamID()] == s {
			delete(r.bySteam, s.SteamID())
		}
	}
	r.mu.Unlock()

	if ok && r.onExpire != nil {
		r.onExpire(s)
	}
}

// Run drives the idle sweep and the inventory poll until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) error {
	sweep := time.NewTicker(r.sweepInterval)
	defer sweep.Stop()
	poll := time.NewTicker(r.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sweep.C:
			r.sweepIdle()
		case <-poll.C:
			r.pollItems(ctx)
		}
	}
}

// sweepIdle disconnects peers inactive longer than the idle timeout. The
// transport's disconnect callback then runs Detach.
func (r *Registry) sweepIdle() {
	cutoff := time.Now().Add(-r.idleTimeout)

	r.mu.RLock()
	var idle []*Session
	for _, s := range r.sessions {
		if s.LastActivity().Before(cutoff) {
			idle = append(idle, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range idle {
		slog.Info("disconnecting idle peer", "peer", s.peer.ID(), "steamId", s.SteamID())
		r.tp.Disconnect(s.peer)
	}
}

// pollItems checks every authenticated session for inventory rows newer than
// its cursor and pushes a notification when some exist.
func (r *Registry) pollItems(ctx context.Context) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.bySteam))
	for _, s := range r.bySteam {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		cursor, initialised := s.itemCursor()
		if !initialised {
			// Cursor init failed during auth; retry from the current max.
			maxID, err := r.repo.LatestItemID(ctx, s.SteamID2())
			if err != nil {
				slog.Warn("item cursor retry failed", "steamId", s.SteamID(), "error", err)
				continue
			}
			s.setItemCursor(maxID)
			continue
		}

		count, maxID, err := r.repo.CountItemsAfter(ctx, s.SteamID2(), cursor)
		if err != nil {
			slog.Warn("item poll failed", "steamId", s.SteamID(), "error", err)
			continue
		}
		if count == 0 {
			continue
		}

		s.setItemCursor(maxID)
		if r.notifyItem != nil {
			r.notifyItem(s, uint32(count))
		}
	}
}
