// Package matchmaking forms skill-balanced matches out of queued players,
// drives the ready-up state machine, and hands committed matches to game
// servers.
package matchmaking

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/db"
	"github.com/friesse/fragNet/internal/gameserver"
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/protocol/serverpackets"
)

// Notifier delivers coordinator messages to players and game servers. Sends
// must not be called under engine locks, so the engine collects them and
// fires after unlocking.
type Notifier interface {
	SendToPlayer(steamID uint64, msgType uint32, payload []byte)
	SendToServer(srv *gameserver.Server, msgType uint32, payload []byte)
}

// Engine owns the queue and the live match table.
//
// Lock order: queueMu before matchMu. The game-server registry lock nests
// inside either.
type Engine struct {
	cfg      Config
	repo     db.Repository
	servers  *gameserver.Registry
	notifier Notifier

	queueMu sync.Mutex
	q       *queue

	matchMu     sync.Mutex
	matches     map[uint64]*Match
	playerMatch map[uint64]uint64

	nextMatchID atomic.Uint64
}

// NewEngine creates a matchmaking engine.
func NewEngine(cfg Config, repo db.Repository, servers *gameserver.Registry, notifier Notifier) *Engine {
	return &Engine{
		cfg:         cfg,
		repo:        repo,
		servers:     servers,
		notifier:    notifier,
		q:           newQueue(),
		matches:     make(map[uint64]*Match),
		playerMatch: make(map[uint64]uint64),
	}
}

// StartSearch queues a player and immediately tries to form a match.
// A player already in a non-terminal match is not queued again.
func (e *Engine) StartSearch(ctx context.Context, steamID uint64, preferredMaps []string) {
	e.matchMu.Lock()
	if matchID, ok := e.playerMatch[steamID]; ok {
		if m := e.matches[matchID]; m != nil && !m.State.Terminal() {
			e.matchMu.Unlock()
			slog.Warn("search rejected, player already in match", "steamId", steamID, "matchId", matchID)
			return
		}
	}
	e.matchMu.Unlock()

	rating, err := e.repo.GetPlayerRating(ctx, steamID)
	if err != nil {
		// Never drop a player over a rating lookup.
		slog.Warn("rating lookup failed, using default", "steamId", steamID, "error", err)
		rating = model.DefaultRating()
	}

	e.queueMu.Lock()
	e.q.add(&entry{
		steamID:       steamID,
		mmr:           rating.MMR,
		preferredMaps: preferredMaps,
		enqueuedAt:    time.Now(),
	})
	size := e.q.size()
	e.queueMu.Unlock()

	slog.Info("player queued", "steamId", steamID, "mmr", rating.MMR, "queueSize", size)
	e.processQueue()
}

// StopSearch removes a player from the queue. Players already locked into a
// forming match stay in it.
func (e *Engine) StopSearch(steamID uint64) bool {
	e.queueMu.Lock()
	removed := e.q.remove(steamID)
	e.queueMu.Unlock()

	if removed {
		slog.Info("player left queue", "steamId", steamID)
	}
	return removed
}

// Searching reports whether a player is currently queued.
func (e *Engine) Searching(steamID uint64) bool {
	e.queueMu.Lock()
	defer e.queueMu.Unlock()
	return e.q.contains(steamID)
}

// QueueSize returns the number of queued players.
func (e *Engine) QueueSize() int {
	e.queueMu.Lock()
	defer e.queueMu.Unlock()
	return e.q.size()
}

// ActiveMatches returns the number of matches currently in progress.
func (e *Engine) ActiveMatches() int {
	e.matchMu.Lock()
	defer e.matchMu.Unlock()

	count := 0
	for _, m := range e.matches {
		if m.State == StateInProgress {
			count++
		}
	}
	return count
}

// Match returns a snapshot pointer for a match id, nil if unknown.
func (e *Engine) Match(matchID uint64) *Match {
	e.matchMu.Lock()
	defer e.matchMu.Unlock()
	return e.matches[matchID]
}

// Run drives the periodic tick until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.QueueCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick runs one round of periodic work: stale-server sweep, queue
// processing, ready-up timeouts, overlong-match expiry, terminal-match
// cleanup.
func (e *Engine) Tick(ctx context.Context) {
	for _, matchID := range e.servers.SweepStale() {
		e.AbandonServerMatch(matchID)
	}
	e.processQueue()
	e.checkReadyUpTimeouts()
	e.expireMatches(ctx)
	e.cleanupTerminal()
}

// processQueue forms matches until no acceptable window remains.
func (e *Engine) processQueue() {
	for e.tryCreateMatch() {
	}
}

// tryCreateMatch attempts to form and commit one match. Returns true when a
// match was created so the caller can try again.
func (e *Engine) tryCreateMatch() bool {
	matchSize := e.cfg.MatchSize()

	e.queueMu.Lock()
	if e.q.size() < matchSize {
		e.queueMu.Unlock()
		return false
	}

	entries := e.q.all()
	sort.Slice(entries, func(i, j int) bool { return entries[i].mmr < entries[j].mmr })

	window := e.findWindow(entries, matchSize)
	if window == nil {
		e.queueMu.Unlock()
		return false
	}

	matchID := e.nextMatchID.Add(1)
	srv, err := e.servers.Reserve(matchID)
	if err != nil {
		// No server, no match. The window waits with priority for the
		// next tick.
		for _, w := range window {
			w.priority = true
		}
		e.queueMu.Unlock()
		slog.Warn("window formed but no game server available", "queueSize", len(entries))
		return false
	}

	for _, w := range window {
		e.q.remove(w.steamID)
	}
	e.queueMu.Unlock()

	m := e.buildMatch(matchID, srv, window)

	e.matchMu.Lock()
	e.matches[m.ID] = m
	for _, id := range m.Players() {
		e.playerMatch[id] = m.ID
	}
	e.matchMu.Unlock()

	slog.Info("match created",
		"matchId", m.ID, "map", m.MapName, "avgMmr", m.AvgMMR,
		"server", m.ServerAddress, "serverPort", m.ServerPort)

	payload := serverpackets.MatchFound(m.ID, m.MapName, m.AvgMMR, uint32(e.cfg.ReadyUpTime/time.Second))
	for _, id := range m.Players() {
		e.notifier.SendToPlayer(id, constants.MsgMatchmakingGC2ClientUpdate, payload)
	}
	return true
}

// findWindow slides a match-size window over the MMR-sorted entries and
// returns the first acceptable one. Windows containing a priority player
// (left over from a tick without servers) are preferred.
func (e *Engine) findWindow(entries []*entry, matchSize int) []*entry {
	var first []*entry
	for i := 0; i+matchSize <= len(entries); i++ {
		window := entries[i : i+matchSize]
		if !e.windowAcceptable(window) {
			continue
		}
		for _, w := range window {
			if w.priority {
				return window
			}
		}
		if first == nil {
			first = window
		}
	}
	return first
}

// windowAcceptable checks the MMR spread limit, widened by queue wait time.
func (e *Engine) windowAcceptable(window []*entry) bool {
	oldest := window[0].enqueuedAt
	for _, w := range window[1:] {
		if w.enqueuedAt.Before(oldest) {
			oldest = w.enqueuedAt
		}
	}

	limit := 2 * e.cfg.BaseMMRSpread
	if e.cfg.WaitSpreadInterval > 0 {
		waited := time.Since(oldest)
		limit += e.cfg.MMRSpreadPerWait * uint32(waited/e.cfg.WaitSpreadInterval)
	}

	spread := window[len(window)-1].mmr - window[0].mmr
	return spread <= limit
}

// buildMatch assembles the match object: average MMR, map choice, snake-draft
// teams, token, ready-up deadline.
func (e *Engine) buildMatch(matchID uint64, srv *gameserver.Server, window []*entry) *Match {
	var sum uint64
	for _, w := range window {
		sum += uint64(w.mmr)
	}

	teamA, teamB := snakeDraft(window)

	m := &Match{
		ID:              matchID,
		Token:           newMatchToken(),
		MapName:         e.pickMap(window),
		AvgMMR:          uint32(sum / uint64(len(window))),
		TeamA:           teamA,
		TeamB:           teamB,
		State:           StateWaitingForConfirmation,
		ReadyUpDeadline: time.Now().Add(e.cfg.ReadyUpTime),
		Accepted:        make(map[uint64]bool, len(window)),
		ServerSteamID:   srv.SteamID,
		ServerAddress:   srv.Address,
		ServerPort:      srv.GamePort,
		CreatedAt:       time.Now(),
	}
	m.srv = srv
	m.entries = make(map[uint64]*entry, len(window))
	for _, w := range window {
		m.entries[w.steamID] = w
	}
	return m
}

// pickMap intersects every player's preference with the pool; an empty
// intersection falls back to a random pool map. Players without preferences
// accept anything.
func (e *Engine) pickMap(window []*entry) string {
	candidates := make(map[string]bool, len(e.cfg.MapPool))
	for _, name := range e.cfg.MapPool {
		candidates[name] = true
	}

	for _, w := range window {
		if len(w.preferredMaps) == 0 {
			continue
		}
		preferred := make(map[string]bool, len(w.preferredMaps))
		for _, name := range w.preferredMaps {
			preferred[name] = true
		}
		for name := range candidates {
			if !preferred[name] {
				delete(candidates, name)
			}
		}
	}

	if len(candidates) == 0 {
		return e.cfg.MapPool[rand.Intn(len(e.cfg.MapPool))]
	}

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[rand.Intn(len(names))]
}

// snakeDraft splits MMR-sorted players A B B A A B B A ... to minimise the
// team-average gap.
func snakeDraft(window []*entry) (teamA, teamB []uint64) {
	sorted := make([]*entry, len(window))
	copy(sorted, window)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].mmr > sorted[j].mmr })

	for i, w := range sorted {
		if i%4 == 0 || i%4 == 3 {
			teamA = append(teamA, w.steamID)
		} else {
			teamB = append(teamB, w.steamID)
		}
	}
	return teamA, teamB
}

// Accept records a ready-up confirmation. When the last player confirms, the
// match commits: clients get the server, the server gets the reservation.
// Repeat accepts are idempotent.
func (e *Engine) Accept(steamID, matchID uint64) {
	var sends []func()

	e.matchMu.Lock()
	m := e.matches[matchID]
	if m == nil || m.State != StateWaitingForConfirmation || m.entries[steamID] == nil {
		e.matchMu.Unlock()
		return
	}
	m.Accepted[steamID] = true

	if m.allAccepted() {
		m.State = StateInProgress
		slog.Info("match confirmed by all players", "matchId", m.ID)

		ready := serverpackets.MatchReady(m.ID, m.ServerAddress, m.ServerPort, m.Token)
		for _, id := range m.Players() {
			id := id
			sends = append(sends, func() {
				e.notifier.SendToPlayer(id, constants.MsgMatchmakingGC2ClientReserve, ready)
			})
		}
		reserve := serverpackets.ServerReserve(m.ID, m.Token, m.MapName, m.TeamA, m.TeamB)
		srv := m.srv
		sends = append(sends, func() {
			e.notifier.SendToServer(srv, constants.MsgMatchmakingGC2ServerReserve, reserve)
		})
	}
	e.matchMu.Unlock()

	for _, send := range sends {
		send()
	}
}

// Decline abandons the match: the decliner leaves the queue entirely, every
// player who had accepted is re-queued, the server is released.
func (e *Engine) Decline(steamID, matchID uint64) {
	e.matchMu.Lock()
	m := e.matches[matchID]
	if m == nil || m.State != StateWaitingForConfirmation || m.entries[steamID] == nil {
		e.matchMu.Unlock()
		return
	}
	slog.Info("match declined", "matchId", m.ID, "steamId", steamID)
	requeue := e.abandonLocked(m, steamID)
	e.matchMu.Unlock()

	e.requeue(requeue)
}

// checkReadyUpTimeouts abandons matches whose deadline passed. Players who
// accepted in time are re-queued.
func (e *Engine) checkReadyUpTimeouts() {
	now := time.Now()
	var requeue []*entry

	e.matchMu.Lock()
	for _, m := range e.matches {
		if m.State != StateWaitingForConfirmation || now.Before(m.ReadyUpDeadline) {
			continue
		}
		slog.Info("ready-up timed out", "matchId", m.ID)
		requeue = append(requeue, e.abandonLocked(m, 0)...)
	}
	e.matchMu.Unlock()

	e.requeue(requeue)
}

// abandonLocked moves a match to ABANDONED under matchMu and returns the
// entries to re-queue: everyone who accepted, except the decliner.
func (e *Engine) abandonLocked(m *Match, declinerID uint64) []*entry {
	m.State = StateAbandoned
	m.TerminalAt = time.Now()
	e.servers.Release(m.ID)

	var requeue []*entry
	for id, ent := range m.entries {
		delete(e.playerMatch, id)
		if id != declinerID && m.Accepted[id] {
			requeue = append(requeue, ent)
		}
	}
	return requeue
}

// requeue reinserts abandoned-match accepters and reprocesses the queue.
func (e *Engine) requeue(entries []*entry) {
	if len(entries) == 0 {
		return
	}

	e.queueMu.Lock()
	for _, ent := range entries {
		ent.priority = true
		e.q.add(ent)
	}
	e.queueMu.Unlock()

	e.processQueue()
}

// MatchEnded completes a match on the server's end-of-match report: the
// server is released, the match log persisted, ratings adjusted. Only the
// server holding the reservation may complete the match.
func (e *Engine) MatchEnded(ctx context.Context, matchID, reporterPeerID uint64, scoreA, scoreB uint32) {
	e.matchMu.Lock()
	m := e.matches[matchID]
	if m == nil || m.State != StateInProgress {
		e.matchMu.Unlock()
		return
	}
	if m.srv.Peer().ID() != reporterPeerID {
		e.matchMu.Unlock()
		slog.Warn("match ended report from a server not holding the match",
			"matchId", matchID, "peer", reporterPeerID)
		return
	}
	e.completeLocked(m)
	e.matchMu.Unlock()

	slog.Info("match completed", "matchId", m.ID, "scoreA", scoreA, "scoreB", scoreB)

	e.logMatch(ctx, m)
	e.applyResult(ctx, m, scoreA, scoreB)
}

// expireMatches completes IN_PROGRESS matches that outlived the grace
// duration without an end-of-match report. The server is released and the
// match is logged; no result is applied since the score never arrived.
func (e *Engine) expireMatches(ctx context.Context) {
	cutoff := time.Now().Add(-e.cfg.MaxMatchDuration)
	var expired []*Match

	e.matchMu.Lock()
	for _, m := range e.matches {
		if m.State == StateInProgress && m.CreatedAt.Before(cutoff) {
			e.completeLocked(m)
			expired = append(expired, m)
		}
	}
	e.matchMu.Unlock()

	for _, m := range expired {
		slog.Warn("match exceeded max duration, completing without a result", "matchId", m.ID)
		e.logMatch(ctx, m)
	}
}

// completeLocked moves a match to COMPLETED under matchMu and releases its
// server.
func (e *Engine) completeLocked(m *Match) {
	m.State = StateCompleted
	m.TerminalAt = time.Now()
	for _, id := range m.Players() {
		delete(e.playerMatch, id)
	}
	e.servers.Release(m.ID)
}

func (e *Engine) logMatch(ctx context.Context, m *Match) {
	if err := e.repo.LogMatch(ctx, db.MatchLog{
		MatchID:       m.ID,
		MatchToken:    m.Token,
		MapName:       m.MapName,
		AvgMMR:        m.AvgMMR,
		TeamA:         m.TeamA,
		TeamB:         m.TeamB,
		ServerAddress: m.ServerAddress,
	}); err != nil {
		slog.Error("failed to log match", "matchId", m.ID, "error", err)
	}
}

// applyResult adjusts ratings: winners gain a win and MMR, losers lose MMR
// down to a floor. A draw changes nothing.
func (e *Engine) applyResult(ctx context.Context, m *Match, scoreA, scoreB uint32) {
	if scoreA == scoreB {
		return
	}
	winners, losers := m.TeamA, m.TeamB
	if scoreB > scoreA {
		winners, losers = m.TeamB, m.TeamA
	}

	for _, id := range winners {
		e.adjustRating(ctx, id, func(r *model.PlayerSkillRating) {
			r.Wins++
			r.MMR += 25
		})
	}
	for _, id := range losers {
		e.adjustRating(ctx, id, func(r *model.PlayerSkillRating) {
			if r.MMR > 125 {
				r.MMR -= 25
			} else {
				r.MMR = 100
			}
		})
	}
}

func (e *Engine) adjustRating(ctx context.Context, steamID uint64, apply func(*model.PlayerSkillRating)) {
	rating, err := e.repo.GetPlayerRating(ctx, steamID)
	if err != nil {
		rating = model.DefaultRating()
	}
	apply(&rating)
	if err := e.repo.UpdatePlayerRating(ctx, steamID, rating); err != nil {
		slog.Warn("rating update failed", "steamId", steamID, "error", err)
	}
}

// RemovePlayer handles a player disconnect: leave the queue, and decline any
// match still waiting for confirmation.
func (e *Engine) RemovePlayer(steamID uint64) {
	e.StopSearch(steamID)

	e.matchMu.Lock()
	matchID, ok := e.playerMatch[steamID]
	var waiting bool
	if ok {
		if m := e.matches[matchID]; m != nil && m.State == StateWaitingForConfirmation {
			waiting = true
		}
	}
	e.matchMu.Unlock()

	if waiting {
		e.Decline(steamID, matchID)
	}
}

// AbandonServerMatch abandons a non-terminal match whose server disappeared.
// Players are not re-queued; the match was already underway or its server is
// gone mid-ready-up.
func (e *Engine) AbandonServerMatch(matchID uint64) {
	e.matchMu.Lock()
	m := e.matches[matchID]
	if m == nil || m.State.Terminal() {
		e.matchMu.Unlock()
		return
	}
	slog.Warn("abandoning match, game server lost", "matchId", m.ID)
	m.State = StateAbandoned
	m.TerminalAt = time.Now()
	for _, id := range m.Players() {
		delete(e.playerMatch, id)
	}
	e.matchMu.Unlock()
}

// cleanupTerminal removes terminal matches older than the cleanup age.
func (e *Engine) cleanupTerminal() {
	cutoff := time.Now().Add(-e.cfg.MatchCleanupAge)

	e.matchMu.Lock()
	for id, m := range e.matches {
		if m.State.Terminal() && m.TerminalAt.Before(cutoff) {
			delete(e.matches, id)
		}
	}
	e.matchMu.Unlock()
}
