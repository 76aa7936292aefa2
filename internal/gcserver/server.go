// Package gcserver wires the coordinator together: it drains the transport,
// reassembles frames, enforces the auth gate, and dispatches messages to the
// component that owns them.
package gcserver

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/gameserver"
	"github.com/friesse/fragNet/internal/matchmaking"
	"github.com/friesse/fragNet/internal/protocol"
	"github.com/friesse/fragNet/internal/protocol/serverpackets"
	"github.com/friesse/fragNet/internal/session"
	"github.com/friesse/fragNet/internal/social"
	"github.com/friesse/fragNet/internal/transport"
)

// handlerFunc processes one complete inbound message on an authenticated
// session.
type handlerFunc func(ctx context.Context, s *session.Session, payload []byte)

// Server is the coordinator message loop.
type Server struct {
	tp       transport.Transport
	sessions *session.Registry
	social   *social.Service
	engine   *matchmaking.Engine
	servers  *gameserver.Registry

	mu         sync.Mutex
	assemblers map[uint64]*protocol.Assembler

	handlers map[uint32]handlerFunc
}

// New builds the server and its handler table. The server doubles as the
// matchmaking notifier and the hello stats provider, so the social service
// and the engine are attached afterwards with Bind.
func New(tp transport.Transport, sessions *session.Registry, servers *gameserver.Registry) *Server {
	srv := &Server{
		tp:         tp,
		sessions:   sessions,
		servers:    servers,
		assemblers: make(map[uint64]*protocol.Assembler),
	}

	srv.handlers = map[uint32]handlerFunc{
		constants.MsgGCHeartbeat:              srv.handleHeartbeat,
		constants.MsgBuildMatchmakingHello:    srv.handleHello,
		constants.MsgViewProfileRequest:       srv.handleViewProfile,
		constants.MsgClientCommendPlayerQuery: srv.handleCommendQuery,
		constants.MsgClientCommendPlayer:      srv.handleCommend,
		constants.MsgClientReportPlayer:       srv.handleReport,
		constants.MsgMatchmakingStartSearch:   srv.handleStartSearch,
		constants.MsgMatchmakingStopSearch:    srv.handleStopSearch,
		constants.MsgMatchmakingAcceptMatch:   srv.handleAcceptMatch,
		constants.MsgMatchmakingDeclineMatch:  srv.handleDeclineMatch,
		constants.MsgServerRegister:           srv.handleServerRegister,
		constants.MsgServerHeartbeat:          srv.handleServerHeartbeat,
		constants.MsgServerMatchEnded:         srv.handleServerMatchEnded,
	}

	sessions.OnItemsUpdated(srv.notifyItemsUpdated)
	return srv
}

// Bind attaches the components that themselves depend on the server.
func (s *Server) Bind(socialSvc *social.Service, engine *matchmaking.Engine) {
	s.social = socialSvc
	s.engine = engine
	s.sessions.OnExpire(func(sess *session.Session) {
		if sess.Authenticated() {
			engine.RemovePlayer(sess.SteamID())
		}
	})
}

// OnPeerDisconnect is the transport disconnect callback: it tears down the
// session, the assembler, and any game-server registration the peer held.
func (s *Server) OnPeerDisconnect(peer *transport.Peer) {
	s.mu.Lock()
	delete(s.assemblers, peer.ID())
	s.mu.Unlock()

	if matchID := s.servers.Remove(peer); matchID != 0 {
		s.engine.AbandonServerMatch(matchID)
	}
	s.sessions.Detach(peer)
}

// Run drains the transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case in, ok := <-s.tp.Messages():
			if !ok {
				return nil
			}
			s.handleFrame(ctx, in)
		}
	}
}

func (s *Server) handleFrame(ctx context.Context, in transport.Inbound) {
	sess := s.sessions.Get(in.Peer)
	if sess == nil {
		sess = s.sessions.Attach(in.Peer)
	}
	sess.Touch()

	msg, err := s.assembler(in.Peer).Push(in.Frame)
	if err != nil {
		if errors.Is(err, protocol.ErrMalformedFrame) {
			slog.Warn("malformed frame", "peer", in.Peer.ID())
			s.sessions.RecordMalformed(sess)
			return
		}
		slog.Warn("frame rejected", "peer", in.Peer.ID(), "error", err)
		return
	}
	if msg == nil {
		return
	}

	s.dispatch(ctx, sess, msg)
}

func (s *Server) assembler(peer *transport.Peer) *protocol.Assembler {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assemblers[peer.ID()]
	if !ok {
		a = protocol.NewAssembler()
		s.assemblers[peer.ID()] = a
	}
	return a
}

// dispatch routes one message. Unauthenticated sessions may only send the
// auth ticket; everything else is rejected without a response.
func (s *Server) dispatch(ctx context.Context, sess *session.Session, msg *protocol.Message) {
	if msg.Type == constants.MsgClientAuthTicket {
		s.handleAuthTicket(ctx, sess, msg.Payload)
		return
	}

	if !sess.Authenticated() {
		slog.Warn("message before authentication",
			"peer", sess.Peer().ID(), "msgType", msg.Type)
		return
	}

	handler, ok := s.handlers[msg.Type]
	if !ok {
		slog.Warn("unknown message type", "peer", sess.Peer().ID(), "msgType", msg.Type)
		return
	}
	handler(ctx, sess, msg.Payload)
}

// send encodes and writes one message to a session's peer.
func (s *Server) send(sess *session.Session, msgType uint32, payload []byte) {
	s.sendToPeer(sess.Peer(), msgType, payload)
}

func (s *Server) sendToPeer(peer *transport.Peer, msgType uint32, payload []byte) {
	frames := protocol.Encode(protocol.Message{Type: msgType, Payload: payload}, 0)
	for _, frame := range frames {
		if err := s.tp.Send(peer, frame); err != nil {
			slog.Warn("send failed", "peer", peer.ID(), "msgType", msgType, "error", err)
			return
		}
	}
}

func (s *Server) notifyItemsUpdated(sess *session.Session, newItemCount uint32) {
	s.send(sess, constants.MsgItemsUpdated, serverpackets.ItemsUpdated(newItemCount))
}

// SendToPlayer implements matchmaking.Notifier for online players.
func (s *Server) SendToPlayer(steamID uint64, msgType uint32, payload []byte) {
	sess := s.sessions.BySteamID(steamID)
	if sess == nil {
		slog.Warn("notification for offline player", "steamId", steamID, "msgType", msgType)
		return
	}
	s.send(sess, msgType, payload)
}

// SendToServer implements matchmaking.Notifier for game servers.
func (s *Server) SendToServer(srv *gameserver.Server, msgType uint32, payload []byte) {
	s.sendToPeer(srv.Peer(), msgType, payload)
}

// PlayersOnline implements social.StatsProvider.
func (s *Server) PlayersOnline() uint32 {
	return uint32(s.sessions.CountAuthenticated())
}

// ServersAvailable implements social.StatsProvider.
func (s *Server) ServersAvailable() uint32 {
	return uint32(s.servers.AvailableCount())
}

// OngoingMatches implements social.StatsProvider.
func (s *Server) OngoingMatches() uint32 {
	return uint32(s.engine.ActiveMatches())
}
