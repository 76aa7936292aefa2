package gcserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/protocol/clientpackets"
	"github.com/friesse/fragNet/internal/protocol/serverpackets"
	"github.com/friesse/fragNet/internal/session"
)

func (s *Server) handleAuthTicket(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.AuthTicket
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad auth ticket payload", "peer", sess.Peer().ID(), "error", err)
		s.sessions.RecordMalformed(sess)
		return
	}

	steamID, err := s.sessions.Authenticate(ctx, sess, req.Ticket, req.SteamID)
	if err != nil {
		slog.Warn("authentication failed",
			"peer", sess.Peer().ID(), "claimedSteamId", req.SteamID, "error", err)
		s.send(sess, constants.MsgGCConfirmAuth, serverpackets.ConfirmAuth(constants.AuthResultFailed, 0))
		return
	}

	s.send(sess, constants.MsgGCConfirmAuth, serverpackets.ConfirmAuth(constants.AuthResultOK, steamID))
	s.send(sess, constants.MsgGCWelcome, serverpackets.Welcome(constants.GCVersion))
}

func (s *Server) handleHeartbeat(_ context.Context, _ *session.Session, _ []byte) {
	// Activity was already touched on receive; nothing else to do.
}

func (s *Server) handleHello(ctx context.Context, sess *session.Session, _ []byte) {
	s.send(sess, constants.MsgBuildMatchmakingHello, s.social.BuildHello(ctx, sess.SteamID()))
}

func (s *Server) handleViewProfile(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.ViewProfileRequest
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad profile request", "peer", sess.Peer().ID(), "error", err)
		return
	}

	resp, err := s.social.BuildProfile(ctx, req.AccountID)
	if err != nil {
		slog.Warn("profile build failed", "accountId", req.AccountID, "error", err)
		return
	}
	s.send(sess, constants.MsgViewProfileResponse, resp)
}

func (s *Server) handleCommendQuery(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.CommendPlayerQuery
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad commend query", "peer", sess.Peer().ID(), "error", err)
		return
	}

	resp, err := s.social.HandleCommendQuery(ctx, sess.SteamID(), req.AccountID)
	if err != nil {
		slog.Warn("commend query failed", "accountId", req.AccountID, "error", err)
		return
	}
	s.send(sess, constants.MsgClientCommendPlayerQueryResp, resp)
}

func (s *Server) handleCommend(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.CommendPlayer
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad commend request", "peer", sess.Peer().ID(), "error", err)
		return
	}
	s.social.HandleCommend(ctx, sess.SteamID(), req)
}

func (s *Server) handleReport(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.ReportPlayer
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad report request", "peer", sess.Peer().ID(), "error", err)
		return
	}

	senderName := fmt.Sprintf("Player %d", model.AccountID(sess.SteamID()))
	resp := s.social.HandleReport(ctx, sess.SteamID(), senderName, req)
	s.send(sess, constants.MsgClientReportResponse, resp)
}

func (s *Server) handleStartSearch(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.StartSearch
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad search request", "peer", sess.Peer().ID(), "error", err)
		return
	}
	s.engine.StartSearch(ctx, sess.SteamID(), req.PreferredMaps)
}

func (s *Server) handleStopSearch(_ context.Context, sess *session.Session, _ []byte) {
	s.engine.StopSearch(sess.SteamID())
}

func (s *Server) handleAcceptMatch(_ context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.AcceptMatch
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad accept request", "peer", sess.Peer().ID(), "error", err)
		return
	}
	s.engine.Accept(sess.SteamID(), req.MatchID)
}

func (s *Server) handleDeclineMatch(_ context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.DeclineMatch
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad decline request", "peer", sess.Peer().ID(), "error", err)
		return
	}
	s.engine.Decline(sess.SteamID(), req.MatchID)
}

func (s *Server) handleServerRegister(_ context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.ServerRegister
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad server register", "peer", sess.Peer().ID(), "error", err)
		return
	}
	s.servers.Register(sess.Peer(), req.ServerSteamID, req.GamePort, req.MaxPlayers)
}

func (s *Server) handleServerHeartbeat(_ context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.ServerHeartbeat
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad server heartbeat", "peer", sess.Peer().ID(), "error", err)
		return
	}
	if !s.servers.Heartbeat(sess.Peer(), req.CurrentPlayers) {
		slog.Warn("heartbeat from unregistered server", "peer", sess.Peer().ID())
	}
}

func (s *Server) handleServerMatchEnded(ctx context.Context, sess *session.Session, payload []byte) {
	var req clientpackets.ServerMatchEnded
	if err := req.Parse(payload); err != nil {
		slog.Warn("bad match ended report", "peer", sess.Peer().ID(), "error", err)
		return
	}
	if s.servers.ByPeer(sess.Peer()) == nil {
		slog.Warn("match ended report from unregistered server", "peer", sess.Peer().ID())
		return
	}
	s.engine.MatchEnded(ctx, req.MatchID, sess.Peer().ID(), req.ScoreA, req.ScoreB)
}
