// Package social implements the player-facing services: the hello response,
// profile views, commendations, and reports.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/db"
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/moderation"
	"github.com/friesse/fragNet/internal/protocol/clientpackets"
	"github.com/friesse/fragNet/internal/protocol/serverpackets"
)

// ReportSink receives successfully persisted reports for fan-out.
type ReportSink interface {
	Enqueue(r moderation.Report)
}

// StatsProvider supplies the global counters of the hello response.
type StatsProvider interface {
	PlayersOnline() uint32
	ServersAvailable() uint32
	OngoingMatches() uint32
}

// Service answers the social message flows against the repository.
type Service struct {
	repo    db.Repository
	reports ReportSink
	stats   StatsProvider
}

// NewService creates the social service. stats may be nil; the hello counters
// then stay zero.
func NewService(repo db.Repository, reports ReportSink, stats StatsProvider) *Service {
	return &Service{repo: repo, reports: reports, stats: stats}
}

// BuildHello assembles the hello payload for an authenticated player.
// Repository failures degrade individual fields instead of failing the whole
// response.
func (s *Service) BuildHello(ctx context.Context, steamID uint64) []byte {
	steamID2 := model.SteamID64ToSteamID2(steamID)

	d := serverpackets.HelloData{
		AccountID:         model.AccountID(steamID),
		BlogURL:           constants.HelloBlogURL,
		PricesheetVersion: constants.HelloPricesheetVersion,
	}

	if s.stats != nil {
		d.PlayersOnline = s.stats.PlayersOnline()
		d.ServersAvailable = s.stats.ServersAvailable()
		d.OngoingMatches = s.stats.OngoingMatches()
	}

	banned, err := s.repo.IsBanned(ctx, steamID2)
	if err != nil {
		slog.Warn("ban lookup failed", "steamId", steamID, "error", err)
	}
	d.VACBanned = banned

	rating, err := s.repo.GetPlayerRating(ctx, steamID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			slog.Warn("rating lookup failed", "steamId", steamID, "error", err)
		}
		rating = model.DefaultRating()
	}
	d.RankID = rating.Rank
	d.Wins = rating.Wins

	commends, err := s.repo.GetCommends(ctx, steamID)
	if err != nil {
		slog.Warn("commend lookup failed", "steamId", steamID, "error", err)
	}
	d.Commends = commends

	if cd, err := s.repo.GetLatestCooldown(ctx, steamID2); err != nil {
		slog.Warn("cooldown lookup failed", "steamId", steamID, "error", err)
	} else if cd != nil && !cd.Acknowledged {
		d.PenaltyReason = cd.Reason
		d.PenaltySeconds = cd.SecondsRemaining(time.Now())
	}

	return serverpackets.MatchmakingHello(d)
}

// BuildProfile assembles the profile view for a target account.
func (s *Service) BuildProfile(ctx context.Context, accountID uint32) ([]byte, error) {
	targetID := model.SteamID64FromAccountID(accountID)
	targetID2 := model.SteamID64ToSteamID2(targetID)

	rating, err := s.repo.GetPlayerRating(ctx, targetID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("loading rating: %w", err)
		}
		rating = model.DefaultRating()
	}

	commends, err := s.repo.GetCommends(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("loading commends: %w", err)
	}

	medals, err := s.repo.ListMedals(ctx, targetID2)
	if err != nil {
		return nil, fmt.Errorf("loading medals: %w", err)
	}

	return serverpackets.ProfileResponse(accountID, rating, commends, medals), nil
}

// HandleCommendQuery returns the sender's current commend flags against a
// target plus the remaining tokens.
func (s *Service) HandleCommendQuery(ctx context.Context, senderSteamID uint64, accountID uint32) ([]byte, error) {
	targetID := model.SteamID64FromAccountID(accountID)

	flags, err := s.repo.ListCommends(ctx, senderSteamID, targetID)
	if err != nil {
		return nil, fmt.Errorf("loading pair commends: %w", err)
	}
	tokens, err := s.repo.GetCommendTokens(ctx, senderSteamID)
	if err != nil {
		return nil, fmt.Errorf("loading commend tokens: %w", err)
	}

	return serverpackets.CommendQueryResponse(accountID, flags, tokens), nil
}

// HandleCommend applies a commendation change request. A token is only
// required when the request adds a type and the sender had no prior
// commendation on the target inside the window. There is no response frame;
// rejections are silent.
func (s *Service) HandleCommend(ctx context.Context, senderSteamID uint64, req clientpackets.CommendPlayer) {
	targetID := model.SteamID64FromAccountID(req.AccountID)

	existing, err := s.repo.ListCommends(ctx, senderSteamID, targetID)
	if err != nil {
		slog.Warn("commend state lookup failed", "steamId", senderSteamID, "error", err)
		return
	}

	type change struct {
		commendType int16
		add         bool
	}
	var changes []change
	addsNewType := false

	for _, c := range []struct {
		tri         byte
		commendType int16
		has         bool
	}{
		{req.Friendly, model.CommendFriendly, existing.Friendly},
		{req.Teaching, model.CommendTeaching, existing.Teaching},
		{req.Leader, model.CommendLeader, existing.Leader},
	} {
		switch c.tri {
		case clientpackets.CommendAdd:
			if !c.has {
				changes = append(changes, change{c.commendType, true})
				addsNewType = true
			}
		case clientpackets.CommendRemove:
			if c.has {
				changes = append(changes, change{c.commendType, false})
			}
		}
	}

	if len(changes) == 0 {
		return
	}

	if addsNewType && !existing.Any() {
		tokens, err := s.repo.GetCommendTokens(ctx, senderSteamID)
		if err != nil {
			slog.Warn("commend token lookup failed", "steamId", senderSteamID, "error", err)
			return
		}
		if tokens <= 0 {
			slog.Info("commend rejected, no tokens", "steamId", senderSteamID, "target", req.AccountID)
			return
		}
	}

	for _, c := range changes {
		if c.add {
			err = s.repo.InsertCommend(ctx, senderSteamID, targetID, c.commendType)
		} else {
			err = s.repo.DeleteCommend(ctx, senderSteamID, targetID, c.commendType)
		}
		if err != nil {
			slog.Warn("commend change failed",
				"steamId", senderSteamID, "target", req.AccountID,
				"commendType", c.commendType, "add", c.add, "error", err)
		}
	}

	slog.Info("commends applied",
		"steamId", senderSteamID, "target", req.AccountID, "changes", len(changes))
}

// HandleReport processes a report request and always yields a response
// payload with the outcome.
func (s *Service) HandleReport(ctx context.Context, senderSteamID uint64, senderName string, req clientpackets.ReportPlayer) []byte {
	confirmationID := rand.Uint64()
	targetID := model.SteamID64FromAccountID(req.AccountID)

	tokens, err := s.repo.GetReportTokens(ctx, senderSteamID)
	if err != nil {
		slog.Warn("report token lookup failed", "steamId", senderSteamID, "error", err)
		return serverpackets.ReportResponse(confirmationID, constants.ReportResultError, 0)
	}
	if tokens <= 0 {
		return serverpackets.ReportResponse(confirmationID, constants.ReportResultNoTokens, 0)
	}

	recent, err := s.repo.CountRecentReports(ctx, senderSteamID, targetID)
	if err != nil {
		slog.Warn("recent report lookup failed", "steamId", senderSteamID, "error", err)
		return serverpackets.ReportResponse(confirmationID, constants.ReportResultError, uint32(tokens))
	}
	if recent > 0 {
		return serverpackets.ReportResponse(confirmationID, constants.ReportResultAlreadyReported, uint32(tokens))
	}

	types := req.Flags.Types()
	if len(types) == 0 {
		return serverpackets.ReportResponse(confirmationID, constants.ReportResultError, uint32(tokens))
	}

	var inserted []int16
	for _, t := range types {
		if err := s.repo.InsertReport(ctx, senderSteamID, targetID, t, req.MatchID); err != nil {
			slog.Warn("report insert failed",
				"steamId", senderSteamID, "target", req.AccountID, "reportType", t, "error", err)
			continue
		}
		inserted = append(inserted, t)
	}
	if len(inserted) == 0 {
		return serverpackets.ReportResponse(confirmationID, constants.ReportResultError, uint32(tokens))
	}

	slog.Info("report filed",
		"steamId", senderSteamID, "target", req.AccountID,
		"types", len(inserted), "confirmationId", confirmationID)

	if s.reports != nil {
		s.reports.Enqueue(moderation.Report{
			ReporterSteamID: senderSteamID,
			ReporterName:    senderName,
			TargetSteamID:   targetID,
			Types:           inserted,
			ReportedAt:      time.Now(),
		})
	}

	return serverpackets.ReportResponse(confirmationID, constants.ReportResultOK, uint32(tokens-1))
}
