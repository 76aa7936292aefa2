package db

import (
	"context"
	"errors"

	"github.com/friesse/fragNet/internal/model"
)

// ErrNotFound is returned when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

// MatchLog is the persisted record of one created match.
type MatchLog struct {
	MatchID       uint64
	MatchToken    string
	MapName       string
	AvgMMR        uint32
	TeamA         []uint64
	TeamB         []uint64
	ServerAddress string
}

// Repository is the persistence contract the coordinator core depends on.
// All operations take scalar parameters; no SQL crosses this boundary.
// Implementations must use parameterised statements throughout.
type Repository interface {
	// Ratings.
	GetPlayerRating(ctx context.Context, steamID uint64) (model.PlayerSkillRating, error)
	UpdatePlayerRating(ctx context.Context, steamID uint64, rating model.PlayerSkillRating) error

	// Match history.
	LogMatch(ctx context.Context, m MatchLog) error

	// Commendations. Tokens are derived:
	// max(0, CommendTokensPerDay − unique receivers in CommendTokenWindow).
	GetCommends(ctx context.Context, targetSteamID uint64) (model.CommendCounts, error)
	GetCommendTokens(ctx context.Context, senderSteamID uint64) (int, error)
	ListCommends(ctx context.Context, senderSteamID, targetSteamID uint64) (model.CommendFlags, error)
	InsertCommend(ctx context.Context, senderSteamID, targetSteamID uint64, commendType int16) error
	DeleteCommend(ctx context.Context, senderSteamID, targetSteamID uint64, commendType int16) error

	// Reports. Tokens are derived:
	// max(0, ReportTokensPerWeek − unique receivers in ReportRepeatWindow).
	GetReportTokens(ctx context.Context, senderSteamID uint64) (int, error)
	CountRecentReports(ctx context.Context, senderSteamID, targetSteamID uint64) (int, error)
	InsertReport(ctx context.Context, senderSteamID, targetSteamID uint64, reportType int16, matchID uint64) error

	// Moderation state, keyed by the legacy STEAM_1:y:z id.
	IsBanned(ctx context.Context, steamID2 string) (bool, error)
	GetLatestCooldown(ctx context.Context, steamID2 string) (*model.Cooldown, error)
	ListMedals(ctx context.Context, steamID2 string) (model.Medals, error)

	// Inventory polling for the per-session item scan.
	LatestItemID(ctx context.Context, steamID2 string) (uint64, error)
	CountItemsAfter(ctx context.Context, steamID2 string, afterItemID uint64) (count int, maxID uint64, err error)
}
