package db

import (
	"context"
	"fmt"

	"github.com/friesse/fragNet/internal/constants"
)

// GetReportTokens returns the report tokens a sender has left this week.
// A token is spent per unique reported player.
func (r *Postgres) GetReportTokens(ctx context.Context, senderSteamID uint64) (int, error) {
	var spent int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT target_steamid64)
		 FROM player_reports
		 WHERE sender_steamid64 = $1 AND created_at > now() - $2::interval`,
		int64(senderSteamID), constants.ReportRepeatWindow.String(),
	).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("querying report tokens for %d: %w", senderSteamID, err)
	}
	tokens := constants.ReportTokensPerWeek - spent
	if tokens < 0 {
		tokens = 0
	}
	return tokens, nil
}

// CountRecentReports counts how many reports the sender filed against the
// target inside the repeat window.
func (r *Postgres) CountRecentReports(ctx context.Context, senderSteamID, targetSteamID uint64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM player_reports
		 WHERE sender_steamid64 = $1 AND target_steamid64 = $2
		   AND created_at > now() - $3::interval`,
		int64(senderSteamID), int64(targetSteamID), constants.ReportRepeatWindow.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("querying recent reports %d->%d: %w", senderSteamID, targetSteamID, err)
	}
	return count, nil
}

// InsertReport records one report row for a single flagged type.
func (r *Postgres) InsertReport(ctx context.Context, senderSteamID, targetSteamID uint64, reportType int16, matchID uint64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO player_reports (sender_steamid64, target_steamid64, report_type, match_id, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		int64(senderSteamID), int64(targetSteamID), reportType, int64(matchID),
	)
	if err != nil {
		return fmt.Errorf("inserting report %d->%d: %w", senderSteamID, targetSteamID, err)
	}
	return nil
}
