package db

import (
	"context"
	"fmt"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/model"
)

// GetCommends aggregates per-type commendation counts received by a player.
func (r *Postgres) GetCommends(ctx context.Context, targetSteamID uint64) (model.CommendCounts, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT commend_type, COUNT(*)
		 FROM player_commends WHERE target_steamid64 = $1
		 GROUP BY commend_type`,
		int64(targetSteamID),
	)
	if err != nil {
		return model.CommendCounts{}, fmt.Errorf("querying commends for %d: %w", targetSteamID, err)
	}
	defer rows.Close()

	var counts model.CommendCounts
	for rows.Next() {
		var (
			commendType int16
			count       uint32
		)
		if err := rows.Scan(&commendType, &count); err != nil {
			return model.CommendCounts{}, fmt.Errorf("scanning commend row: %w", err)
		}
		switch commendType {
		case model.CommendFriendly:
			counts.Friendly = count
		case model.CommendTeaching:
			counts.Teaching = count
		case model.CommendLeader:
			counts.Leader = count
		}
	}
	if err := rows.Err(); err != nil {
		return model.CommendCounts{}, fmt.Errorf("iterating commend rows: %w", err)
	}
	return counts, nil
}

// GetCommendTokens returns the commendation tokens a sender has left today.
// A token is spent per unique receiver, not per commendation row.
func (r *Postgres) GetCommendTokens(ctx context.Context, senderSteamID uint64) (int, error) {
	var spent int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT target_steamid64)
		 FROM player_commends
		 WHERE sender_steamid64 = $1 AND created_at > now() - $2::interval`,
		int64(senderSteamID), constants.CommendTokenWindow.String(),
	).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("querying commend tokens for %d: %w", senderSteamID, err)
	}
	tokens := constants.CommendTokensPerDay - spent
	if tokens < 0 {
		tokens = 0
	}
	return tokens, nil
}

// ListCommends returns which commendation types the sender currently has
// recorded against the target inside the pair window.
func (r *Postgres) ListCommends(ctx context.Context, senderSteamID, targetSteamID uint64) (model.CommendFlags, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT commend_type
		 FROM player_commends
		 WHERE sender_steamid64 = $1 AND target_steamid64 = $2
		   AND created_at > now() - $3::interval`,
		int64(senderSteamID), int64(targetSteamID), constants.CommendPairWindow.String(),
	)
	if err != nil {
		return model.CommendFlags{}, fmt.Errorf("querying pair commends %d->%d: %w", senderSteamID, targetSteamID, err)
	}
	defer rows.Close()

	var flags model.CommendFlags
	for rows.Next() {
		var commendType int16
		if err := rows.Scan(&commendType); err != nil {
			return model.CommendFlags{}, fmt.Errorf("scanning pair commend row: %w", err)
		}
		switch commendType {
		case model.CommendFriendly:
			flags.Friendly = true
		case model.CommendTeaching:
			flags.Teaching = true
		case model.CommendLeader:
			flags.Leader = true
		}
	}
	if err := rows.Err(); err != nil {
		return model.CommendFlags{}, fmt.Errorf("iterating pair commend rows: %w", err)
	}
	return flags, nil
}

// InsertCommend records one commendation of the given type.
func (r *Postgres) InsertCommend(ctx context.Context, senderSteamID, targetSteamID uint64, commendType int16) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO player_commends (sender_steamid64, target_steamid64, commend_type, created_at)
		 VALUES ($1, $2, $3, now())`,
		int64(senderSteamID), int64(targetSteamID), commendType,
	)
	if err != nil {
		return fmt.Errorf("inserting commend %d->%d: %w", senderSteamID, targetSteamID, err)
	}
	return nil
}

// DeleteCommend removes the sender's commendation of the given type from the
// target, regardless of age.
func (r *Postgres) DeleteCommend(ctx context.Context, senderSteamID, targetSteamID uint64, commendType int16) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM player_commends
		 WHERE sender_steamid64 = $1 AND target_steamid64 = $2 AND commend_type = $3`,
		int64(senderSteamID), int64(targetSteamID), commendType,
	)
	if err != nil {
		return fmt.Errorf("deleting commend %d->%d: %w", senderSteamID, targetSteamID, err)
	}
	return nil
}
