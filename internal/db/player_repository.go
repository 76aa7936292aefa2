package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friesse/fragNet/internal/model"
)

// querier is the slice of the pgx pool API the repository uses. Tests swap
// in a recording stub.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool querier
}

// NewPostgres creates the Postgres repository.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

var _ Repository = (*Postgres)(nil)

// GetPlayerRating loads the matchmaking rating row for a player.
// The rank id is derived from the ranked score via the fixed step table.
// Returns ErrNotFound for players without a row.
func (r *Postgres) GetPlayerRating(ctx context.Context, steamID uint64) (model.PlayerSkillRating, error) {
	var (
		score            int
		mmr, wins, level uint32
	)
	err := r.pool.QueryRow(ctx,
		`SELECT score, mmr, wins, level FROM player_rankings WHERE steamid64 = $1`,
		int64(steamID),
	).Scan(&score, &mmr, &wins, &level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PlayerSkillRating{}, ErrNotFound
		}
		return model.PlayerSkillRating{}, fmt.Errorf("querying rating for %d: %w", steamID, err)
	}

	return model.PlayerSkillRating{
		Rank:  model.ScoreToRank(score),
		Wins:  wins,
		MMR:   mmr,
		Level: level,
	}, nil
}

// UpdatePlayerRating upserts the rating row for a player. The ranked score
// tracks the MMR so the derived rank moves with it.
func (r *Postgres) UpdatePlayerRating(ctx context.Context, steamID uint64, rating model.PlayerSkillRating) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO player_rankings (steamid64, score, mmr, wins, level)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (steamid64) DO UPDATE SET
		   score = EXCLUDED.score, mmr = EXCLUDED.mmr,
		   wins = EXCLUDED.wins, level = EXCLUDED.level`,
		int64(steamID), int(rating.MMR), rating.MMR, rating.Wins, rating.Level,
	)
	if err != nil {
		return fmt.Errorf("updating rating for %d: %w", steamID, err)
	}
	return nil
}

// IsBanned reports whether a permanent, unremoved ban row exists.
func (r *Postgres) IsBanned(ctx context.Context, steamID2 string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM server_bans WHERE authid = $1 AND length = 0 AND removed IS NULL`,
		steamID2,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("querying bans for %s: %w", steamID2, err)
	}
	return count > 0, nil
}

// GetLatestCooldown returns the most recent cooldown row, or nil if none.
func (r *Postgres) GetLatestCooldown(ctx context.Context, steamID2 string) (*model.Cooldown, error) {
	var cd model.Cooldown
	err := r.pool.QueryRow(ctx,
		`SELECT cooldown_reason, cooldown_expire, acknowledged
		 FROM cooldowns WHERE sid = $1
		 ORDER BY id DESC LIMIT 1`,
		steamID2,
	).Scan(&cd.Reason, &cd.Expire, &cd.Acknowledged)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying cooldown for %s: %w", steamID2, err)
	}
	return &cd, nil
}

// ListMedals loads the display items for a profile. The featured item is the
// first one equipped on both team sides.
func (r *Postgres) ListMedals(ctx context.Context, steamID2 string) (model.Medals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT defindex, equipped_t, equipped_ct
		 FROM player_medals WHERE owner_steamid2 = $1
		 ORDER BY defindex`,
		steamID2,
	)
	if err != nil {
		return model.Medals{}, fmt.Errorf("querying medals for %s: %w", steamID2, err)
	}
	defer rows.Close()

	var medals model.Medals
	for rows.Next() {
		var (
			defindex   uint32
			equippedT  bool
			equippedCT bool
		)
		if err := rows.Scan(&defindex, &equippedT, &equippedCT); err != nil {
			return model.Medals{}, fmt.Errorf("scanning medal row: %w", err)
		}
		medals.DisplayItems = append(medals.DisplayItems, defindex)
		if equippedT && equippedCT && medals.Featured == 0 {
			medals.Featured = defindex
		}
	}
	if err := rows.Err(); err != nil {
		return model.Medals{}, fmt.Errorf("iterating medal rows: %w", err)
	}
	return medals, nil
}

// LatestItemID returns the highest inventory item id for a player, 0 if none.
func (r *Postgres) LatestItemID(ctx context.Context, steamID2 string) (uint64, error) {
	var maxID int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(id), 0) FROM inventory_items WHERE owner_steamid2 = $1`,
		steamID2,
	).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("querying latest item id for %s: %w", steamID2, err)
	}
	return uint64(maxID), nil
}

// CountItemsAfter counts inventory rows newer than afterItemID and returns
// the new maximum id so the caller can advance its cursor.
func (r *Postgres) CountItemsAfter(ctx context.Context, steamID2 string, afterItemID uint64) (int, uint64, error) {
	var (
		count int
		maxID int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX(id), 0)
		 FROM inventory_items WHERE owner_steamid2 = $1 AND id > $2`,
		steamID2, int64(afterItemID),
	).Scan(&count, &maxID)
	if err != nil {
		return 0, 0, fmt.Errorf("querying new items for %s: %w", steamID2, err)
	}
	if count == 0 {
		return 0, afterItemID, nil
	}
	return count, uint64(maxID), nil
}
