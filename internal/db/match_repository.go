package db

import (
	"context"
	"fmt"
)

// LogMatch persists the record of one committed match.
func (r *Postgres) LogMatch(ctx context.Context, m MatchLog) error {
	teamA := make([]int64, len(m.TeamA))
	for i, id := range m.TeamA {
		teamA[i] = int64(id)
	}
	teamB := make([]int64, len(m.TeamB))
	for i, id := range m.TeamB {
		teamB[i] = int64(id)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO match_history (match_id, match_token, map_name, avg_mmr, team_a, team_b, server_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		int64(m.MatchID), m.MatchToken, m.MapName, m.AvgMMR, teamA, teamB, m.ServerAddress,
	)
	if err != nil {
		return fmt.Errorf("logging match %d: %w", m.MatchID, err)
	}
	return nil
}
