package matchmaking

import "time"

// Config holds the matchmaking knobs.
type Config struct {
	PlayersPerTeam     int           `yaml:"players_per_team" env:"GC_MM_PLAYERS_PER_TEAM"`
	ReadyUpTime        time.Duration `yaml:"ready_up_time" env:"GC_MM_READY_UP_TIME"`
	QueueCheckInterval time.Duration `yaml:"queue_check_interval" env:"GC_MM_QUEUE_CHECK_INTERVAL"`
	MatchCleanupAge    time.Duration `yaml:"match_cleanup_age" env:"GC_MM_MATCH_CLEANUP_AGE"`

	// MaxMatchDuration completes an in-progress match whose server never
	// reported a result.
	MaxMatchDuration time.Duration `yaml:"max_match_duration" env:"GC_MM_MAX_MATCH_DURATION"`

	BaseMMRSpread uint32 `yaml:"base_mmr_spread" env:"GC_MM_BASE_MMR_SPREAD"`

	// Spread allowance added per full wait interval spent in queue.
	MMRSpreadPerWait   uint32        `yaml:"mmr_spread_per_wait" env:"GC_MM_SPREAD_PER_WAIT"`
	WaitSpreadInterval time.Duration `yaml:"wait_spread_interval" env:"GC_MM_WAIT_SPREAD_INTERVAL"`

	MapPool []string `yaml:"map_pool" env:"GC_MM_MAP_POOL" envSeparator:","`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		PlayersPerTeam:     5,
		ReadyUpTime:        30 * time.Second,
		QueueCheckInterval: 5 * time.Second,
		MatchCleanupAge:    5 * time.Minute,
		MaxMatchDuration:   2 * time.Hour,
		BaseMMRSpread:      300,
		MMRSpreadPerWait:   100,
		WaitSpreadInterval: 30 * time.Second,
		MapPool: []string{
			"de_dust2",
			"de_mirage",
			"de_inferno",
			"de_nuke",
			"de_overpass",
			"de_cache",
			"de_train",
			"de_vertigo",
			"de_ancient",
		},
	}
}

// MatchSize returns the total player count of one match.
func (c Config) MatchSize() int {
	return 2 * c.PlayersPerTeam
}
