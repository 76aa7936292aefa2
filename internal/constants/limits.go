package constants

import "time"

// Session limits.
const (
	// SessionIdleTimeout disconnects peers with no inbound frames for this long.
	SessionIdleTimeout = 60 * time.Second

	// SessionSweepInterval is how often the idle sweep runs.
	SessionSweepInterval = 10 * time.Second

	// MalformedFrameLimit closes the session after this many malformed frames
	// within MalformedFrameWindow.
	MalformedFrameLimit  = 10
	MalformedFrameWindow = 60 * time.Second

	// ItemPollInterval is how often authenticated sessions are scanned for
	// new inventory items.
	ItemPollInterval = 5 * time.Second
)

// Game server registry limits.
const (
	// GameServerHeartbeatTimeout unregisters servers silent for this long.
	GameServerHeartbeatTimeout = 30 * time.Second

	// DefaultMaxPlayers is the player capacity a server registers with.
	DefaultMaxPlayers = 10
)

// Social budgets.
const (
	// CommendTokensPerDay is the commend budget per sender per
	// CommendTokenWindow. A token is spent per unique receiver.
	CommendTokensPerDay = 3
	CommendTokenWindow  = 24 * time.Hour

	// CommendPairWindow is how far back an existing sender→target
	// commendation still counts as present.
	CommendPairWindow = 3 * 30 * 24 * time.Hour

	// ReportTokensPerWeek is the report budget per sender per
	// ReportRepeatWindow, spent per unique reported player. The same window
	// blocks a second sender→target report.
	ReportTokensPerWeek = 6
	ReportRepeatWindow  = 7 * 24 * time.Hour
)

// Transport limits.
const (
	// InboundQueueSize bounds the shared transport message queue.
	InboundQueueSize = 4096

	// MaxFrameSize rejects frames larger than this on the TCP stream.
	MaxFrameSize = 1 << 20

	// ChunkReassemblyTimeout drops an incomplete chunk group after this long.
	ChunkReassemblyTimeout = 10 * time.Second
)
