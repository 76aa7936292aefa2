package matchmaking

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/friesse/fragNet/internal/gameserver"
)

// State is the lifecycle phase of a match.
type State int

const (
	StateWaitingForConfirmation State = iota
	StateInProgress
	StateCompleted
	StateAbandoned
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateWaitingForConfirmation:
		return "WAITING_FOR_CONFIRMATION"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateCompleted:
		return "COMPLETED"
	case StateAbandoned:
		return "ABANDONED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the match reached a final state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAbandoned
}

// Match is one formed match and its ready-up bookkeeping.
type Match struct {
	ID      uint64
	Token   string
	MapName string
	AvgMMR  uint32

	TeamA []uint64
	TeamB []uint64

	State           State
	ReadyUpDeadline time.Time
	Accepted        map[uint64]bool

	ServerSteamID uint64
	ServerAddress string
	ServerPort    uint16

	CreatedAt  time.Time
	TerminalAt time.Time

	srv     *gameserver.Server
	entries map[uint64]*entry
}

// Players returns both teams as one slice.
func (m *Match) Players() []uint64 {
	all := make([]uint64, 0, len(m.TeamA)+len(m.TeamB))
	all = append(all, m.TeamA...)
	all = append(all, m.TeamB...)
	return all
}

// allAccepted reports whether every player confirmed ready-up.
func (m *Match) allAccepted() bool {
	for _, id := range m.TeamA {
		if !m.Accepted[id] {
			return false
		}
	}
	for _, id := range m.TeamB {
		if !m.Accepted[id] {
			return false
		}
	}
	return true
}

// newMatchToken returns a 32-hex-char token the server uses to gate joins.
func newMatchToken() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
