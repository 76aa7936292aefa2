package clientpackets

import (
	"fmt"

	"github.com/friesse/fragNet/internal/protocol/packet"
)

// StartSearch — CL → GC queue entry request with optional map preferences.
//
// Format:
//
//	[mapCount byte]
//	[mapName string] × mapCount
type StartSearch struct {
	PreferredMaps []string
}

// Parse parses the StartSearch payload. An empty body means no preference.
func (p *StartSearch) Parse(body []byte) error {
	if len(body) == 0 {
		p.PreferredMaps = nil
		return nil
	}

	r := packet.NewReader(body)
	count, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("reading map count: %w", err)
	}

	maps := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		name, err := r.ReadString()
		if err != nil {
			return fmt.Errorf("reading map %d: %w", i, err)
		}
		maps = append(maps, name)
	}
	p.PreferredMaps = maps
	return nil
}

// AcceptMatch — CL → GC ready-up confirmation.
//
// Format:
//
//	[matchId uint64]
type AcceptMatch struct {
	MatchID uint64
}

// Parse parses the AcceptMatch payload.
func (p *AcceptMatch) Parse(body []byte) error {
	matchID, err := packet.NewReader(body).ReadUint64()
	if err != nil {
		return fmt.Errorf("reading matchId: %w", err)
	}
	p.MatchID = matchID
	return nil
}

// DeclineMatch — CL → GC ready-up decline.
//
// Format:
//
//	[matchId uint64]
type DeclineMatch struct {
	MatchID uint64
}

// Parse parses the DeclineMatch payload.
func (p *DeclineMatch) Parse(body []byte) error {
	matchID, err := packet.NewReader(body).ReadUint64()
	if err != nil {
		return fmt.Errorf("reading matchId: %w", err)
	}
	p.MatchID = matchID
	return nil
}
