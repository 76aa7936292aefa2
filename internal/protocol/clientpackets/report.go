package clientpackets

import (
	"fmt"

	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/protocol/packet"
)

// ReportPlayer — CL → GC report request with one flag per report type.
//
// Format:
//
//	[accountId uint32]
//	[matchId uint64]
//	[aimbot byte][wallhack byte][speedhack byte]
//	[griefing byte][textAbuse byte][voiceAbuse byte]
type ReportPlayer struct {
	AccountID uint32
	MatchID   uint64
	Flags     model.ReportFlags
}

// Parse parses the ReportPlayer payload.
func (p *ReportPlayer) Parse(body []byte) error {
	r := packet.NewReader(body)

	accountID, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading accountId: %w", err)
	}
	p.AccountID = accountID

	matchID, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("reading matchId: %w", err)
	}
	p.MatchID = matchID

	for _, field := range []struct {
		name string
		dst  *bool
	}{
		{"aimbot", &p.Flags.Aimbot},
		{"wallhack", &p.Flags.Wallhack},
		{"speedhack", &p.Flags.Speedhack},
		{"griefing", &p.Flags.Griefing},
		{"textAbuse", &p.Flags.TextAbuse},
		{"voiceAbuse", &p.Flags.VoiceAbuse},
	} {
		v, err := r.ReadBool()
		if err != nil {
			return fmt.Errorf("reading %s: %w", field.name, err)
		}
		*field.dst = v
	}
	return nil
}
