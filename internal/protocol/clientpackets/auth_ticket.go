// Package clientpackets parses the payloads of messages arriving at the
// coordinator, from game clients and game servers alike.
package clientpackets

import (
	"fmt"

	"github.com/friesse/fragNet/internal/protocol/packet"
)

// AuthTicket — CL → GC session authentication request.
//
// Format:
//
//	[steamId uint64]
//	[ticketLen uint16][ticket bytes]
type AuthTicket struct {
	SteamID uint64
	Ticket  []byte
}

// Parse parses the AuthTicket payload.
func (p *AuthTicket) Parse(body []byte) error {
	r := packet.NewReader(body)

	steamID, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("reading steamId: %w", err)
	}
	p.SteamID = steamID

	ticketLen, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("reading ticket length: %w", err)
	}
	ticket, err := r.ReadBytes(int(ticketLen))
	if err != nil {
		return fmt.Errorf("reading ticket: %w", err)
	}
	p.Ticket = ticket
	return nil
}
