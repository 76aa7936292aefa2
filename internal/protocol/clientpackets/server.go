package clientpackets

import (
	"fmt"

	"github.com/friesse/fragNet/internal/protocol/packet"
)

// ServerRegister — SV → GC registration after authentication. The server's
// address comes from the connection; only the game port travels in the body.
//
// Format:
//
//	[serverSteamId uint64]
//	[gamePort uint16]
//	[maxPlayers uint32]
type ServerRegister struct {
	ServerSteamID uint64
	GamePort      uint16
	MaxPlayers    uint32
}

// Parse parses the ServerRegister payload.
func (p *ServerRegister) Parse(body []byte) error {
	r := packet.NewReader(body)

	steamID, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("reading serverSteamId: %w", err)
	}
	p.ServerSteamID = steamID

	port, err := r.ReadUint16()
	if err != nil {
		return fmt.Errorf("reading gamePort: %w", err)
	}
	p.GamePort = port

	maxPlayers, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading maxPlayers: %w", err)
	}
	p.MaxPlayers = maxPlayers
	return nil
}

// ServerHeartbeat — SV → GC liveness signal with the current player count.
//
// Format:
//
//	[currentPlayers uint32]
type ServerHeartbeat struct {
	CurrentPlayers uint32
}

// Parse parses the ServerHeartbeat payload.
func (p *ServerHeartbeat) Parse(body []byte) error {
	players, err := packet.NewReader(body).ReadUint32()
	if err != nil {
		return fmt.Errorf("reading currentPlayers: %w", err)
	}
	p.CurrentPlayers = players
	return nil
}

// ServerMatchEnded — SV → GC end-of-match report.
//
// Format:
//
//	[matchId uint64]
//	[scoreA uint32][scoreB uint32]
type ServerMatchEnded struct {
	MatchID uint64
	ScoreA  uint32
	ScoreB  uint32
}

// Parse parses the ServerMatchEnded payload.
func (p *ServerMatchEnded) Parse(body []byte) error {
	r := packet.NewReader(body)

	matchID, err := r.ReadUint64()
	if err != nil {
		return fmt.Errorf("reading matchId: %w", err)
	}
	p.MatchID = matchID

	scoreA, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading scoreA: %w", err)
	}
	p.ScoreA = scoreA

	scoreB, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading scoreB: %w", err)
	}
	p.ScoreB = scoreB
	return nil
}
