package serverpackets

import (
	"github.com/friesse/fragNet/internal/protocol/packet"
)

// MatchFound — GC → CL a match formed and awaits ready-up.
//
// Format:
//
//	[matchId uint64]
//	[mapName string]
//	[avgMmr uint32]
//	[readyUpSeconds uint32]
func MatchFound(matchID uint64, mapName string, avgMMR uint32, readyUpSeconds uint32) []byte {
	w := packet.NewWriter(18 + len(mapName))
	w.WriteUint64(matchID)
	w.WriteString(mapName)
	w.WriteUint32(avgMMR)
	w.WriteUint32(readyUpSeconds)
	return w.Bytes()
}

// MatchReady — GC → CL all players accepted; connect to the reserved server.
//
// Format:
//
//	[matchId uint64]
//	[serverAddress string]
//	[serverPort uint16]
//	[matchToken string]
func MatchReady(matchID uint64, serverAddress string, serverPort uint16, matchToken string) []byte {
	w := packet.NewWriter(14 + len(serverAddress) + len(matchToken))
	w.WriteUint64(matchID)
	w.WriteString(serverAddress)
	w.WriteUint16(serverPort)
	w.WriteString(matchToken)
	return w.Bytes()
}

// ServerReserve — GC → SV reservation the game server consumes to spin up a
// match.
//
// Format:
//
//	[matchId uint64]
//	[matchToken string]
//	[mapName string]
//	[teamASize byte][steamId uint64] × teamASize
//	[teamBSize byte][steamId uint64] × teamBSize
func ServerReserve(matchID uint64, matchToken, mapName string, teamA, teamB []uint64) []byte {
	w := packet.NewWriter(14 + len(matchToken) + len(mapName) + 8*(len(teamA)+len(teamB)))
	w.WriteUint64(matchID)
	w.WriteString(matchToken)
	w.WriteString(mapName)
	w.WriteByte(byte(len(teamA)))
	for _, id := range teamA {
		w.WriteUint64(id)
	}
	w.WriteByte(byte(len(teamB)))
	for _, id := range teamB {
		w.WriteUint64(id)
	}
	return w.Bytes()
}
