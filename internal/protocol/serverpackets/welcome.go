// Package serverpackets builds the payloads of messages the coordinator sends
// to game clients and game servers.
package serverpackets

import (
	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/protocol/packet"
)

// Welcome — GC → CL greeting sent on connect, before authentication.
//
// Format:
//
//	[version uint32]
//	[appId uint32]
func Welcome(version uint32) []byte {
	w := packet.NewWriter(8)
	w.WriteUint32(version)
	w.WriteUint32(constants.SteamAppID)
	return w.Bytes()
}

// ConfirmAuth — GC → CL authentication outcome.
//
// Format:
//
//	[result uint32]  // 0 = ok, 1 = failed
//	[steamId uint64] // zero on failure
func ConfirmAuth(result uint32, steamID uint64) []byte {
	w := packet.NewWriter(12)
	w.WriteUint32(result)
	w.WriteUint64(steamID)
	return w.Bytes()
}
