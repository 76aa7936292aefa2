package serverpackets

import (
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/protocol/packet"
)

// HelloData is everything the hello response carries about one player.
type HelloData struct {
	AccountID uint32

	// Global counters, zero-valued until a stats source exists.
	PlayersOnline    uint32
	ServersAvailable uint32
	OngoingMatches   uint32
	SearchAvgSeconds uint32

	BlogURL           string
	PricesheetVersion uint32

	VACBanned bool
	RankID    uint32
	Wins      uint32
	Commends  model.CommendCounts

	// Unacknowledged cooldown, reason 0 when none.
	PenaltyReason  int32
	PenaltySeconds int32
}

// MatchmakingHello — GC → CL hello response.
//
// Format:
//
//	[accountId uint32]
//	[playersOnline uint32][serversAvailable uint32]
//	[ongoingMatches uint32][searchAvgSeconds uint32]
//	[blogUrl string][pricesheetVersion uint32]
//	[vacBanned byte]
//	[rankId uint32][wins uint32]
//	[cmdFriendly uint32][cmdTeaching uint32][cmdLeader uint32]
//	[penaltyReason int32][penaltySeconds int32]
func MatchmakingHello(d HelloData) []byte {
	w := packet.NewWriter(64 + len(d.BlogURL))
	w.WriteUint32(d.AccountID)
	w.WriteUint32(d.PlayersOnline)
	w.WriteUint32(d.ServersAvailable)
	w.WriteUint32(d.OngoingMatches)
	w.WriteUint32(d.SearchAvgSeconds)
	w.WriteString(d.BlogURL)
	w.WriteUint32(d.PricesheetVersion)
	w.WriteBool(d.VACBanned)
	w.WriteUint32(d.RankID)
	w.WriteUint32(d.Wins)
	w.WriteUint32(d.Commends.Friendly)
	w.WriteUint32(d.Commends.Teaching)
	w.WriteUint32(d.Commends.Leader)
	w.WriteInt32(d.PenaltyReason)
	w.WriteInt32(d.PenaltySeconds)
	return w.Bytes()
}
