package serverpackets

import (
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/protocol/packet"
)

// ProfileResponse — GC → CL profile view of another player.
//
// Format:
//
//	[accountId uint32]
//	[rankId uint32][wins uint32][level uint32]
//	[cmdFriendly uint32][cmdTeaching uint32][cmdLeader uint32]
//	[featuredMedal uint32] // 0 when none
//	[medalCount byte][defindex uint32] × medalCount
func ProfileResponse(accountID uint32, rating model.PlayerSkillRating, commends model.CommendCounts, medals model.Medals) []byte {
	w := packet.NewWriter(36 + 4*len(medals.DisplayItems))
	w.WriteUint32(accountID)
	w.WriteUint32(rating.Rank)
	w.WriteUint32(rating.Wins)
	w.WriteUint32(rating.Level)
	w.WriteUint32(commends.Friendly)
	w.WriteUint32(commends.Teaching)
	w.WriteUint32(commends.Leader)
	w.WriteUint32(medals.Featured)
	w.WriteByte(byte(len(medals.DisplayItems)))
	for _, defindex := range medals.DisplayItems {
		w.WriteUint32(defindex)
	}
	return w.Bytes()
}
