package serverpackets

import (
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/protocol/packet"
)

// CommendQueryResponse — GC → CL current sender→target commend flags plus the
// sender's remaining tokens.
//
// Format:
//
//	[accountId uint32]
//	[friendly byte][teaching byte][leader byte]
//	[tokens uint32]
func CommendQueryResponse(accountID uint32, flags model.CommendFlags, tokens int) []byte {
	w := packet.NewWriter(11)
	w.WriteUint32(accountID)
	w.WriteBool(flags.Friendly)
	w.WriteBool(flags.Teaching)
	w.WriteBool(flags.Leader)
	w.WriteUint32(uint32(tokens))
	return w.Bytes()
}

// ReportResponse — GC → CL report outcome.
//
// Format:
//
//	[confirmationId uint64]
//	[result uint32] // 0 ok, 1 error, 2 no tokens, 3 already reported
//	[tokens uint32]
func ReportResponse(confirmationID uint64, result uint32, tokens uint32) []byte {
	w := packet.NewWriter(16)
	w.WriteUint64(confirmationID)
	w.WriteUint32(result)
	w.WriteUint32(tokens)
	return w.Bytes()
}

// ItemsUpdated — GC → CL notification that the player's inventory changed.
//
// Format:
//
//	[newItemCount uint32]
func ItemsUpdated(newItemCount uint32) []byte {
	w := packet.NewWriter(4)
	w.WriteUint32(newItemCount)
	return w.Bytes()
}
