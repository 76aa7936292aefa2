package clientpackets

import (
	"fmt"

	"github.com/friesse/fragNet/internal/protocol/packet"
)

// ViewProfileRequest — CL → GC profile view request.
//
// Format:
//
//	[accountId uint32]
type ViewProfileRequest struct {
	AccountID uint32
}

// Parse parses the ViewProfileRequest payload.
func (p *ViewProfileRequest) Parse(body []byte) error {
	accountID, err := packet.NewReader(body).ReadUint32()
	if err != nil {
		return fmt.Errorf("reading accountId: %w", err)
	}
	p.AccountID = accountID
	return nil
}
