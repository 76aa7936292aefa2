package clientpackets

import (
	"fmt"

	"github.com/friesse/fragNet/internal/protocol/packet"
)

// Tri-state values carried per commendation type in CommendPlayer.
const (
	CommendUnchanged byte = 0
	CommendAdd       byte = 1
	CommendRemove    byte = 2
)

// CommendPlayerQuery — CL → GC, asks which commendations the sender already
// gave a target and how many tokens remain.
//
// Format:
//
//	[accountId uint32]
type CommendPlayerQuery struct {
	AccountID uint32
}

// Parse parses the CommendPlayerQuery payload.
func (p *CommendPlayerQuery) Parse(body []byte) error {
	accountID, err := packet.NewReader(body).ReadUint32()
	if err != nil {
		return fmt.Errorf("reading accountId: %w", err)
	}
	p.AccountID = accountID
	return nil
}

// CommendPlayer — CL → GC commendation change request. Each type carries a
// tri-state byte: unchanged, add, or remove.
//
// Format:
//
//	[accountId uint32]
//	[friendly byte][teaching byte][leader byte]
type CommendPlayer struct {
	AccountID uint32
	Friendly  byte
	Teaching  byte
	Leader    byte
}

// Parse parses the CommendPlayer payload.
func (p *CommendPlayer) Parse(body []byte) error {
	r := packet.NewReader(body)

	accountID, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading accountId: %w", err)
	}
	p.AccountID = accountID

	for _, field := range []struct {
		name string
		dst  *byte
	}{
		{"friendly", &p.Friendly},
		{"teaching", &p.Teaching},
		{"leader", &p.Leader},
	} {
		b, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("reading %s: %w", field.name, err)
		}
		if b > CommendRemove {
			return fmt.Errorf("invalid %s tri-state %d", field.name, b)
		}
		*field.dst = b
	}
	return nil
}
