package protocol

import (
	"time"

	"github.com/friesse/fragNet/internal/constants"
)

// Assembler reassembles chunked messages arriving in order on a single peer.
// The transport guarantees reliable in-order delivery, so chunks of one group
// are contiguous; an incomplete group is dropped after a timeout so a peer
// that dies mid-message cannot wedge the assembler.
//
// One Assembler per peer; not safe for concurrent use.
type Assembler struct {
	pending      *Message
	expected     uint32
	received     uint32
	lastChunkAt  time.Time
	groupTimeout time.Duration
}

// NewAssembler returns an assembler with the default group timeout.
func NewAssembler() *Assembler {
	return &Assembler{groupTimeout: constants.ChunkReassemblyTimeout}
}

// Push feeds one raw frame. It returns the completed message once every chunk
// of the group has arrived, or nil while more are expected.
func (a *Assembler) Push(frame []byte) (*Message, error) {
	hdr, err := parseHeader(frame)
	if err != nil {
		return nil, err
	}
	payload := frame[constants.EnvelopeHeaderSize:]
	now := time.Now()

	if hdr.chunkCount <= 1 {
		a.reset()
		return &Message{Type: hdr.msgType, Payload: payload}, nil
	}

	// A stale group, or a frame from a different group, abandons the old one.
	if a.pending != nil {
		stale := now.Sub(a.lastChunkAt) > a.groupTimeout
		if stale || a.pending.Type != hdr.msgType || a.expected != hdr.chunkCount {
			a.reset()
		}
	}

	if a.pending == nil {
		a.pending = &Message{
			Type:    hdr.msgType,
			Payload: make([]byte, 0, len(payload)*int(hdr.chunkCount)),
		}
		a.expected = hdr.chunkCount
	}

	a.pending.Payload = append(a.pending.Payload, payload...)
	a.received++
	a.lastChunkAt = now

	if a.received < a.expected {
		return nil, nil
	}

	msg := a.pending
	a.reset()
	return msg, nil
}

func (a *Assembler) reset() {
	a.pending = nil
	a.expected = 0
	a.received = 0
}
