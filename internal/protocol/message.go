package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/friesse/fragNet/internal/constants"
)

// Message is one decoded GC envelope: a stripped type plus payload bytes.
type Message struct {
	Type    uint32
	Payload []byte
}

// frameHeader is the decoded fixed envelope header.
type frameHeader struct {
	msgType    uint32
	headerSize uint32
	chunkCount uint32
}

func parseHeader(frame []byte) (frameHeader, error) {
	if len(frame) < constants.EnvelopeHeaderSize {
		return frameHeader{}, fmt.Errorf("frame too short: %d bytes: %w", len(frame), ErrMalformedFrame)
	}
	return frameHeader{
		msgType:    binary.LittleEndian.Uint32(frame[0:4]) &^ constants.CCProtoMask,
		headerSize: binary.LittleEndian.Uint32(frame[4:8]),
		chunkCount: binary.LittleEndian.Uint32(frame[8:12]),
	}, nil
}

// Encode frames msg into one or more wire frames. chunks == 0 selects the
// automatic count: ceil(totalSize/MaxChunkSize), floor 1. The counted size is
// ChunkSizeBase plus the payload, so payloads up to 1016 bytes ship as a
// single frame. Every frame carries the identical header with the proto mask
// set.
func Encode(msg Message, chunks uint32) [][]byte {
	if chunks == 0 {
		totalSize := constants.ChunkSizeBase + len(msg.Payload)
		chunks = uint32((totalSize + constants.MaxChunkSize - 1) / constants.MaxChunkSize)
		if chunks == 0 {
			chunks = 1
		}
	}

	chunkSize := (len(msg.Payload) + int(chunks) - 1) / int(chunks)
	frames := make([][]byte, 0, chunks)
	for i := 0; i < int(chunks); i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(msg.Payload))
		if start > len(msg.Payload) {
			start = len(msg.Payload)
		}

		frame := make([]byte, constants.EnvelopeHeaderSize+end-start)
		binary.LittleEndian.PutUint32(frame[0:4], msg.Type|constants.CCProtoMask)
		binary.LittleEndian.PutUint32(frame[4:8], 0) // header_size, reserved
		binary.LittleEndian.PutUint32(frame[8:12], chunks)
		copy(frame[constants.EnvelopeHeaderSize:], msg.Payload[start:end])
		frames = append(frames, frame)
	}
	return frames
}

// Decode parses a single self-contained frame (chunk_count == 1).
// Frames belonging to a chunk group must go through an Assembler instead.
func Decode(frame []byte) (Message, error) {
	hdr, err := parseHeader(frame)
	if err != nil {
		return Message{}, err
	}
	if hdr.chunkCount > 1 {
		return Message{}, fmt.Errorf("frame is chunk %d-part group, needs assembler: %w", hdr.chunkCount, ErrChunkedFrame)
	}
	return Message{
		Type:    hdr.msgType,
		Payload: frame[constants.EnvelopeHeaderSize:],
	}, nil
}
