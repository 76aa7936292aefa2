package protocol

import "errors"

var (
	// ErrMalformedFrame means the input was shorter than the envelope header.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrChunkedFrame means a multi-chunk frame reached Decode directly.
	ErrChunkedFrame = errors.New("chunked frame")
)
