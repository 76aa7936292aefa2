package constants

// GC Wire Protocol Constants
//
// Every message exchanged with the GC is a framed envelope:
//
//	[type 4 bytes LE] [header_size 4 bytes LE] [chunk_count 4 bytes LE] [payload]
//
// The high bit of the type field (CCProtoMask) is set on every outgoing frame
// and stripped on receive. header_size is reserved and currently always 0.
// chunk_count > 1 means the payload was split across that many frames carrying
// an identical header.
//
// Over TCP each frame is additionally preceded by a 4-byte little-endian length
// prefix; that prefix belongs to the transport, not to the envelope.

const (
	// CCProtoMask marks a frame as carrying the GC protocol.
	CCProtoMask uint32 = 0x80000000

	// EnvelopeHeaderSize is the fixed envelope header size in bytes (3×uint32).
	EnvelopeHeaderSize = 12

	// ChunkSizeBase is the header share counted when sizing the automatic
	// chunk split: type and header_size only, chunk_count excluded.
	ChunkSizeBase = 8

	// MaxChunkSize is the payload size above which outgoing messages are split.
	MaxChunkSize = 1024

	// TCPLengthPrefixSize is the stream framing prefix size in bytes.
	TCPLengthPrefixSize = 4
)

// Message types, client ↔ GC.
const (
	MsgGCWelcome                    uint32 = 4001
	MsgGCConfirmAuth                uint32 = 4002
	MsgGCHeartbeat                  uint32 = 4003
	MsgClientAuthTicket             uint32 = 4004
	MsgBuildMatchmakingHello        uint32 = 4005
	MsgViewProfileRequest           uint32 = 4006
	MsgViewProfileResponse          uint32 = 4007
	MsgClientCommendPlayerQuery     uint32 = 4008
	MsgClientCommendPlayerQueryResp uint32 = 4009
	MsgClientCommendPlayer          uint32 = 4010
	MsgClientReportPlayer           uint32 = 4011
	MsgClientReportResponse         uint32 = 4012
	MsgItemsUpdated                 uint32 = 4013
)

// Message types, matchmaking GC → client / server.
const (
	MsgMatchmakingStartSearch      uint32 = 4020
	MsgMatchmakingStopSearch       uint32 = 4021
	MsgMatchmakingAcceptMatch      uint32 = 4022
	MsgMatchmakingDeclineMatch     uint32 = 4023
	MsgMatchmakingGC2ClientHello   uint32 = 4024
	MsgMatchmakingGC2ClientReserve uint32 = 4025
	MsgMatchmakingGC2ClientUpdate  uint32 = 4026
	MsgMatchmakingGC2ServerReserve uint32 = 4027
)

// Message types, game server ↔ GC.
const (
	MsgServerRegister   uint32 = 4040
	MsgServerHeartbeat  uint32 = 4041
	MsgServerMatchEnded uint32 = 4042
)

// Auth result codes carried by MsgGCConfirmAuth.
const (
	AuthResultOK     uint32 = 0
	AuthResultFailed uint32 = 1
)

// Report response result codes carried by MsgClientReportResponse.
const (
	ReportResultOK              uint32 = 0
	ReportResultError           uint32 = 1
	ReportResultNoTokens        uint32 = 2
	ReportResultAlreadyReported uint32 = 3
)

// Platform application id the coordinator serves.
const SteamAppID = 730

// GCVersion travels in the welcome message so clients can detect mismatches.
const GCVersion uint32 = 2000202

// Static fields of the hello response, matching the live service values.
const (
	HelloBlogURL                  = "http://blog.counter-strike.net/"
	HelloPricesheetVersion uint32 = 1680057676
)
