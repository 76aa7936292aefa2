package model

import "time"

// Commend types.
const (
	CommendFriendly int16 = 1
	CommendTeaching int16 = 2
	CommendLeader   int16 = 3
)

// Report types.
const (
	ReportAimbot     int16 = 1
	ReportWallhack   int16 = 2
	ReportSpeedhack  int16 = 3
	ReportGriefing   int16 = 4
	ReportTextAbuse  int16 = 5
	ReportVoiceAbuse int16 = 6
)

// ReportTypeName returns the moderation label for a report type.
func ReportTypeName(reportType int16) string {
	switch reportType {
	case ReportAimbot:
		return "Aimbot"
	case ReportWallhack:
		return "Wallhack"
	case ReportSpeedhack:
		return "Speedhack/Other Hack"
	case ReportGriefing:
		return "Griefing/Team Harm"
	case ReportTextAbuse:
		return "Abusive Text Chat"
	case ReportVoiceAbuse:
		return "Abusive Voice Chat"
	default:
		return "Unknown"
	}
}

// ReportTypeEmoji returns the moderation emoji for a report type.
func ReportTypeEmoji(reportType int16) string {
	switch reportType {
	case ReportAimbot:
		return "🎯"
	case ReportWallhack:
		return "👻"
	case ReportSpeedhack:
		return "⚡"
	case ReportGriefing:
		return "🔥"
	case ReportTextAbuse:
		return "💬"
	case ReportVoiceAbuse:
		return "🔊"
	default:
		return "❓"
	}
}

// CommendCounts aggregates received commendations per type.
type CommendCounts struct {
	Friendly uint32
	Teaching uint32
	Leader   uint32
}

// CommendFlags marks which commend types a sender has given a target.
type CommendFlags struct {
	Friendly bool
	Teaching bool
	Leader   bool
}

// Any reports whether at least one type is set.
func (f CommendFlags) Any() bool {
	return f.Friendly || f.Teaching || f.Leader
}

// ReportFlags marks which report types a client flagged in one request.
type ReportFlags struct {
	Aimbot     bool
	Wallhack   bool
	Speedhack  bool
	Griefing   bool
	TextAbuse  bool
	VoiceAbuse bool
}

// Types returns the flagged report types in enum order.
func (f ReportFlags) Types() []int16 {
	types := make([]int16, 0, 6)
	if f.Aimbot {
		types = append(types, ReportAimbot)
	}
	if f.Wallhack {
		types = append(types, ReportWallhack)
	}
	if f.Speedhack {
		types = append(types, ReportSpeedhack)
	}
	if f.Griefing {
		types = append(types, ReportGriefing)
	}
	if f.TextAbuse {
		types = append(types, ReportTextAbuse)
	}
	if f.VoiceAbuse {
		types = append(types, ReportVoiceAbuse)
	}
	return types
}

// Cooldown is an unacknowledged matchmaking penalty.
type Cooldown struct {
	Reason       int32
	Expire       time.Time
	Acknowledged bool
}

// SecondsRemaining returns the remaining penalty time at now, clamped at zero.
func (c Cooldown) SecondsRemaining(now time.Time) int32 {
	if c.Expire.IsZero() || !c.Expire.After(now) {
		return 0
	}
	return int32(c.Expire.Sub(now) / time.Second)
}

// Medals holds the display items shown on a profile. Featured is the single
// item equipped on both team sides, 0 if none.
type Medals struct {
	DisplayItems []uint32
	Featured     uint32
}
