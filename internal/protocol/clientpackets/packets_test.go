package clientpackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesse/fragNet/internal/protocol/packet"
)

func TestAuthTicketParse(t *testing.T) {
	w := packet.NewWriter(16)
	w.WriteUint64(76561198000000001)
	w.WriteUint16(4)
	w.WriteBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	var p AuthTicket
	require.NoError(t, p.Parse(w.Bytes()))
	assert.Equal(t, uint64(76561198000000001), p.SteamID)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, p.Ticket)
}

func TestAuthTicketTruncated(t *testing.T) {
	w := packet.NewWriter(16)
	w.WriteUint64(76561198000000001)
	w.WriteUint16(100) // claims more bytes than present
	w.WriteBytes([]byte{1, 2, 3})

	var p AuthTicket
	assert.Error(t, p.Parse(w.Bytes()))
}

func TestCommendPlayerParse(t *testing.T) {
	w := packet.NewWriter(7)
	w.WriteUint32(777)
	w.WriteByte(CommendAdd)
	w.WriteByte(CommendUnchanged)
	w.WriteByte(CommendRemove)

	var p CommendPlayer
	require.NoError(t, p.Parse(w.Bytes()))
	assert.Equal(t, uint32(777), p.AccountID)
	assert.Equal(t, CommendAdd, p.Friendly)
	assert.Equal(t, CommendUnchanged, p.Teaching)
	assert.Equal(t, CommendRemove, p.Leader)
}

func TestCommendPlayerRejectsBadTriState(t *testing.T) {
	w := packet.NewWriter(7)
	w.WriteUint32(777)
	w.WriteByte(3)
	w.WriteByte(0)
	w.WriteByte(0)

	var p CommendPlayer
	assert.Error(t, p.Parse(w.Bytes()))
}

func TestReportPlayerParse(t *testing.T) {
	w := packet.NewWriter(18)
	w.WriteUint32(777)
	w.WriteUint64(555)
	for _, b := range []bool{true, false, true, false, false, true} {
		w.WriteBool(b)
	}

	var p ReportPlayer
	require.NoError(t, p.Parse(w.Bytes()))
	assert.Equal(t, uint32(777), p.AccountID)
	assert.Equal(t, uint64(555), p.MatchID)
	assert.True(t, p.Flags.Aimbot)
	assert.False(t, p.Flags.Wallhack)
	assert.True(t, p.Flags.Speedhack)
	assert.True(t, p.Flags.VoiceAbuse)
}

func TestStartSearchParse(t *testing.T) {
	w := packet.NewWriter(32)
	w.WriteByte(2)
	w.WriteString("de_dust2")
	w.WriteString("de_nuke")

	var p StartSearch
	require.NoError(t, p.Parse(w.Bytes()))
	assert.Equal(t, []string{"de_dust2", "de_nuke"}, p.PreferredMaps)
}

func TestStartSearchEmptyBody(t *testing.T) {
	var p StartSearch
	require.NoError(t, p.Parse(nil))
	assert.Nil(t, p.PreferredMaps)
}

func TestStartSearchTruncated(t *testing.T) {
	w := packet.NewWriter(8)
	w.WriteByte(2)
	w.WriteString("de_dust2")
	// second map missing

	var p StartSearch
	assert.Error(t, p.Parse(w.Bytes()))
}

func TestAcceptDeclineParse(t *testing.T) {
	w := packet.NewWriter(8)
	w.WriteUint64(999)

	var a AcceptMatch
	require.NoError(t, a.Parse(w.Bytes()))
	assert.Equal(t, uint64(999), a.MatchID)

	var d DeclineMatch
	require.NoError(t, d.Parse(w.Bytes()))
	assert.Equal(t, uint64(999), d.MatchID)

	assert.Error(t, a.Parse([]byte{1, 2}))
}

func TestServerRegisterParse(t *testing.T) {
	w := packet.NewWriter(14)
	w.WriteUint64(90001)
	w.WriteUint16(27015)
	w.WriteUint32(10)

	var p ServerRegister
	require.NoError(t, p.Parse(w.Bytes()))
	assert.Equal(t, uint64(90001), p.ServerSteamID)
	assert.Equal(t, uint16(27015), p.GamePort)
	assert.Equal(t, uint32(10), p.MaxPlayers)
}

func TestServerMatchEndedParse(t *testing.T) {
	w := packet.NewWriter(16)
	w.WriteUint64(555)
	w.WriteUint32(16)
	w.WriteUint32(9)

	var p ServerMatchEnded
	require.NoError(t, p.Parse(w.Bytes()))
	assert.Equal(t, uint64(555), p.MatchID)
	assert.Equal(t, uint32(16), p.ScoreA)
	assert.Equal(t, uint32(9), p.ScoreB)
}
