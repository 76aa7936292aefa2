package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSteamID64ToSteamID2(t *testing.T) {
	tests := []struct {
		steamID64 uint64
		want      string
	}{
		{76561197960265729, "STEAM_1:1:0"},
		{76561197960265730, "STEAM_1:0:1"},
		{76561198000000000, "STEAM_1:0:19867136"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SteamID64ToSteamID2(tt.steamID64))
	}
}

func TestSteamID64ToSteamID3(t *testing.T) {
	assert.Equal(t, "[U:1:1]", SteamID64ToSteamID3(76561197960265729))
	assert.Equal(t, "[U:1:39734272]", SteamID64ToSteamID3(76561198000000000))
}

func TestSyntheticSteamID(t *testing.T) {
	// The persisted target id layout must never change; existing commend and
	// report rows are keyed on it.
	got := SteamID64FromAccountID(12345)
	assert.Equal(t, uint64(1)<<56|uint64(1)<<52|uint64(1)<<32|12345, got)
	assert.Equal(t, uint32(12345), AccountID(got))
}
