package model

import "fmt"

// SteamID64ToSteamID2 renders the legacy STEAM_1:y:z form used as the key in
// the ranked and ban tables.
func SteamID64ToSteamID2(steamID64 uint64) string {
	y := steamID64 & 1
	z := ((steamID64 & 0xFFFFFFFF) - y) / 2
	return fmt.Sprintf("STEAM_1:%d:%d", y, z)
}

// SteamID64ToSteamID3 renders the [U:1:account] form used in moderation
// notifications.
func SteamID64ToSteamID3(steamID64 uint64) string {
	return fmt.Sprintf("[U:1:%d]", AccountID(steamID64))
}

// AccountID is the low 32 bits of a 64-bit steam id.
func AccountID(steamID64 uint64) uint32 {
	return uint32(steamID64 & 0xFFFFFFFF)
}

// SteamID64FromAccountID reconstructs the synthetic 64-bit id the GC persists
// commend and report targets under. The bit layout must stay exactly
// (1<<56)|(1<<52)|(1<<32)|account for data compatibility with existing rows.
func SteamID64FromAccountID(accountID uint32) uint64 {
	return 1<<56 | 1<<52 | 1<<32 | uint64(accountID)
}
