package model

// PlayerSkillRating holds the matchmaking-relevant stats for one player.
// Ordered by MMR.
type PlayerSkillRating struct {
	Rank  uint32 // 0..18
	Wins  uint32
	MMR   uint32
	Level uint32
}

// DefaultRating is used when the rating lookup fails so a player is never
// dropped from matchmaking because of a repository error.
func DefaultRating() PlayerSkillRating {
	return PlayerSkillRating{
		Rank:  RankGoldNova1,
		Wins:  0,
		MMR:   1000,
		Level: 1,
	}
}

// Rank ids, 0..18.
const (
	RankNone uint32 = iota
	RankSilver1
	RankSilver2
	RankSilver3
	RankSilver4
	RankSilverElite
	RankSilverEliteMaster
	RankGoldNova1
	RankGoldNova2
	RankGoldNova3
	RankGoldNovaMaster
	RankMasterGuardian1
	RankMasterGuardian2
	RankMasterGuardianElite
	RankDistinguishedMasterGuardian
	RankLegendaryEagle
	RankLegendaryEagleMaster
	RankSupremeMasterFirstClass
	RankGlobalElite
)

// rankThresholds maps index i to the minimum score of rank i+1.
// A score below thresholds[0] is RankNone; at or above the last it is
// RankGlobalElite.
var rankThresholds = [...]int{
	100, 150, 200, 300, 400, 500, 600, 750, 900,
	1050, 1200, 1400, 1600, 1800, 2000, 2200, 2400, 2700,
}

// ScoreToRank maps a ranked score onto a rank id via the fixed step table.
func ScoreToRank(score int) uint32 {
	for i, threshold := range rankThresholds {
		if score < threshold {
			return uint32(i)
		}
	}
	return RankGlobalElite
}

// SkillBracket returns the queue bucket for an MMR value.
func SkillBracket(mmr uint32) uint32 {
	return mmr / 100
}
