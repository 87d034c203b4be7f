package model

// LeaderboardEntry is a derived view row, recomputed on every aggregation
// and never persisted.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	AccountID string `json:"account_id"`
	Score     uint64 `json:"score"`
	Level     int    `json:"level"`
	Rarity    int    `json:"rarity"`
}

// TierForScore is the single place the score-to-tier arithmetic lives:
// level = 1 + score/50, rarity = max(1, level/50), integer division.
func TierForScore(score uint64) (level, rarity int) {
	level = int(1 + score/50)
	rarity = level / 50
	if rarity < 1 {
		rarity = 1
	}
	return level, rarity
}
