package back

import (
	"sort"

	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

// A LeaderboardEntry is one row of the rendered leaderboard.
type LeaderboardEntry struct {
	Rank             int
	DisplayName      string
	BarUsername      string
	Skill            null.Float
	SkillUncertainty null.Float
}

// GetLeaderboard returns the current standings, best skill first. Players
// without a rating sort as zero, and ties keep registration order: the sort
// is stable over the registration-ordered player list.
func (b *Back) GetLeaderboard() ([]LeaderboardEntry, error) {
	var players []Player
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		players, err = getPlayers(tx)
		return err
	}); err != nil {
		return nil, err
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Skill.ValueOrZero() > players[j].Skill.ValueOrZero()
	})

	ret := make([]LeaderboardEntry, 0, len(players))
	for k := range players {
		ret = append(ret, LeaderboardEntry{
			Rank:             k + 1,
			DisplayName:      players[k].DisplayName,
			BarUsername:      players[k].BarUsername,
			Skill:            players[k].Skill,
			SkillUncertainty: players[k].SkillUncertainty,
		})
	}

	return ret, nil
}
