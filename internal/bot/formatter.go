package bot

import (
	"fmt"
	"io"
	"strings"

	"skillboard/internal/back"
)

// formatLeaderboard writes the standings one player per line, medals for the
// podium, a star on the optionally highlighted player.
func formatLeaderboard(w io.Writer, entries []back.LeaderboardEntry, highlight string) {
	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		default:
			medal = fmt.Sprintf("%d.", entry.Rank)
		}

		skillText := "Unranked"
		if entry.Skill.Valid {
			skillText = fmt.Sprintf("%.2f", entry.Skill.Float64)
		}

		fmt.Fprintf(w, "%s **%s** - Skill: %s", medal, entry.BarUsername, skillText)
		if highlight != "" && strings.EqualFold(entry.BarUsername, highlight) {
			fmt.Fprint(w, " ⭐")
		}
		fmt.Fprint(w, "\n")
	}
}
