package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"skillboard/internal/back"
	"skillboard/internal/util"

	"github.com/bwmarrin/discordgo"
)

func (bot *Bot) cmdLeaderboard(m *discordgo.Message, _ []string, out io.Writer) error {
	entries, err := bot.back.GetLeaderboard()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return util.ErrPublic("no players registered yet, use `!register USERNAME` to appear here")
	}

	fmt.Fprint(out, "**BAR Large Team leaderboard**\n")
	formatLeaderboard(out, entries, "")

	return nil
}

func (bot *Bot) cmdRefresh(m *discordgo.Message, _ []string, out io.Writer) error {
	summary, err := bot.back.RefreshAll(context.Background())
	if err != nil {
		log.Printf("error: manual refresh: %s", err)
	}
	if summary.Total == 0 {
		return util.ErrPublic("no players registered yet, use `!register USERNAME` first")
	}

	fmt.Fprintf(out, "Stats refresh complete! Updated %d/%d players", summary.Updated, summary.Total)
	if summary.Failed > 0 {
		fmt.Fprintf(out, " (%d failed, they will be retried next time)", summary.Failed)
	}
	fmt.Fprint(out, ". Use `!leaderboard` to see the latest rankings.")

	return nil
}

func (bot *Bot) cmdUpdate(m *discordgo.Message, args []string, out io.Writer) error {
	if len(args) < 1 {
		return util.ErrPublic("you forgot to tell me which player to update")
	}

	before, after, err := bot.back.RefreshPlayer(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	writeUpdateLine(out, before, after)

	entries, err := bot.back.GetLeaderboard()
	if err != nil {
		return err
	}
	formatLeaderboard(out, entries, after.BarUsername)

	return nil
}

func writeUpdateLine(out io.Writer, before, after back.Player) {
	if !after.Skill.Valid {
		fmt.Fprintf(out, "Updated **%s**: no ranked Large Team games yet.\n\n", after.BarUsername)
		return
	}

	fmt.Fprintf(out, "Updated **%s**: skill %.2f", after.BarUsername, after.Skill.Float64)
	if before.Skill.Valid {
		change := after.Skill.Float64 - before.Skill.Float64
		if change > 0 {
			fmt.Fprintf(out, " (↑ +%.2f)", change)
		} else if change < 0 {
			fmt.Fprintf(out, " (↓ %.2f)", change)
		}
	}
	fmt.Fprint(out, "\n\n")
}
