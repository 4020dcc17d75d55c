package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"skillboard/internal/util"

	"github.com/bwmarrin/discordgo"
)

func (bot *Bot) cmdRegister(m *discordgo.Message, args []string, out io.Writer) error {
	if len(args) < 1 {
		return util.ErrPublic("you forgot to tell me your BAR username")
	}

	return bot.registerPlayer(m.Author.ID, m.Author.Username, strings.Join(args, " "), "", out)
}

func (bot *Bot) cmdRegisterUser(m *discordgo.Message, args []string, out io.Writer) error {
	if len(m.Mentions) != 1 {
		return util.ErrPublic("expected exactly one mentioned user: `!registeruser @user USERNAME`")
	}

	target := m.Mentions[0]
	if target.Bot {
		return util.ErrPublic("bots don't play ranked games")
	}

	username := strings.Join(stripMentions(args), " ")
	if username == "" {
		return util.ErrPublic("you forgot to tell me the BAR username")
	}

	return bot.registerPlayer(target.ID, target.Username, username, m.Author.ID, out)
}

func (bot *Bot) registerPlayer(memberID, displayName, username, registeredBy string, out io.Writer) error {
	stats, err := bot.back.LookupBarUser(context.Background(), username)
	if err != nil {
		log.Printf("error: unable to check the BAR leaderboard: %s", err)
		return util.ErrPublic("failed to check the BAR leaderboard, please try again later")
	}
	if stats == nil {
		return util.ErrPublic(fmt.Sprintf(
			`could not find player "%s" in the BAR database, please check the spelling`,
			username,
		))
	}

	player, err := bot.back.RegisterPlayer(memberID, displayName, username, registeredBy, stats)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s has been registered as **%s**", player.DisplayName, stats.Username)
	if registeredBy != "" {
		fmt.Fprintf(out, " by <@%s>", registeredBy)
	}
	fmt.Fprint(out, ".\n")

	if stats.HasRating() {
		fmt.Fprintf(
			out, "Large Team skill: %.2f (±%.2f)",
			stats.Skill.Float64, stats.SkillUncertainty.Float64,
		)
	} else {
		fmt.Fprint(out,
			"This player has no ranked Large Team games yet, "+
				"stats will appear after playing some.",
		)
	}

	return nil
}

// stripMentions removes user mention tokens so the remaining arguments can be
// joined back into a username.
func stripMentions(args []string) []string {
	ret := make([]string, 0, len(args))
	for _, v := range args {
		if strings.HasPrefix(v, "<@") && strings.HasSuffix(v, ">") {
			continue
		}

		ret = append(ret, v)
	}

	return ret
}
