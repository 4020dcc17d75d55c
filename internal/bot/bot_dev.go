package bot

import (
	"errors"
	"fmt"
	"io"
	"time"

	"skillboard/internal/util"

	"github.com/bwmarrin/discordgo"
)

func (bot *Bot) cmdDev(m *discordgo.Message, args []string, w io.Writer) error {
	if m.Author.ID != bot.adminUserID {
		return util.ErrPublic("this command is reserved for the bot administrator")
	}

	if len(args) < 1 {
		return util.ErrPublic("expected one argument, send `!help` for a list")
	}

	switch args[0] {
	case "panic":
		panic("an admin asked me to panic")
	case "error":
		return errors.New("the admin asked for an error")
	case "uptime":
		fmt.Fprintf(w, "The server has been running for %s.", time.Since(bot.startedAt).Round(time.Second))
	case "url":
		fmt.Fprintf(
			w,
			"https://discord.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%d",
			bot.dg.State.User.ID,
			discordgo.PermissionViewChannel|discordgo.PermissionSendMessages,
		)
	default:
		return util.ErrPublic("invalid argument, send `!help` for a list")
	}

	return nil
}
