package bot

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"skillboard/internal/util"

	"github.com/bwmarrin/discordgo"
)

func (bot *Bot) cmdSchedule(m *discordgo.Message, args []string, out io.Writer) error {
	if m.GuildID == "" {
		return util.ErrPublic("this command only works from a server channel")
	}
	if len(args) < 1 {
		return util.ErrPublic("expected a time: `!schedule HH:MM [#channel]`")
	}

	hour, minute, err := parseTimeOfDay(args[0])
	if err != nil {
		return err
	}

	// The daily post goes to the invoking channel unless one is mentioned.
	channelID := m.ChannelID
	for _, v := range args[1:] {
		if strings.HasPrefix(v, "<#") && strings.HasSuffix(v, ">") {
			channelID = strings.TrimSuffix(strings.TrimPrefix(v, "<#"), ">")
		}
	}

	if err := bot.back.SetGuildSchedule(m.GuildID, channelID, hour, minute); err != nil {
		return err
	}

	fmt.Fprintf(
		out, "I will post the leaderboard in <#%s> every day at %02d:%02d UTC.",
		channelID, hour, minute,
	)

	return nil
}

func (bot *Bot) cmdUnschedule(m *discordgo.Message, _ []string, out io.Writer) error {
	if m.GuildID == "" {
		return util.ErrPublic("this command only works from a server channel")
	}

	if err := bot.back.DisableGuildSchedule(m.GuildID); err != nil {
		return err
	}

	fmt.Fprint(out, "The daily leaderboard post is disabled, `!schedule HH:MM` will bring it back.")

	return nil
}

func (bot *Bot) cmdScheduleInfo(m *discordgo.Message, _ []string, out io.Writer) error {
	if m.GuildID == "" {
		return util.ErrPublic("this command only works from a server channel")
	}

	schedule, err := bot.back.GetGuildSchedule(m.GuildID)
	if errors.Is(err, sql.ErrNoRows) {
		return util.ErrPublic("this server has no scheduled leaderboard, use `!schedule HH:MM` to create one")
	} else if err != nil {
		return err
	}

	if !schedule.Enabled {
		fmt.Fprintf(
			out, "The daily leaderboard post is **disabled**, it was configured for %02d:%02d UTC in <#%s>.",
			schedule.HourUTC, schedule.MinuteUTC, schedule.ChannelID,
		)
		return nil
	}

	fmt.Fprintf(
		out, "The leaderboard is posted every day at %02d:%02d UTC in <#%s>.",
		schedule.HourUTC, schedule.MinuteUTC, schedule.ChannelID,
	)

	return nil
}

func parseTimeOfDay(str string) (hour, minute int, _ error) {
	parts := strings.SplitN(str, ":", 2)
	if len(parts) != 2 {
		return 0, 0, util.ErrPublic(fmt.Sprintf(`"%s" is not a valid time, expected HH:MM`, str))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, util.ErrPublic(fmt.Sprintf(`"%s" is not a valid hour`, parts[0]))
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, util.ErrPublic(fmt.Sprintf(`"%s" is not a valid minute`, parts[1]))
	}

	return hour, minute, nil
}
