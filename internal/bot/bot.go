package bot

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"skillboard/internal/back"
	"skillboard/internal/util"

	"github.com/bwmarrin/discordgo"
)

type commandHandler func(m *discordgo.Message, args []string, w io.Writer) error

type Bot struct {
	back *back.Back

	startedAt   time.Time
	dg          *discordgo.Session
	adminUserID string

	handlers map[string]commandHandler
}

func New(b *back.Back, token, adminUserID string) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		back:        b,
		adminUserID: adminUserID,
		dg:          dg,
		startedAt:   time.Now(),
	}

	dg.AddHandler(bot.handleMessage)

	bot.handlers = map[string]commandHandler{
		"!dev":  bot.cmdDev,
		"!help": bot.cmdHelp,

		"!register":     bot.cmdRegister,
		"!registeruser": bot.cmdRegisterUser,

		"!leaderboard": bot.cmdLeaderboard,
		"!refresh":     bot.cmdRefresh,
		"!update":      bot.cmdUpdate,

		"!schedule":     bot.cmdSchedule,
		"!scheduleinfo": bot.cmdScheduleInfo,
		"!unschedule":   bot.cmdUnschedule,
	}

	return bot, nil
}

func (bot *Bot) Serve(wg *sync.WaitGroup, done <-chan struct{}) {
	log.Println("info: starting Discord bot")
	wg.Add(1)
	defer wg.Done()
	if err := bot.dg.Open(); err != nil {
		log.Panic(err)
	}

	for {
		select {
		case notif := <-bot.back.GetNotificationsChan():
			if err := bot.sendNotification(notif); err != nil {
				log.Printf("error: unable to send notification: %s", err)
			}
		case <-done:
			if err := bot.dg.Close(); err != nil {
				log.Printf("error: could not close Discord bot: %s", err)
			}

			return
		}
	}
}

func (bot *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore webooks, self, bots, non-commands.
	if m.Author == nil || m.Author.ID == s.State.User.ID ||
		m.Author.Bot || !strings.HasPrefix(m.Content, "!") {
		return
	}

	log.Printf(
		"info: <%s(%s)@%s#%s> %s",
		m.Author.String(), m.Author.ID,
		m.GuildID, m.ChannelID,
		m.Content,
	)

	out := newChannelWriter(s, m.ChannelID)
	defer func() {
		if err := out.Flush(); err != nil {
			log.Printf("error: could not send message: %s", err)
		}
	}()

	defer func() {
		r := recover()
		if r != nil {
			out.Reset()
			fmt.Fprintf(out, "Someting went very wrong, please tell <@%s>.", bot.adminUserID)
			log.Print("panic: ", r)
			log.Print(debug.Stack())
		}
	}()

	if err := bot.dispatch(m.Message, out); err != nil {
		out.Reset()

		if errors.Is(err, util.ErrPublic("")) {
			fmt.Fprintf(out, "%s\nIf you need help, send `!help`.", err)
		} else {
			fmt.Fprintf(out, "There was an error processing your command.\n"+
				"<@%s> will check the logs when he has time.", bot.adminUserID)
		}

		log.Printf("error: failed to process command: %s", err)
	}
}

func parseCommand(cmd string) (string, []string) {
	parts := strings.Split(cmd, " ")

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	default:
		return parts[0], parts[1:]
	}
}

func (bot *Bot) dispatch(m *discordgo.Message, w io.Writer) error {
	command, args := parseCommand(m.Content)
	handler, ok := bot.handlers[command]
	if !ok {
		return util.ErrPublic(fmt.Sprintf("invalid command: %v", m.Content))
	}

	return handler(m, args, w)
}

func (bot *Bot) cmdHelp(m *discordgo.Message, _ []string, w io.Writer) error {
	fmt.Fprint(w, strings.ReplaceAll(`Available commands:
'''
# Players
!register USERNAME        # link your BAR in-game username
!registeruser @user NAME  # link someone else's BAR username
!update USERNAME          # refresh one player and show the leaderboard

# Leaderboard
!leaderboard              # display the current standings
!refresh                  # refresh every registered player

# Scheduling (per server)
!schedule HH:MM [#chan]   # post the leaderboard daily at HH:MM UTC
!scheduleinfo             # show the current schedule
!unschedule               # stop the daily post
'''`, "'''", "```"))

	if m.Author.ID != bot.adminUserID {
		return nil
	}

	fmt.Fprint(w, strings.ReplaceAll(`Admin-only commands:
'''
!dev error     error out
!dev panic     panic and abort
!dev uptime    display for how long the server has been running
!dev url       display the link to use when adding the bot to a new server
'''`, "'''", "```"))

	return nil
}
