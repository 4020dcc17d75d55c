package bot

import (
	"fmt"
	"log"

	"skillboard/internal/back"
)

func (bot *Bot) sendNotification(notif back.Notification) error {
	log.Printf("debug: sending notification %s", notif.String())

	w := newChannelWriter(bot.dg, notif.ChannelID)
	defer func() {
		if err := w.Flush(); err != nil {
			log.Printf("error: could not send notification message: %s", err)
		}
	}()

	switch notif.Type {
	case back.NotificationTypeLeaderboard:
		return bot.writeLeaderboardNotification(w, notif)
	default:
		return fmt.Errorf("got unknown notification type: %d", notif.Type)
	}
}

func (bot *Bot) writeLeaderboardNotification(w *channelWriter, notif back.Notification) error {
	entries, ok := notif.Payload["Entries"].([]back.LeaderboardEntry)
	if !ok {
		return fmt.Errorf("expected a []back.LeaderboardEntry, got %T", notif.Payload["Entries"])
	}
	summary, ok := notif.Payload["Summary"].(back.RefreshSummary)
	if !ok {
		return fmt.Errorf("expected a back.RefreshSummary, got %T", notif.Payload["Summary"])
	}

	if len(entries) == 0 {
		fmt.Fprint(w, "There is no one on the leaderboard yet, `!register USERNAME` to appear here.")
		return nil
	}

	fmt.Fprintf(
		w, "**Daily BAR Large Team leaderboard** (refreshed %d/%d players)\n",
		summary.Updated, summary.Total,
	)
	formatLeaderboard(w, entries, "")

	return nil
}
