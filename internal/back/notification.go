package back

import (
	"fmt"
)

type NotificationType int

const (
	NotificationTypeLeaderboard NotificationType = iota
)

// A Notification is an outgoing message the Back wants delivered to a Discord
// channel, the bot renders and sends it.
type Notification struct {
	ChannelID string
	Type      NotificationType
	Payload   map[string]interface{}
}

func NotificationTypeName(typ NotificationType) string {
	switch typ {
	case NotificationTypeLeaderboard:
		return "Leaderboard"
	default:
		return "invalid"
	}
}

// For debugging purposes only.
func (n *Notification) String() string {
	return fmt.Sprintf(
		"type %s, to channel \"%s\"",
		NotificationTypeName(n.Type), n.ChannelID,
	)
}

func (b *Back) sendLeaderboardNotification(
	channelID string,
	entries []LeaderboardEntry,
	summary RefreshSummary,
) {
	b.notifications <- Notification{
		ChannelID: channelID,
		Type:      NotificationTypeLeaderboard,
		Payload: map[string]interface{}{
			"Entries": entries,
			"Summary": summary,
		},
	}
}
