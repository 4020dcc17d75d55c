package back

import (
	"context"
	"log"
	"time"
)

// runPeriodicTasks posts the scheduled leaderboards of every guild whose
// configured time matches the current UTC minute.
func (b *Back) runPeriodicTasks(now time.Time) error {
	due, err := b.GetSchedulesDueAt(now.Hour(), now.Minute())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	log.Printf("info: %d guild(s) due for their scheduled leaderboard", len(due))

	for _, schedule := range due {
		// One guild's failure must not starve the others.
		if err := b.postScheduledLeaderboard(context.Background(), schedule); err != nil {
			log.Printf("error: scheduled leaderboard for guild %s: %s", schedule.GuildID, err)
		}
	}

	return nil
}

func (b *Back) postScheduledLeaderboard(ctx context.Context, schedule GuildSchedule) error {
	summary, err := b.RefreshAll(ctx)
	if err != nil {
		// Stale ratings are preferred over no post at all, keep going with
		// whatever is in the store.
		log.Printf("warning: refresh for guild %s had failures: %s", schedule.GuildID, err)
	}

	entries, err := b.GetLeaderboard()
	if err != nil {
		return err
	}

	b.sendLeaderboardNotification(schedule.ChannelID, entries, summary)

	return nil
}
