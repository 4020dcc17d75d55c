package back_test

import (
	"errors"
	"testing"

	"skillboard/internal/util"
)

func TestSetGuildScheduleValidatesTime(t *testing.T) {
	server := newFakeBarServer(t, nil)
	b := newTestBack(t, server.URL)

	for _, v := range []struct{ hour, minute int }{
		{-1, 0}, {24, 0}, {0, -1}, {0, 60},
	} {
		err := b.SetGuildSchedule("guild", "channel", v.hour, v.minute)
		if !errors.Is(err, util.ErrPublic("")) {
			t.Errorf("%02d:%02d: expected a public error, got %v", v.hour, v.minute, err)
		}
	}
}

func TestGuildScheduleLifecycle(t *testing.T) {
	server := newFakeBarServer(t, nil)
	b := newTestBack(t, server.URL)

	if err := b.SetGuildSchedule("guild-1", "channel-1", 10, 30); err != nil {
		t.Fatal(err)
	}

	schedule, err := b.GetGuildSchedule("guild-1")
	if err != nil {
		t.Fatal(err)
	}
	if !schedule.Enabled || schedule.HourUTC != 10 || schedule.MinuteUTC != 30 ||
		schedule.ChannelID != "channel-1" {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}

	// Disabling keeps the configured channel and time around.
	if err := b.DisableGuildSchedule("guild-1"); err != nil {
		t.Fatal(err)
	}
	schedule, err = b.GetGuildSchedule("guild-1")
	if err != nil {
		t.Fatal(err)
	}
	if schedule.Enabled {
		t.Error("expected schedule to be disabled")
	}
	if schedule.HourUTC != 10 || schedule.MinuteUTC != 30 || schedule.ChannelID != "channel-1" {
		t.Fatalf("disabling clobbered the schedule: %+v", schedule)
	}

	// Reconfiguring re-enables.
	if err := b.SetGuildSchedule("guild-1", "channel-2", 8, 0); err != nil {
		t.Fatal(err)
	}
	schedule, err = b.GetGuildSchedule("guild-1")
	if err != nil {
		t.Fatal(err)
	}
	if !schedule.Enabled || schedule.HourUTC != 8 || schedule.ChannelID != "channel-2" {
		t.Fatalf("unexpected schedule after reconfiguration: %+v", schedule)
	}
	if !schedule.UpdatedAt.Time().After(schedule.CreatedAt.Time()) &&
		!schedule.UpdatedAt.Time().Equal(schedule.CreatedAt.Time()) {
		t.Error("expected UpdatedAt to move forward")
	}
}

func TestDisableGuildScheduleWithoutSchedule(t *testing.T) {
	server := newFakeBarServer(t, nil)
	b := newTestBack(t, server.URL)

	err := b.DisableGuildSchedule("guild-without-schedule")
	if !errors.Is(err, util.ErrPublic("")) {
		t.Fatalf("expected a public error, got %v", err)
	}
}

func TestGetSchedulesDueAt(t *testing.T) {
	server := newFakeBarServer(t, nil)
	b := newTestBack(t, server.URL)

	for _, v := range []struct {
		guildID      string
		hour, minute int
		disabled     bool
	}{
		{"guild-1", 10, 30, false},
		{"guild-2", 10, 30, false},
		{"guild-3", 10, 31, false},
		{"guild-4", 10, 30, true},
	} {
		if err := b.SetGuildSchedule(v.guildID, "channel", v.hour, v.minute); err != nil {
			t.Fatal(err)
		}
		if v.disabled {
			if err := b.DisableGuildSchedule(v.guildID); err != nil {
				t.Fatal(err)
			}
		}
	}

	due, err := b.GetSchedulesDueAt(10, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due schedules, got %d", len(due))
	}
	if due[0].GuildID != "guild-1" || due[1].GuildID != "guild-2" {
		t.Errorf("unexpected due guilds: %s, %s", due[0].GuildID, due[1].GuildID)
	}

	due, err = b.GetSchedulesDueAt(10, 29)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("expected no due schedule, got %d", len(due))
	}
}
