package back

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skillboard/internal/util"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// A GuildSchedule is the daily leaderboard announce configuration of a single
// guild, at most one per guild.
type GuildSchedule struct {
	GuildID   string
	ChannelID string
	HourUTC   int
	MinuteUTC int
	Enabled   bool
	CreatedAt util.TimeAsTimestamp
	UpdatedAt util.TimeAsTimestamp
}

func NewGuildSchedule(guildID, channelID string, hourUTC, minuteUTC int) GuildSchedule {
	now := util.TimeAsTimestamp(time.Now())

	return GuildSchedule{
		GuildID:   guildID,
		ChannelID: channelID,
		HourUTC:   hourUTC,
		MinuteUTC: minuteUTC,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *GuildSchedule) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("GuildSchedule").SetMap(squirrel.Eq{
		"GuildID":   s.GuildID,
		"ChannelID": s.ChannelID,
		"HourUTC":   s.HourUTC,
		"MinuteUTC": s.MinuteUTC,
		"Enabled":   s.Enabled,
		"CreatedAt": s.CreatedAt,
		"UpdatedAt": s.UpdatedAt,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// patchGuildSchedule updates only the given columns so that eg. disabling a
// schedule cannot clobber its channel or time.
func patchGuildSchedule(tx *sqlx.Tx, guildID string, fields squirrel.Eq) error {
	fields["UpdatedAt"] = util.TimeAsTimestamp(time.Now())

	query, args, err := squirrel.Update("GuildSchedule").SetMap(fields).
		Where("GuildSchedule.GuildID = ?", guildID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getGuildSchedule(tx *sqlx.Tx, guildID string) (GuildSchedule, error) {
	var ret GuildSchedule
	query := `SELECT * FROM GuildSchedule WHERE GuildSchedule.GuildID = ? LIMIT 1`
	if err := tx.Get(&ret, query, guildID); err != nil {
		return GuildSchedule{}, err
	}

	return ret, nil
}

func getSchedulesDueAt(tx *sqlx.Tx, hourUTC, minuteUTC int) ([]GuildSchedule, error) {
	var ret []GuildSchedule
	query := `SELECT * FROM GuildSchedule
              WHERE Enabled = 1 AND HourUTC = ? AND MinuteUTC = ?
              ORDER BY GuildID ASC`
	if err := tx.Select(&ret, query, hourUTC, minuteUTC); err != nil {
		return nil, err
	}

	return ret, nil
}

// SetGuildSchedule configures (or reconfigures and re-enables) the daily
// leaderboard post of a guild.
func (b *Back) SetGuildSchedule(guildID, channelID string, hourUTC, minuteUTC int) error {
	if hourUTC < 0 || hourUTC > 23 || minuteUTC < 0 || minuteUTC > 59 {
		return util.ErrPublic(fmt.Sprintf("%02d:%02d is not a valid UTC time", hourUTC, minuteUTC))
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getGuildSchedule(tx, guildID); errors.Is(err, sql.ErrNoRows) {
			schedule := NewGuildSchedule(guildID, channelID, hourUTC, minuteUTC)
			return schedule.insert(tx)
		} else if err != nil {
			return err
		}

		return patchGuildSchedule(tx, guildID, squirrel.Eq{
			"ChannelID": channelID,
			"HourUTC":   hourUTC,
			"MinuteUTC": minuteUTC,
			"Enabled":   true,
		})
	})
}

// DisableGuildSchedule turns the daily post off without forgetting the
// configured channel and time.
func (b *Back) DisableGuildSchedule(guildID string) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getGuildSchedule(tx, guildID); errors.Is(err, sql.ErrNoRows) {
			return util.ErrPublic("this server has no scheduled leaderboard")
		} else if err != nil {
			return err
		}

		return patchGuildSchedule(tx, guildID, squirrel.Eq{"Enabled": false})
	})
}

func (b *Back) GetGuildSchedule(guildID string) (schedule GuildSchedule, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		schedule, err = getGuildSchedule(tx, guildID)
		return err
	}); err != nil {
		return GuildSchedule{}, err
	}

	return schedule, nil
}

// GetSchedulesDueAt returns every enabled schedule configured for the exact
// given UTC wall-clock minute.
func (b *Back) GetSchedulesDueAt(hourUTC, minuteUTC int) (ret []GuildSchedule, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) (err error) {
		ret, err = getSchedulesDueAt(tx, hourUTC, minuteUTC)
		return err
	})
}
