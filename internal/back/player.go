package back

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skillboard/internal/util"
	"skillboard/pkg/barapi"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

// A Player is a guild member who registered its BAR in-game username to
// appear on the leaderboard.
type Player struct {
	MemberID     string
	DisplayName  string
	BarUsername  string
	RegisteredAt util.TimeAsTimestamp
	RegisteredBy null.String

	// The rating triple: those three fields always change together, a record
	// with an invalid Skill has never been seen on the ranked Large Team
	// leaderboard and renders as "Unranked".
	Skill             null.Float
	SkillUncertainty  null.Float
	LastSkillUpdateAt util.NullTimeAsTimestamp
}

func NewPlayer(memberID, displayName, barUsername string) Player {
	return Player{
		MemberID:     memberID,
		DisplayName:  displayName,
		BarUsername:  barUsername,
		RegisteredAt: util.TimeAsTimestamp(time.Now()),
	}
}

func (p *Player) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Player").SetMap(squirrel.Eq{
		"MemberID":          p.MemberID,
		"DisplayName":       p.DisplayName,
		"BarUsername":       p.BarUsername,
		"RegisteredAt":      p.RegisteredAt,
		"RegisteredBy":      p.RegisteredBy,
		"Skill":             p.Skill,
		"SkillUncertainty":  p.SkillUncertainty,
		"LastSkillUpdateAt": p.LastSkillUpdateAt,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// update writes the registration-owned fields, MemberID and RegisteredAt are
// immutable and the rating triple only moves through applyRatingUpdate.
func (p *Player) update(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Player").SetMap(squirrel.Eq{
		"DisplayName":  p.DisplayName,
		"BarUsername":  p.BarUsername,
		"RegisteredBy": p.RegisteredBy,
	}).Where("Player.MemberID = ?", p.MemberID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// applyRatingUpdate stores a fresh rating. A single UPDATE keeps the triple
// atomic: concurrent readers see either the old or the new rating, never a
// torn one.
func applyRatingUpdate(tx *sqlx.Tx, memberID string, skill, uncertainty float64, now time.Time) error {
	query, args, err := squirrel.Update("Player").SetMap(squirrel.Eq{
		"Skill":             skill,
		"SkillUncertainty":  uncertainty,
		"LastSkillUpdateAt": util.NewNullTimeAsTimestamp(now),
	}).Where("Player.MemberID = ?", memberID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getPlayerByMemberID(tx *sqlx.Tx, memberID string) (Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Player.MemberID = ? LIMIT 1`
	if err := tx.Get(&ret, query, memberID); err != nil {
		return Player{}, err
	}

	return ret, nil
}

// getPlayerByBarUsername matches case-insensitively, the upstream canonical
// username and whatever the member typed at registration may differ in case.
func getPlayerByBarUsername(tx *sqlx.Tx, barUsername string) (Player, error) {
	var ret Player
	query := `SELECT * FROM Player WHERE Player.BarUsername = ? COLLATE NOCASE LIMIT 1`
	if err := tx.Get(&ret, query, barUsername); err != nil {
		return Player{}, err
	}

	return ret, nil
}

// getPlayers returns every registered player in registration order.
func getPlayers(tx *sqlx.Tx) ([]Player, error) {
	var ret []Player
	query := `SELECT * FROM Player ORDER BY RegisteredAt ASC, MemberID ASC`
	if err := tx.Select(&ret, query); err != nil {
		return nil, err
	}

	return ret, nil
}

func (b *Back) GetPlayers() (ret []Player, _ error) {
	return ret, b.transaction(func(tx *sqlx.Tx) (err error) {
		ret, err = getPlayers(tx)
		return err
	})
}

func (b *Back) GetPlayerByBarUsername(barUsername string) (player Player, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		player, err = getPlayerByBarUsername(tx, barUsername)
		return err
	}); err != nil {
		return Player{}, err
	}

	return player, nil
}

// LookupBarUser queries the upstream API for a username, going through the
// fetch gate like any other lookup.
func (b *Back) LookupBarUser(ctx context.Context, username string) (*barapi.UserStats, error) {
	if err := b.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer b.gate.Release()

	return b.api.SearchUser(ctx, username)
}

// RegisterPlayer creates or updates the registration of a guild member.
// Re-registering is idempotent by member: it renames the display name and
// in-game username but never touches RegisteredAt. The rating triple is only
// written when the registration lookup returned a ranked rating.
func (b *Back) RegisterPlayer(
	memberID, displayName, barUsername, registeredBy string,
	stats *barapi.UserStats,
) (player Player, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		existing, err := getPlayerByMemberID(tx, memberID)
		if errors.Is(err, sql.ErrNoRows) {
			player = NewPlayer(memberID, displayName, barUsername)
			player.RegisteredBy = null.NewString(registeredBy, registeredBy != "")
			if stats.HasRating() {
				player.Skill = stats.Skill
				player.SkillUncertainty = stats.SkillUncertainty
				player.LastSkillUpdateAt = util.NewNullTimeAsTimestamp(time.Now())
			}

			if err := player.insert(tx); err != nil {
				return err
			}

			// Read back so timestamps have storage precision.
			player, err = getPlayerByMemberID(tx, memberID)
			return err
		}
		if err != nil {
			return err
		}

		existing.DisplayName = displayName
		existing.BarUsername = barUsername
		if registeredBy != "" {
			existing.RegisteredBy = null.StringFrom(registeredBy)
		}
		if err := existing.update(tx); err != nil {
			return err
		}

		if stats.HasRating() {
			if err := applyRatingUpdate(
				tx, existing.MemberID,
				stats.Skill.Float64, stats.SkillUncertainty.Float64,
				time.Now(),
			); err != nil {
				return err
			}
		}

		player, err = getPlayerByMemberID(tx, existing.MemberID)
		return err
	}); err != nil {
		return Player{}, fmt.Errorf("unable to register player: %w", err)
	}

	return player, nil
}
