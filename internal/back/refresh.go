package back

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"skillboard/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RefreshSummary is the outcome of one refresh cycle. Players whose lookup
// succeeded but who have no ranked history count toward neither Updated nor
// Failed, their stored rating is simply left alone.
type RefreshSummary struct {
	Total   int
	Updated int
	Failed  int
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeNoData
	outcomeFailure
)

type updateOutcome struct {
	MemberID    string
	BarUsername string
	Kind        outcomeKind

	Skill            float64
	SkillUncertainty float64
	Err              error
}

// RefreshAll refreshes the ratings of every registered player.
func (b *Back) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	var players []Player
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		players, err = getPlayers(tx)
		return err
	}); err != nil {
		return RefreshSummary{}, err
	}

	return b.RunOnce(ctx, players)
}

// RunOnce fetches up-to-date stats for the given players and reconciles the
// successes into storage. Fetches run concurrently, throttled by the gate;
// one player's failure never prevents the others from updating, failed
// players are simply retried on the next cycle.
func (b *Back) RunOnce(ctx context.Context, players []Player) (RefreshSummary, error) {
	cycle := uuid.New()
	summary := RefreshSummary{Total: len(players)}
	if len(players) == 0 {
		return summary, nil
	}

	start := time.Now()
	log.Printf("info: refresh %s: fetching stats for %d players", cycle, len(players))

	outcomes := make(chan updateOutcome, len(players))
	var wg sync.WaitGroup
	for k := range players {
		wg.Add(1)
		go func(p Player) {
			defer wg.Done()
			outcomes <- b.fetchOutcome(ctx, p)
		}(players[k])
	}
	wg.Wait()
	close(outcomes)

	updates := make([]updateOutcome, 0, len(players))
	for outcome := range outcomes {
		switch outcome.Kind {
		case outcomeSuccess:
			updates = append(updates, outcome)
		case outcomeNoData:
			log.Printf("debug: refresh %s: no Large Team rating for %s", cycle, outcome.BarUsername)
		case outcomeFailure:
			summary.Failed++
			log.Printf("error: refresh %s: %s: %s", cycle, outcome.BarUsername, outcome.Err)
		}
	}

	var errs []error
	now := time.Now()
	updated := 0
	if err := b.transaction(func(tx *sqlx.Tx) error {
		for _, v := range updates {
			if err := applyRatingUpdate(tx, v.MemberID, v.Skill, v.SkillUncertainty, now); err != nil {
				summary.Failed++
				errs = append(errs, fmt.Errorf("unable to store rating for %s: %w", v.BarUsername, err))
				continue
			}

			updated++
		}

		return nil
	}); err != nil {
		// The transaction rolled back, none of the counted rows made it to disk.
		summary.Failed += updated
		updated = 0
		errs = append(errs, err)
	}
	summary.Updated = updated

	log.Printf(
		"info: refresh %s: updated %d/%d players (%d failed) in %s",
		cycle, summary.Updated, summary.Total, summary.Failed, time.Since(start),
	)

	return summary, util.ConcatErrors(errs)
}

func (b *Back) fetchOutcome(ctx context.Context, p Player) updateOutcome {
	out := updateOutcome{MemberID: p.MemberID, BarUsername: p.BarUsername}

	if err := b.gate.Acquire(ctx); err != nil {
		out.Kind, out.Err = outcomeFailure, err
		return out
	}
	stats, err := b.api.SearchUser(ctx, p.BarUsername)
	b.gate.Release()

	switch {
	case err != nil:
		out.Kind, out.Err = outcomeFailure, err
	case !stats.HasRating():
		// Covers both an unknown user and a known user with no ranked Large
		// Team games: neither is a reason to regress the stored rating.
		out.Kind = outcomeNoData
	default:
		out.Kind = outcomeSuccess
		out.Skill = stats.Skill.Float64
		out.SkillUncertainty = stats.SkillUncertainty.Float64
	}

	return out
}

// RefreshPlayer refreshes a single registered player, looked up by its
// in-game username, and returns the record before and after the update.
func (b *Back) RefreshPlayer(ctx context.Context, barUsername string) (before, after Player, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		before, err = getPlayerByBarUsername(tx, barUsername)
		if errors.Is(err, sql.ErrNoRows) {
			return util.ErrPublic(fmt.Sprintf("player '%s' is not registered", barUsername))
		}

		return err
	}); err != nil {
		return Player{}, Player{}, err
	}

	if err := b.gate.Acquire(ctx); err != nil {
		return Player{}, Player{}, err
	}
	stats, err := b.api.SearchUser(ctx, before.BarUsername)
	b.gate.Release()
	if err != nil {
		log.Printf("error: unable to fetch stats for %s: %s", before.BarUsername, err)
		return Player{}, Player{}, util.ErrPublic(fmt.Sprintf(
			"failed to fetch stats for '%s', please try again later", before.BarUsername,
		))
	}
	if stats == nil {
		return Player{}, Player{}, util.ErrPublic(fmt.Sprintf(
			"could not find player '%s' in the BAR database, it may have been renamed",
			before.BarUsername,
		))
	}

	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		if stats.HasRating() {
			if err := applyRatingUpdate(
				tx, before.MemberID,
				stats.Skill.Float64, stats.SkillUncertainty.Float64,
				time.Now(),
			); err != nil {
				return err
			}
		}

		after, err = getPlayerByMemberID(tx, before.MemberID)
		return err
	}); err != nil {
		return Player{}, Player{}, err
	}

	return before, after, nil
}
