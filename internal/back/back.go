package back

import (
	"fmt"
	"log"
	"sync"
	"time"

	"skillboard/pkg/barapi"

	"github.com/jmoiron/sqlx"
)

type Back struct {
	db   *sqlx.DB
	api  *barapi.API
	gate *Gate

	notifications chan Notification

	// lastTick is only ever touched by the Run goroutine.
	lastTick time.Time
}

func New(sqlDriver string, sqlDSN string, api *barapi.API, maxConcurrentFetches int64) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could ever
	// come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	b := &Back{
		db:            db,
		api:           api,
		gate:          NewGate(maxConcurrentFetches),
		notifications: make(chan Notification, 32),
	}

	if err := b.migrate(); err != nil {
		return nil, fmt.Errorf("unable to migrate database: %w", err)
	}

	return b, nil
}

func (b *Back) Close() error {
	return b.db.Close()
}

// GetNotificationsChan returns the channel on which the Back sends its
// outgoing messages, the bot is expected to consume it.
func (b *Back) GetNotificationsChan() <-chan Notification {
	return b.notifications
}

// Run evaluates the guild schedules once per minute until done is closed.
// A minute during which the process was down is skipped, never caught up on.
func (b *Back) Run(wg *sync.WaitGroup, done <-chan struct{}) {
	wg.Add(1)
	defer wg.Done()
	log.Print("info: starting Back dæmon")

	for {
		now := time.Now().UTC()
		if minute := now.Truncate(time.Minute); !minute.Equal(b.lastTick) {
			b.lastTick = minute
			if err := b.runPeriodicTasks(now); err != nil {
				log.Printf("error: runPeriodicTasks: %s", err)
			}
		}

		nextMinute := time.Until(now.Truncate(time.Minute).Add(time.Minute))

		select {
		case <-time.After(nextMinute):
		case <-done:
			return
		}
	}
}

type transactionCallback func(*sqlx.Tx) error

func (b *Back) transaction(cb transactionCallback) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s\noriginal error: %s", err2, err)
		}

		return err
	}

	return tx.Commit()
}

func (b *Back) LoadFixtures() error {
	players := []Player{
		NewPlayer("1000000000000000001", "alpha", "AlphaCommander"),
		NewPlayer("1000000000000000002", "beta", "BetaFlank"),
		NewPlayer("1000000000000000003", "gamma", "GammaEco"),
	}

	schedule := NewGuildSchedule("2000000000000000001", "2000000000000000002", 18, 0)

	return b.transaction(func(tx *sqlx.Tx) error {
		for k := range players {
			if err := players[k].insert(tx); err != nil {
				return err
			}
		}

		return schedule.insert(tx)
	})
}
