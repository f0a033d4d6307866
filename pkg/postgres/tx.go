package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tmccall/deskcover/pkg/db"
)

// lockClass namespaces this application's advisory locks
const lockClass = 0x6463 // "dc"

// FillTransaction runs fn inside a single transaction after taking a
// per-date advisory lock. Two fills for the same calendar date are thereby
// serialized, which keeps concurrent fills from assigning the same free
// dispatcher twice for one date. The lock is released on commit or rollback.
func (d *DB) FillTransaction(ctx context.Context, date time.Time, fn func(tx db.FillTx) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin fill transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, lockClass, dateLockKey(date)); err != nil {
		return fmt.Errorf("failed to take fill date lock: %w", err)
	}

	if err := fn(&queries{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit fill transaction: %w", err)
	}
	return nil
}

// dateLockKey maps a calendar date to a stable int32 lock key
func dateLockKey(date time.Time) int32 {
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int32(day.Sub(epoch).Hours() / 24)
}
