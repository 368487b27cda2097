package timetableentry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pjt727/cample/timetable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// TxRunner runs each timetable operation in one read committed transaction
//
//	the per student advisory lock taken inside serialises concurrent requests
type TxRunner struct {
	pool *pgxpool.Pool
	q    *EntryQueries
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, q: NewEntryQuery(pool)}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context, repos timetable.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		// no-op after a commit
		if err := tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Error("Rollback failed: ", err)
		}
	}()

	if err := fn(ctx, r.q.WithTx(tx).Repos()); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}
