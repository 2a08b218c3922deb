package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/worldmic/seat-service/internal/model"
	"github.com/worldmic/seat-service/internal/pricing"
)

// SeatStateRepo provides access to the singleton seat_state row.  The row
// is the only mutable shared record in the system besides the append-only
// ledger; every mutation here is a conditional transition so that
// concurrent confirms and expiry sweeps cannot clobber each other in
// surprising ways.  All timestamps are stored in UTC.
//
// Expected schema:
//
//	CREATE TABLE seat_state (
//	    id           TINYINT PRIMARY KEY,
//	    holder_id    VARCHAR(191) NULL,
//	    holder_name  VARCHAR(191) NULL,
//	    price_cents  BIGINT NOT NULL,
//	    holder_count BIGINT NOT NULL DEFAULT 0,
//	    started_at   DATETIME(3) NULL,
//	    expires_at   DATETIME(3) NULL
//	);
type SeatStateRepo struct {
	db     *sql.DB
	policy pricing.Policy
}

// NewSeatStateRepo returns a SeatStateRepo bound to the given database.
// The pricing policy is needed here because a confirmed purchase re-derives
// the price from the post-increment holder count inside the same
// transaction that records the new holder.
func NewSeatStateRepo(db *sql.DB, policy pricing.Policy) *SeatStateRepo {
	return &SeatStateRepo{db: db, policy: policy}
}

// DB exposes the underlying handle for health checks.
func (r *SeatStateRepo) DB() *sql.DB { return r.db }

const seatColumns = `holder_id, holder_name, price_cents, holder_count, started_at, expires_at`

// Get reads the singleton row.  It returns ErrSeatNotFound when the row
// has not been seeded; callers recover via Init.
func (r *SeatStateRepo) Get(ctx context.Context) (model.SeatState, error) {
	const q = `SELECT ` + seatColumns + ` FROM seat_state WHERE id = 1`
	return scanSeat(r.db.QueryRowContext(ctx, q))
}

// Init seeds the singleton row if it does not exist yet.  The holder
// count is recovered by scanning the ledger; this full scan is the
// cold-start fallback only, the maintained counter on the row is the
// source of truth afterwards.  Init is idempotent and safe to race.
func (r *SeatStateRepo) Init(ctx context.Context) (model.SeatState, error) {
	var count int64
	const countQ = `SELECT COUNT(*) FROM transactions WHERE kind = ?`
	if err := r.db.QueryRowContext(ctx, countQ, model.KindSeatPurchase).Scan(&count); err != nil {
		return model.SeatState{}, err
	}
	const ins = `INSERT IGNORE INTO seat_state (id, price_cents, holder_count) VALUES (1, ?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, r.policy.Quote(count), count); err != nil {
		return model.SeatState{}, err
	}
	return r.Get(ctx)
}

// Confirm applies a confirmed seat purchase: the payer becomes the holder
// (last confirmed payment always wins, overwriting any current holder),
// the holder counter is incremented and the price is re-derived from the
// new count.  Everything happens inside one database transaction so a
// concurrent confirm sees either the old or the new state, never a mix.
// The updated state is returned.
func (r *SeatStateRepo) Confirm(ctx context.Context, holderID, holderName string, startedAt, expiresAt time.Time) (model.SeatState, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.SeatState{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const up = `UPDATE seat_state
		SET holder_id = ?, holder_name = ?, started_at = ?, expires_at = ?, holder_count = holder_count + 1
		WHERE id = 1`
	res, err := tx.ExecContext(ctx, up, holderID, holderName, startedAt.UTC(), expiresAt.UTC())
	if err != nil {
		return model.SeatState{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may legitimately report 0 affected rows when values did not
		// change, so probe for existence before declaring the row missing.
		var one int
		if scanErr := tx.QueryRowContext(ctx, `SELECT 1 FROM seat_state WHERE id = 1`).Scan(&one); scanErr == sql.ErrNoRows {
			return model.SeatState{}, ErrSeatNotFound
		} else if scanErr != nil {
			return model.SeatState{}, scanErr
		}
	}

	var count int64
	if err := tx.QueryRowContext(ctx, `SELECT holder_count FROM seat_state WHERE id = 1`).Scan(&count); err != nil {
		return model.SeatState{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE seat_state SET price_cents = ? WHERE id = 1`, r.policy.Quote(count)); err != nil {
		return model.SeatState{}, err
	}

	st, err := scanSeat(tx.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seat_state WHERE id = 1`))
	if err != nil {
		return model.SeatState{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.SeatState{}, err
	}
	committed = true
	return st, nil
}

// ClearExpired vacates the seat, but only while the stored expiry is at
// or before the given cutoff.  The condition keeps a lazy-expiry read
// from clobbering a purchase confirmed between the caller's read and this
// write.  It reports whether a row was actually cleared.
func (r *SeatStateRepo) ClearExpired(ctx context.Context, cutoff time.Time) (bool, error) {
	const q = `UPDATE seat_state
		SET holder_id = NULL, holder_name = NULL, started_at = NULL, expires_at = NULL
		WHERE id = 1 AND expires_at IS NOT NULL AND expires_at <= ?`
	res, err := r.db.ExecContext(ctx, q, cutoff.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanSeat(row *sql.Row) (model.SeatState, error) {
	var (
		st         model.SeatState
		holderID   sql.NullString
		holderName sql.NullString
		startedAt  sql.NullTime
		expiresAt  sql.NullTime
	)
	err := row.Scan(&holderID, &holderName, &st.PriceCents, &st.HolderCount, &startedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return model.SeatState{}, ErrSeatNotFound
	}
	if err != nil {
		return model.SeatState{}, err
	}
	if holderID.Valid {
		v := holderID.String
		st.HolderID = &v
	}
	if holderName.Valid {
		v := holderName.String
		st.HolderName = &v
	}
	if startedAt.Valid {
		t := startedAt.Time
		st.StartedAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		st.ExpiresAt = &t
	}
	return st, nil
}
