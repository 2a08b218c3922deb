package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/worldmic/seat-service/internal/model"
)

// TransactionRepo provides append and read access to the ledger.  The
// transactions table is append-only: rows are inserted by the reconciler
// and never updated or deleted.  The unique index on external_payment_id
// is the storage-level idempotency guarantee; two reconciler invocations
// racing on the same provider event resolve here, not in application
// logic.
//
// Expected schema:
//
//	CREATE TABLE transactions (
//	    id                  BIGINT PRIMARY KEY AUTO_INCREMENT,
//	    kind                ENUM('seat_purchase','tip') NOT NULL,
//	    payer_id            VARCHAR(191) NULL,
//	    amount_cents        BIGINT NOT NULL,
//	    external_payment_id VARCHAR(191) NOT NULL,
//	    message             VARCHAR(500) NULL,
//	    created_at          DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
//	    UNIQUE KEY uq_external_payment_id (external_payment_id)
//	);
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo returns a TransactionRepo bound to the given database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// Append inserts a ledger entry and populates the generated ID and
// timestamp on the provided record.  When the external payment id has
// already been recorded it returns ErrDuplicate and leaves the record
// untouched.
func (r *TransactionRepo) Append(ctx context.Context, t *model.Transaction) error {
	const q = `INSERT INTO transactions (kind, payer_id, amount_cents, external_payment_id, message)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Kind, t.PayerID, t.AmountCents, t.ExternalPaymentID, t.Message)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at FROM transactions WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt)
}

// ListRecent returns the most recent ledger entries, newest first.  It
// backs the wall projection shown to viewers.
func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]model.Transaction, error) {
	const q = `SELECT id, kind, payer_id, amount_cents, external_payment_id, message, created_at
		FROM transactions ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t       model.Transaction
			payerID sql.NullString
			message sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Kind, &payerID, &t.AmountCents, &t.ExternalPaymentID, &message, &t.CreatedAt); err != nil {
			return nil, err
		}
		if payerID.Valid {
			v := payerID.String
			t.PayerID = &v
		}
		if message.Valid {
			v := message.String
			t.Message = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
