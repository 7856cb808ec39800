package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cinearc/cinearc-api/internal/model"
)

// BasketRepo manages per-user ticket baskets.  A basket row holds the
// ticket quantity one user has for one session; the unique key on
// (user_id, session_id) guarantees at most one row per pair.  The paid
// flag transitions false -> true exactly once, in a single bulk update,
// when a payment confirmation arrives.
type BasketRepo struct {
	db *sql.DB
}

// NewBasketRepo returns a new BasketRepo bound to the given database.
func NewBasketRepo(db *sql.DB) *BasketRepo { return &BasketRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// basket updates with other statements in one transaction.
func (r *BasketRepo) DB() *sql.DB { return r.db }

// AddOrIncrement creates a basket row for (user, session) or increments
// the quantity of the existing one.  The quantity must be positive;
// anything else fails with ErrInvalidQuantity before any SQL runs.
// Adding to a basket that is already paid fails with ErrAlreadyPaid.
//
// The existing-row check runs inside a transaction with a FOR UPDATE
// lock, and an insert that loses a race against a concurrent request
// falls back to the increment path when the unique key fires.  The
// constraint, not the check, is what rules out duplicate rows.
func (r *BasketRepo) AddOrIncrement(ctx context.Context, userID, sessionID uint64, quantity uint32) (*model.Basket, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := r.lockRow(ctx, tx, userID, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err == sql.ErrNoRows {
		const ins = `INSERT INTO baskets (user_id, session_id, quantity) VALUES (?, ?, ?)`
		res, insErr := tx.ExecContext(ctx, ins, userID, sessionID, quantity)
		if insErr != nil {
			low := strings.ToLower(insErr.Error())
			if strings.Contains(low, "1452") {
				return nil, ErrSessionNotFound
			}
			if !strings.Contains(low, "1062") {
				return nil, insErr
			}
			// Duplicate key: a concurrent request created the row between
			// our check and the insert.  Lock it and increment instead.
			if b, err = r.lockRow(ctx, tx, userID, sessionID); err != nil {
				return nil, err
			}
		} else {
			id, idErr := res.LastInsertId()
			if idErr != nil {
				return nil, idErr
			}
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			committed = true
			return &model.Basket{
				ID:        uint64(id),
				UserID:    userID,
				SessionID: sessionID,
				Quantity:  quantity,
			}, nil
		}
	}
	if b.Paid {
		return nil, ErrAlreadyPaid
	}
	const upd = `UPDATE baskets SET quantity = quantity + ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, quantity, b.ID); err != nil {
		return nil, err
	}
	b.Quantity += quantity
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// lockRow selects the (user, session) basket row FOR UPDATE within tx.
func (r *BasketRepo) lockRow(ctx context.Context, tx *sql.Tx, userID, sessionID uint64) (*model.Basket, error) {
	const q = `SELECT id, user_id, session_id, quantity, paid
               FROM baskets WHERE user_id = ? AND session_id = ? FOR UPDATE`
	var b model.Basket
	err := tx.QueryRowContext(ctx, q, userID, sessionID).Scan(
		&b.ID, &b.UserID, &b.SessionID, &b.Quantity, &b.Paid)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// IncrementByID adds one ticket to a specific basket owned by the user.
// ErrBasketNotFound is returned when the basket does not exist or belongs
// to someone else; ErrAlreadyPaid when the basket has been paid.
func (r *BasketRepo) IncrementByID(ctx context.Context, basketID, userID uint64) (*model.Basket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `SELECT id, user_id, session_id, quantity, paid
               FROM baskets WHERE id = ? AND user_id = ? FOR UPDATE`
	var b model.Basket
	err = tx.QueryRowContext(ctx, q, basketID, userID).Scan(
		&b.ID, &b.UserID, &b.SessionID, &b.Quantity, &b.Paid)
	if err == sql.ErrNoRows {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Paid {
		return nil, ErrAlreadyPaid
	}
	if _, err := tx.ExecContext(ctx, `UPDATE baskets SET quantity = quantity + 1 WHERE id = ?`, b.ID); err != nil {
		return nil, err
	}
	b.Quantity++
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &b, nil
}

// BasketDetail is a basket joined with its session, movie and room for
// display to customers.
type BasketDetail struct {
	ID         uint64    `json:"id"`
	SessionID  uint64    `json:"session_id"`
	MovieTitle string    `json:"movie_title"`
	RoomName   string    `json:"room_name"`
	StartsAt   time.Time `json:"starts_at"`
	Quantity   uint32    `json:"quantity"`
	Paid       bool      `json:"paid"`
}

// ListByUser returns all of a user's baskets with session details,
// newest first.  An empty slice is returned when the user has none.
func (r *BasketRepo) ListByUser(ctx context.Context, userID uint64) ([]BasketDetail, error) {
	const q = `SELECT b.id, b.session_id, m.title, r.name, s.starts_at, b.quantity, b.paid
               FROM baskets b
               JOIN sessions s ON s.id = b.session_id
               JOIN movies m ON m.id = s.movie_id
               JOIN rooms r ON r.id = s.room_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BasketDetail, 0)
	for rows.Next() {
		var d BasketDetail
		if err := rows.Scan(&d.ID, &d.SessionID, &d.MovieTitle, &d.RoomName,
			&d.StartsAt, &d.Quantity, &d.Paid); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListUnpaidByUser returns the user's unpaid baskets.
func (r *BasketRepo) ListUnpaidByUser(ctx context.Context, userID uint64) ([]model.Basket, error) {
	const q = `SELECT id, user_id, session_id, quantity, paid, created_at, updated_at
               FROM baskets WHERE user_id = ? AND paid = 0 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	baskets := make([]model.Basket, 0)
	for rows.Next() {
		var b model.Basket
		if err := rows.Scan(&b.ID, &b.UserID, &b.SessionID, &b.Quantity, &b.Paid,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		baskets = append(baskets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return baskets, nil
}

// MarkUnpaidPaid flips every unpaid basket of the user to paid in one
// statement inside a transaction and returns how many rows changed.
// Zero means there was nothing to update, which callers treat as a
// benign no-op; the transition is idempotent by construction because a
// second call matches no rows.
func (r *BasketRepo) MarkUnpaidPaid(ctx context.Context, userID uint64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `UPDATE baskets SET paid = 1 WHERE user_id = ? AND paid = 0`
	res, err := tx.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}
