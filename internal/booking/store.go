package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
)

// Store is the booking ledger plus the transactional surface the coordinator
// runs on. The pgx implementation serializes contending reservations with a
// row lock on the slot; tests substitute an in-memory store with a per-slot
// mutex, which provides the same mutual exclusion.
type Store interface {
	// InTx runs fn inside a transaction. Every write fn performs is committed
	// atomically or not at all. Waiting for the slot row lock is bounded; on
	// timeout the transaction fails as a transient error.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// GetActiveByUserID returns the user's active booking outside any
	// transaction, or ErrNotBooked.
	GetActiveByUserID(ctx context.Context, userID string) (*Booking, error)

	// SummariesBySlot lists admin-facing booking summaries for a slot.
	SummariesBySlot(ctx context.Context, slotID string) ([]Summary, error)
}

// Tx is the write surface available inside a coordinator transaction.
type Tx interface {
	// LockSlot acquires an exclusive lock on the slot row and returns its
	// current state. Blocks until the lock is granted, the lock timeout
	// expires, or ctx is done. Returns slot.ErrNotFound for unknown ids.
	LockSlot(ctx context.Context, slotID string) (*slot.Slot, error)

	// Insert adds a ledger row. The unique index on user_id is the
	// authoritative one-booking-per-candidate guard: a violation surfaces as
	// ErrAlreadyBooked.
	Insert(ctx context.Context, b *Booking) error

	// GetActiveByUserID returns the user's booking as seen by this
	// transaction, or ErrNotBooked.
	GetActiveByUserID(ctx context.Context, userID string) (*Booking, error)

	// Delete removes a ledger row by id.
	Delete(ctx context.Context, bookingID string) error

	// ApplySlotDelta adjusts current_bookings by delta and bumps version.
	// Must only be called while holding the slot's lock.
	ApplySlotDelta(ctx context.Context, slotID string, delta int) error

	// SetApplicationStatus updates the candidate's application status as part
	// of the same atomic unit. A candidate without an application row is not
	// an error.
	SetApplicationStatus(ctx context.Context, userID string, status application.Status) error
}

type pgxStore struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewPgxStore creates the Postgres-backed Store. lockTimeout bounds how long
// a reserve call may wait for a contended slot row.
func NewPgxStore(pool *pgxpool.Pool, lockTimeout time.Duration) Store {
	return &pgxStore{pool: pool, lockTimeout: lockTimeout}
}

func (s *pgxStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return NewTransientError(fmt.Errorf("begin transaction failed: %w", err))
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback(ctx)

	// SET LOCAL scopes the timeout to this transaction only.
	timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, timeout); err != nil {
		return NewTransientError(fmt.Errorf("set lock_timeout failed: %w", err))
	}

	if err := fn(&pgxTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return NewTransientError(fmt.Errorf("commit failed: %w", err))
	}
	return nil
}

const bookingColumns = "id, slot_id, user_id, booked_at, confirmed"

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(&b.ID, &b.SlotID, &b.UserID, &b.BookedAt, &b.Confirmed); err != nil {
		return nil, err
	}
	return &b, nil
}

func getActiveByUserID(ctx context.Context, q querier, userID string) (*Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM public.slot_bookings WHERE user_id = $1", bookingColumns)

	b, err := scanBooking(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotBooked
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *pgxStore) GetActiveByUserID(ctx context.Context, userID string) (*Booking, error) {
	return getActiveByUserID(ctx, s.pool, userID)
}

func (s *pgxStore) SummariesBySlot(ctx context.Context, slotID string) ([]Summary, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("u.name", "u.email", "b.booked_at").
		From("public.slot_bookings b").
		Join("public.users u ON b.user_id = u.id").
		Where(squirrel.Eq{"b.slot_id": slotID}).
		OrderBy("b.booked_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build slot summaries query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slot summaries failed: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.UserName, &sm.UserEmail, &sm.BookedAt); err != nil {
			return nil, fmt.Errorf("scan slot summary failed: %w", err)
		}
		summaries = append(summaries, sm)
	}
	return summaries, nil
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) LockSlot(ctx context.Context, slotID string) (*slot.Slot, error) {
	const query = `
		SELECT id, date, start_time::text, end_time::text,
		       capacity, current_bookings, is_open, version,
		       created_at, updated_at
		FROM public.interview_slots
		WHERE id = $1
		FOR UPDATE
	`

	row := t.tx.QueryRow(ctx, query, slotID)

	var sl slot.Slot
	if err := row.Scan(
		&sl.ID, &sl.Date, &sl.StartTime, &sl.EndTime,
		&sl.Capacity, &sl.CurrentBookings, &sl.IsOpen, &sl.Version,
		&sl.CreatedAt, &sl.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, slot.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.LockNotAvailable {
			return nil, NewTransientError(fmt.Errorf("slot lock wait timed out: %w", err))
		}
		return nil, fmt.Errorf("lock slot failed: %w", err)
	}
	return &sl, nil
}

func (t *pgxTx) Insert(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.slot_bookings").
		Columns("slot_id", "user_id", "confirmed").
		Values(b.SlotID, b.UserID, b.Confirmed).
		Suffix("RETURNING id, booked_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking query failed: %w", err)
	}

	if err := t.tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.BookedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Lost the check-then-insert race: the ledger's unique index on
			// user_id caught it at commit time.
			return ErrAlreadyBooked
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (t *pgxTx) GetActiveByUserID(ctx context.Context, userID string) (*Booking, error) {
	return getActiveByUserID(ctx, t.tx, userID)
}

func (t *pgxTx) Delete(ctx context.Context, bookingID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.slot_bookings").
		Where(squirrel.Eq{"id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotBooked
	}
	return nil
}

func (t *pgxTx) ApplySlotDelta(ctx context.Context, slotID string, delta int) error {
	// The capacity check happens under the row lock before this runs; the
	// check constraint on current_bookings is the database-level backstop.
	const query = `
		UPDATE public.interview_slots
		SET current_bookings = current_bookings + $2,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
	`

	ct, err := t.tx.Exec(ctx, query, slotID, delta)
	if err != nil {
		return fmt.Errorf("apply slot delta failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return slot.ErrNotFound
	}
	return nil
}

func (t *pgxTx) SetApplicationStatus(ctx context.Context, userID string, status application.Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.applications").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update application status query failed: %w", err)
	}

	// Zero rows means the user has no application record; the booking itself
	// is still valid, so this is not an error.
	if _, err := t.tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update application status failed: %w", err)
	}
	return nil
}
