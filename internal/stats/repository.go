package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Overview(ctx context.Context) (*Overview, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// overviewSQL gathers every counter in one statement so the dashboard sees a
// single consistent snapshot.
const overviewSQL = `
SELECT
  (SELECT count(*) FROM public.users WHERE role = 'candidate' AND is_active) AS total_candidates,
  (SELECT count(*) FROM public.interview_slots) AS total_slots,
  (SELECT count(*) FROM public.interview_slots
     WHERE is_open AND current_bookings < capacity
       AND (date > current_date OR (date = current_date AND start_time > current_time))) AS available_slots,
  (SELECT count(*) FROM public.slot_bookings) AS total_bookings,
  (SELECT count(*) FROM public.applications WHERE status = 'pending') AS pending_applications,
  (SELECT count(*) FROM public.applications WHERE status = 'slot_selected') AS slot_selected
`

func (r *pgxRepository) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := r.pool.QueryRow(ctx, overviewSQL).Scan(
		&o.TotalCandidates,
		&o.TotalSlots,
		&o.AvailableSlots,
		&o.TotalBookings,
		&o.PendingApplications,
		&o.SlotSelected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats overview: %w", err)
	}
	return &o, nil
}
