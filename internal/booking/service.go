package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/audit"
	"github.com/techclub/recruitment-portal-backend/internal/notifier"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

// MyBooking is the candidate's own-booking view with the slot it claims.
type MyBooking struct {
	Booking *Booking
	Slot    *slot.Slot
}

// Service is the booking coordinator. Reserve and Cancel are the only code
// paths that mutate the ledger, the slot counters, and the dependent
// application status, and they do so atomically.
type Service interface {
	// Reserve claims one seat on the slot for the candidate. On ErrSlotFull
	// the returned slot is a fresh zero-availability snapshot.
	Reserve(ctx context.Context, userID, slotID string) (*Booking, *slot.Slot, error)

	// Cancel releases the candidate's booking and frees the seat.
	Cancel(ctx context.Context, userID string) error

	// MyBooking returns the candidate's active booking, or ErrNotBooked.
	MyBooking(ctx context.Context, userID string) (*MyBooking, error)

	// SummariesForSlot lists admin-facing booking summaries for a slot.
	SummariesForSlot(ctx context.Context, slotID string) ([]Summary, error)
}

type service struct {
	store       Store
	slotService slot.Service
	userService user.Service
	mailer      *notifier.Mailer
	recorder    audit.Recorder
	clock       clock.Clock
}

func NewService(
	store Store,
	slotService slot.Service,
	userService user.Service,
	mailer *notifier.Mailer,
	recorder audit.Recorder,
	clk clock.Clock,
) Service {
	return &service{
		store:       store,
		slotService: slotService,
		userService: userService,
		mailer:      mailer,
		recorder:    recorder,
		clock:       clk,
	}
}

func (s *service) Reserve(ctx context.Context, userID, slotID string) (*Booking, *slot.Slot, error) {
	// Fast-path check only. The ledger's unique index on user_id is the
	// authoritative guard; a concurrent duplicate that slips past this read
	// is rejected at insert time inside the transaction.
	if _, err := s.store.GetActiveByUserID(ctx, userID); err == nil {
		return nil, nil, ErrAlreadyBooked
	} else if !errors.Is(err, ErrNotBooked) {
		return nil, nil, classify(err)
	}

	var (
		booked   *Booking
		snapshot *slot.Slot
	)

	err := s.store.InTx(ctx, func(tx Tx) error {
		// The row lock strictly serializes contenders for this slot: the
		// second caller blocks here and then re-reads the committed counter.
		sl, err := tx.LockSlot(ctx, slotID)
		if err != nil {
			return err
		}

		if !sl.IsOpen {
			return ErrSlotClosed
		}

		if !sl.StartDateTime().After(s.clock.Now()) {
			return ErrPastSlot
		}

		if sl.CurrentBookings >= sl.Capacity {
			snapshot = sl
			return ErrSlotFull
		}

		b := &Booking{
			SlotID:    slotID,
			UserID:    userID,
			Confirmed: true,
		}
		if err := tx.Insert(ctx, b); err != nil {
			return err
		}

		if err := tx.ApplySlotDelta(ctx, slotID, +1); err != nil {
			return err
		}

		if err := tx.SetApplicationStatus(ctx, userID, application.StatusSlotSelected); err != nil {
			return err
		}

		sl.CurrentBookings++
		sl.Version++
		booked = b
		snapshot = sl
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotFull) {
			// Expected contention outcome; hand back the snapshot so the
			// caller can show zero availability without a second query.
			return nil, snapshot, ErrSlotFull
		}
		return nil, nil, classify(err)
	}

	log.Printf("user %s booked slot %s", userID, slotID)
	s.afterReserve(userID, slotID, snapshot)

	return booked, snapshot, nil
}

// afterReserve triggers the post-commit collaborators. Both are best-effort:
// a committed booking is never reported as failed because mail or audit
// writes went wrong.
func (s *service) afterReserve(userID, slotID string, sl *slot.Slot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s.recorder.Record(ctx, userID, audit.ActionSlotBooked, "slot "+slotID, "")

		u, err := s.userService.GetByID(ctx, userID)
		if err != nil {
			log.Printf("failed to load user %s for booking confirmation: %v", userID, err)
			return
		}

		start, _ := slot.ParseClock(sl.StartTime)
		end, _ := slot.ParseClock(sl.EndTime)
		if err := s.mailer.SendBookingConfirmation(ctx, u.Name, u.Email, sl.Date, start, end); err != nil {
			log.Printf("failed to send booking confirmation to %s: %v", u.Email, err)
		}
	}()
}

func (s *service) Cancel(ctx context.Context, userID string) error {
	var slotID string

	err := s.store.InTx(ctx, func(tx Tx) error {
		b, err := tx.GetActiveByUserID(ctx, userID)
		if err != nil {
			return err
		}

		// Lock the owning slot before touching the ledger so cancellation is
		// serialized against concurrent reservations on the same slot.
		if _, err := tx.LockSlot(ctx, b.SlotID); err != nil {
			return err
		}

		if err := tx.Delete(ctx, b.ID); err != nil {
			return err
		}

		if err := tx.ApplySlotDelta(ctx, b.SlotID, -1); err != nil {
			return err
		}

		if err := tx.SetApplicationStatus(ctx, userID, application.StatusPending); err != nil {
			return err
		}

		slotID = b.SlotID
		return nil
	})
	if err != nil {
		return classify(err)
	}

	log.Printf("user %s cancelled booking on slot %s", userID, slotID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.recorder.Record(ctx, userID, audit.ActionSlotCancelled, "slot "+slotID, "")
	}()

	return nil
}

func (s *service) MyBooking(ctx context.Context, userID string) (*MyBooking, error) {
	b, err := s.store.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}

	sl, err := s.slotService.GetByID(ctx, b.SlotID)
	if err != nil {
		return nil, classify(err)
	}

	return &MyBooking{Booking: b, Slot: sl}, nil
}

func (s *service) SummariesForSlot(ctx context.Context, slotID string) ([]Summary, error) {
	return s.store.SummariesBySlot(ctx, slotID)
}

// classify passes through the coordinator's failure taxonomy untouched and
// downgrades everything else to a retryable transient error.
func classify(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewTransientError(err)
}
