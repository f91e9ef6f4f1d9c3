package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/audit"
	"github.com/techclub/recruitment-portal-backend/internal/notifier"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

// stubUserService satisfies user.Service with a static user map. Only GetByID
// matters to the booking coordinator.
type stubUserService struct {
	users map[string]*user.User
}

func (s *stubUserService) RegisterCandidate(context.Context, string, string) (*user.User, error) {
	return nil, nil
}

func (s *stubUserService) Login(context.Context, string, string) (*user.User, error) {
	return nil, nil
}

func (s *stubUserService) GetByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (s *stubUserService) List(context.Context, user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (s *stubUserService) ActiveCandidateEmails(context.Context) ([]string, error) {
	return nil, nil
}

// stubSlotService reads slot state from the backing store.
type stubSlotService struct {
	store *memStore
}

func (s *stubSlotService) Create(context.Context, slot.CreateRequest) (*slot.Slot, error) {
	return nil, nil
}

func (s *stubSlotService) GetByID(_ context.Context, id string) (*slot.Slot, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if sl, ok := s.store.slots[id]; ok {
		cp := *sl
		return &cp, nil
	}
	return nil, slot.ErrNotFound
}

func (s *stubSlotService) List(context.Context, slot.Filter) ([]*slot.Slot, error) {
	return nil, nil
}

func (s *stubSlotService) SetOpen(context.Context, string, bool) (*slot.Slot, error) {
	return nil, nil
}

func (s *stubSlotService) Delete(context.Context, string) error {
	return nil
}

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestService(store *memStore) (Service, *clock.MockClock) {
	clk := clock.NewMockClock(testNow)
	users := &stubUserService{users: map[string]*user.User{}}
	for id, u := range store.users {
		users.users[id] = &user.User{ID: id, Name: u.Name, Email: u.Email, Role: user.RoleCandidate, IsActive: true}
	}
	mailer := notifier.NewMailer(notifier.NewLogNotifier(), "Tech Club", "http://localhost:3000")
	svc := NewService(store, &stubSlotService{store: store}, users, mailer, audit.NopRecorder{}, clk)
	return svc, clk
}

func futureSlot(id string, capacity int) *slot.Slot {
	return &slot.Slot{
		ID:        id,
		Date:      time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00:00",
		EndTime:   "11:00:00",
		Capacity:  capacity,
		IsOpen:    true,
	}
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: books one seat and updates application status", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 3))
		store.statuses["user-1"] = application.StatusPending
		svc, _ := newTestService(store)

		b, snap, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, "slot-1", b.SlotID)
		assert.Equal(t, "user-1", b.UserID)
		assert.True(t, b.Confirmed)

		require.NotNil(t, snap)
		assert.Equal(t, 1, snap.CurrentBookings)
		assert.Equal(t, int64(1), snap.Version)

		state := store.slotState("slot-1")
		assert.Equal(t, 1, state.CurrentBookings)
		assert.Equal(t, int64(1), state.Version)
		assert.Equal(t, application.StatusSlotSelected, store.status("user-1"))
	})

	t.Run("Unknown slot: not found", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "missing")
		assert.ErrorIs(t, err, slot.ErrNotFound)
	})

	t.Run("Closed slot: rejected, nothing written", func(t *testing.T) {
		store := newMemStore()
		sl := futureSlot("slot-1", 3)
		sl.IsOpen = false
		store.addSlot(sl)
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		assert.ErrorIs(t, err, ErrSlotClosed)
		assert.Equal(t, 0, store.bookingCount())
		assert.Equal(t, 0, store.slotState("slot-1").CurrentBookings)
	})

	t.Run("Past slot: rejected even with free seats", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 3))
		svc, clk := newTestService(store)

		// Advance past the slot's start.
		clk.Set(time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC))

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		assert.ErrorIs(t, err, ErrPastSlot)
		assert.Equal(t, 0, store.bookingCount())
	})

	t.Run("Closed wins over past: closed checked first", func(t *testing.T) {
		store := newMemStore()
		sl := futureSlot("slot-1", 3)
		sl.IsOpen = false
		store.addSlot(sl)
		svc, clk := newTestService(store)
		clk.Set(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC))

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		assert.ErrorIs(t, err, ErrSlotClosed)
	})

	t.Run("Full slot: conflict with zero-availability snapshot", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 1))
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		b, snap, err := svc.Reserve(ctx, "user-2", "slot-1")
		assert.ErrorIs(t, err, ErrSlotFull)
		assert.Nil(t, b)
		require.NotNil(t, snap)
		assert.Equal(t, 0, snap.AvailableSpots())
		assert.True(t, snap.IsFull())

		// Only the winner's booking exists.
		assert.Equal(t, 1, store.bookingCount())
		assert.Equal(t, 1, store.slotState("slot-1").CurrentBookings)
	})

	t.Run("Second booking by same candidate: rejected without side effects", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 3))
		store.addSlot(futureSlot("slot-2", 3))
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		_, _, err = svc.Reserve(ctx, "user-1", "slot-2")
		assert.ErrorIs(t, err, ErrAlreadyBooked)
		assert.Equal(t, 1, store.bookingCount())
		assert.Equal(t, 0, store.slotState("slot-2").CurrentBookings)
	})

	t.Run("Repeating a rejected request: same error, still no side effects", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 3))
		store.addSlot(futureSlot("slot-2", 3))
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, _, err = svc.Reserve(ctx, "user-1", "slot-2")
			assert.ErrorIs(t, err, ErrAlreadyBooked)
		}
		assert.Equal(t, 1, store.bookingCount())
		assert.Equal(t, 1, store.slotState("slot-1").CurrentBookings)
		assert.Equal(t, int64(1), store.slotState("slot-1").Version)
	})
}

func TestReserveConcurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("More contenders than seats: exactly capacity succeed", func(t *testing.T) {
		const capacity = 3
		const contenders = 20

		store := newMemStore()
		store.addSlot(futureSlot("slot-1", capacity))
		svc, _ := newTestService(store)

		var wg sync.WaitGroup
		errs := make([]error, contenders)
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, errs[i] = svc.Reserve(ctx, fmt.Sprintf("user-%d", i), "slot-1")
			}(i)
		}
		wg.Wait()

		var won, full int
		for _, err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrSlotFull):
				full++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, capacity, won)
		assert.Equal(t, contenders-capacity, full)

		state := store.slotState("slot-1")
		assert.Equal(t, capacity, state.CurrentBookings)
		assert.Equal(t, capacity, store.bookingCount())
		assert.GreaterOrEqual(t, state.Capacity, state.CurrentBookings)
	})

	t.Run("Same candidate double submit: exactly one wins", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 5))
		svc, _ := newTestService(store)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, errs[i] = svc.Reserve(ctx, "user-1", "slot-1")
			}(i)
		}
		wg.Wait()

		var won, dup int
		for _, err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrAlreadyBooked):
				dup++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, dup)
		assert.Equal(t, 1, store.slotState("slot-1").CurrentBookings)
	})
}

// raceStore simulates losing the check-then-insert race: the advisory
// pre-check never sees the existing booking, so the unique index rejection
// inside the transaction is the only guard left.
type raceStore struct {
	*memStore
}

func (s *raceStore) GetActiveByUserID(context.Context, string) (*Booking, error) {
	return nil, ErrNotBooked
}

func TestReserveUniqueIndexBackstop(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	store.addSlot(futureSlot("slot-1", 5))
	svc, _ := newTestService(store)

	_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)

	svc2 := NewService(&raceStore{store}, &stubSlotService{store: store},
		&stubUserService{users: map[string]*user.User{}},
		notifier.NewMailer(notifier.NewLogNotifier(), "Tech Club", "http://localhost:3000"),
		audit.NopRecorder{}, clock.NewMockClock(testNow))

	_, _, err = svc2.Reserve(ctx, "user-1", "slot-1")
	assert.ErrorIs(t, err, ErrAlreadyBooked)

	// The failed transaction rolled back completely: no extra booking row,
	// counter untouched.
	assert.Equal(t, 1, store.bookingCount())
	assert.Equal(t, 1, store.slotState("slot-1").CurrentBookings)
	assert.Equal(t, int64(1), store.slotState("slot-1").Version)
}

func TestReserveRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("Application status failure rolls back booking and counter", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 3))
		store.failStatus = errors.New("applications table unavailable")
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.Error(t, err)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 500, appErr.Code)
		assert.Equal(t, "server_error", appErr.Kind)

		assert.Equal(t, 0, store.bookingCount())
		assert.Equal(t, 0, store.slotState("slot-1").CurrentBookings)
		assert.Equal(t, int64(0), store.slotState("slot-1").Version)
	})

	t.Run("Counter update failure rolls back booking", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 3))
		store.failDelta = errors.New("disk on fire")
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.Error(t, err)
		assert.Equal(t, 0, store.bookingCount())
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: frees the seat and resets application status", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 2))
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, "user-1"))

		assert.Equal(t, 0, store.bookingCount())
		state := store.slotState("slot-1")
		assert.Equal(t, 0, state.CurrentBookings)
		assert.Equal(t, int64(2), state.Version)
		assert.Equal(t, application.StatusPending, store.status("user-1"))
	})

	t.Run("No active booking: not found", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store)

		err := svc.Cancel(ctx, "user-1")
		assert.ErrorIs(t, err, ErrNotBooked)
	})

	t.Run("Cancel then rebook: freed seat is claimable again", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 1))
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		// Slot is now full for everyone else.
		_, _, err = svc.Reserve(ctx, "user-2", "slot-1")
		require.ErrorIs(t, err, ErrSlotFull)

		require.NoError(t, svc.Cancel(ctx, "user-1"))

		_, _, err = svc.Reserve(ctx, "user-2", "slot-1")
		require.NoError(t, err)
		assert.Equal(t, 1, store.slotState("slot-1").CurrentBookings)
	})

	t.Run("Candidate can switch slots via cancel and rebook", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 2))
		store.addSlot(futureSlot("slot-2", 2))
		svc, _ := newTestService(store)

		_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, "user-1"))

		_, _, err = svc.Reserve(ctx, "user-1", "slot-2")
		require.NoError(t, err)

		assert.Equal(t, 0, store.slotState("slot-1").CurrentBookings)
		assert.Equal(t, 1, store.slotState("slot-2").CurrentBookings)
		assert.Equal(t, application.StatusSlotSelected, store.status("user-1"))
	})
}

func TestMyBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns booking with its slot", func(t *testing.T) {
		store := newMemStore()
		store.addSlot(futureSlot("slot-1", 2))
		svc, _ := newTestService(store)

		booked, _, err := svc.Reserve(ctx, "user-1", "slot-1")
		require.NoError(t, err)

		mb, err := svc.MyBooking(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, booked.ID, mb.Booking.ID)
		assert.Equal(t, "slot-1", mb.Slot.ID)
		assert.Equal(t, 1, mb.Slot.CurrentBookings)
	})

	t.Run("No booking: not found", func(t *testing.T) {
		store := newMemStore()
		svc, _ := newTestService(store)

		_, err := svc.MyBooking(ctx, "user-1")
		assert.ErrorIs(t, err, ErrNotBooked)
	})
}

func TestSummariesForSlot(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	store.addSlot(futureSlot("slot-1", 3))
	store.users["user-1"] = memUser{Name: "Ada", Email: "ada@example.com"}
	svc, _ := newTestService(store)

	_, _, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)

	summaries, err := svc.SummariesForSlot(ctx, "slot-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Ada", summaries[0].UserName)
	assert.Equal(t, "ada@example.com", summaries[0].UserEmail)
}

// failingNotifier always errors so the post-commit email path can be
// exercised without a working mail backend.
type failingNotifier struct{}

func (failingNotifier) Send(context.Context, notifier.Email) error {
	return errors.New("mail backend down")
}

func TestReserveSurvivesNotificationFailure(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	store.addSlot(futureSlot("slot-1", 3))
	store.users["user-1"] = memUser{Name: "Ada", Email: "ada@example.com"}

	users := &stubUserService{users: map[string]*user.User{
		"user-1": {ID: "user-1", Name: "Ada", Email: "ada@example.com", Role: user.RoleCandidate, IsActive: true},
	}}
	svc := NewService(store, &stubSlotService{store: store}, users,
		notifier.NewMailer(failingNotifier{}, "Tech Club", "http://localhost:3000"),
		audit.NopRecorder{}, clock.NewMockClock(testNow))

	b, snapshot, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, 1, snapshot.CurrentBookings)

	// The reservation is committed regardless of the failed email.
	assert.Equal(t, 1, store.bookingCount())
	assert.Equal(t, 1, store.slotState("slot-1").CurrentBookings)
}
