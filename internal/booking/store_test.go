package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
)

// memStore is an in-memory Store. A single mutex serializes transactions the
// way the row lock serializes contenders in Postgres, and a pre-transaction
// snapshot provides rollback, so the coordinator sees the same atomicity and
// mutual exclusion guarantees as the real store.
type memStore struct {
	mu       sync.Mutex
	slots    map[string]*slot.Slot
	bookings map[string]*Booking // by booking id
	statuses map[string]application.Status
	users    map[string]memUser // for summaries
	nextID   int

	failStatus error // injected SetApplicationStatus failure
	failDelta  error // injected ApplySlotDelta failure
}

type memUser struct {
	Name  string
	Email string
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[string]*slot.Slot),
		bookings: make(map[string]*Booking),
		statuses: make(map[string]application.Status),
		users:    make(map[string]memUser),
	}
}

func (s *memStore) addSlot(sl *slot.Slot) {
	cp := *sl
	s.slots[sl.ID] = &cp
}

func (s *memStore) slotState(id string) slot.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.slots[id]
}

func (s *memStore) status(userID string) application.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[userID]
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapSlots := make(map[string]*slot.Slot, len(s.slots))
	for k, v := range s.slots {
		cp := *v
		snapSlots[k] = &cp
	}
	snapBookings := make(map[string]*Booking, len(s.bookings))
	for k, v := range s.bookings {
		cp := *v
		snapBookings[k] = &cp
	}
	snapStatuses := make(map[string]application.Status, len(s.statuses))
	for k, v := range s.statuses {
		snapStatuses[k] = v
	}

	if err := fn(&memTx{store: s}); err != nil {
		s.slots = snapSlots
		s.bookings = snapBookings
		s.statuses = snapStatuses
		return err
	}
	return nil
}

func (s *memStore) GetActiveByUserID(_ context.Context, userID string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByUser(userID)
}

func (s *memStore) SummariesBySlot(_ context.Context, slotID string) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Summary
	for _, b := range s.bookings {
		if b.SlotID != slotID {
			continue
		}
		u := s.users[b.UserID]
		out = append(out, Summary{UserName: u.Name, UserEmail: u.Email, BookedAt: b.BookedAt})
	}
	return out, nil
}

// findByUser assumes the mutex is held.
func (s *memStore) findByUser(userID string) (*Booking, error) {
	for _, b := range s.bookings {
		if b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotBooked
}

type memTx struct {
	store *memStore
}

func (t *memTx) LockSlot(_ context.Context, slotID string) (*slot.Slot, error) {
	sl, ok := t.store.slots[slotID]
	if !ok {
		return nil, slot.ErrNotFound
	}
	cp := *sl
	return &cp, nil
}

func (t *memTx) Insert(_ context.Context, b *Booking) error {
	if _, err := t.store.findByUser(b.UserID); err == nil {
		// Same rejection the unique index on user_id produces.
		return ErrAlreadyBooked
	}

	t.store.nextID++
	b.ID = fmt.Sprintf("booking-%d", t.store.nextID)
	b.BookedAt = time.Now().UTC()

	cp := *b
	t.store.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) GetActiveByUserID(_ context.Context, userID string) (*Booking, error) {
	return t.store.findByUser(userID)
}

func (t *memTx) Delete(_ context.Context, bookingID string) error {
	if _, ok := t.store.bookings[bookingID]; !ok {
		return ErrNotBooked
	}
	delete(t.store.bookings, bookingID)
	return nil
}

func (t *memTx) ApplySlotDelta(_ context.Context, slotID string, delta int) error {
	if t.store.failDelta != nil {
		return t.store.failDelta
	}

	sl, ok := t.store.slots[slotID]
	if !ok {
		return slot.ErrNotFound
	}

	next := sl.CurrentBookings + delta
	if next < 0 || next > sl.Capacity {
		// Same rejection the check constraint on current_bookings produces.
		return fmt.Errorf("current_bookings out of range: %d", next)
	}

	sl.CurrentBookings = next
	sl.Version++
	sl.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *memTx) SetApplicationStatus(_ context.Context, userID string, status application.Status) error {
	if t.store.failStatus != nil {
		return t.store.failStatus
	}
	t.store.statuses[userID] = status
	return nil
}
