package slot

import (
	"context"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
)

type CreateRequest struct {
	Date      time.Time
	StartTime string // HH:MM or HH:MM:SS
	EndTime   string
	Capacity  int
	IsOpen    bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Slot, error)
	GetByID(ctx context.Context, id string) (*Slot, error)
	List(ctx context.Context, filter Filter) ([]*Slot, error)
	SetOpen(ctx context.Context, id string, open bool) (*Slot, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{repo: repo, clock: clk}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Slot, error) {
	start, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	end, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	// Capacity is fixed at creation; there is no resize operation.
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, ErrPastDate
	}

	sl := &Slot{
		Date:      date,
		StartTime: start.Format("15:04:05"),
		EndTime:   end.Format("15:04:05"),
		Capacity:  req.Capacity,
		IsOpen:    req.IsOpen,
	}

	if err := s.repo.Create(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Slot, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) SetOpen(ctx context.Context, id string, open bool) (*Slot, error) {
	// Closing a slot only blocks new bookings; existing bookings stay.
	if err := s.repo.SetOpen(ctx, id, open); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
