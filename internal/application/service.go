package application

import "context"

type Service interface {
	// CreateFor opens a pending application for a newly registered candidate.
	CreateFor(ctx context.Context, userID string) (*Application, error)
	GetByUserID(ctx context.Context, userID string) (*Application, error)
	// SetStatus is the admin-facing status transition.
	SetStatus(ctx context.Context, userID string, status Status) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateFor(ctx context.Context, userID string) (*Application, error) {
	a := &Application{
		UserID: userID,
		Status: StatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*Application, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) SetStatus(ctx context.Context, userID string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, userID, status)
}
