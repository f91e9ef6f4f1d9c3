package announcement

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/notifier"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

type CreateRequest struct {
	Title   string
	Content string
}

type UpdateRequest struct {
	Title   *string
	Content *string
}

type Service interface {
	// Create publishes an announcement and emails every active candidate.
	// The email fan-out is best effort and never fails the publish.
	Create(ctx context.Context, req CreateRequest) (*Announcement, error)
	GetByID(ctx context.Context, id string) (*Announcement, error)
	List(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	userService user.Service
	mailer      *notifier.Mailer
}

func NewService(repo Repository, userService user.Service, mailer *notifier.Mailer) Service {
	return &service{
		repo:        repo,
		userService: userService,
		mailer:      mailer,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Announcement, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}

	a := &Announcement{
		Title:   req.Title,
		Content: req.Content,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	go s.broadcast(a)

	return a, nil
}

// broadcast emails the announcement to all active candidates. Runs detached
// from the request so delivery latency never blocks the admin response.
func (s *service) broadcast(a *Announcement) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	emails, err := s.userService.ActiveCandidateEmails(ctx)
	if err != nil {
		log.Printf("announcement %s: failed to load candidate emails: %v", a.ID, err)
		return
	}
	if len(emails) == 0 {
		return
	}

	if err := s.mailer.SendAnnouncement(ctx, emails, a.Title, a.Content); err != nil {
		log.Printf("announcement %s: failed to send emails: %v", a.ID, err)
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Announcement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		a.Title = *req.Title
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrContentRequired
		}
		a.Content = *req.Content
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
