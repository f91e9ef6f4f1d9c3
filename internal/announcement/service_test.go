package announcement

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techclub/recruitment-portal-backend/internal/notifier"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

type fakeRepo struct {
	mu     sync.Mutex
	items  map[string]*Announcement
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*Announcement)}
}

func (r *fakeRepo) Create(_ context.Context, a *Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = fmt.Sprintf("ann-%d", r.nextID)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, _ Filter) ([]*Announcement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Announcement
	for _, a := range r.items {
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, a *Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	cp.UpdatedAt = time.Now().UTC()
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type stubUserService struct {
	emails []string
}

func (s *stubUserService) RegisterCandidate(context.Context, string, string) (*user.User, error) {
	return nil, nil
}

func (s *stubUserService) Login(context.Context, string, string) (*user.User, error) {
	return nil, nil
}

func (s *stubUserService) GetByID(context.Context, string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (s *stubUserService) List(context.Context, user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (s *stubUserService) ActiveCandidateEmails(context.Context) ([]string, error) {
	return s.emails, nil
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []notifier.Email
}

func (n *captureNotifier) Send(_ context.Context, e notifier.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, e)
	return nil
}

func (n *captureNotifier) emails() []notifier.Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifier.Email(nil), n.sent...)
}

func newTestService(candidates []string) (Service, *fakeRepo, *captureNotifier) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	mailer := notifier.NewMailer(capture, "Tech Club", "http://localhost:3000")
	svc := NewService(repo, &stubUserService{emails: candidates}, mailer)
	return svc, repo, capture
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestCreateAnnouncement(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: persisted and broadcast to active candidates", func(t *testing.T) {
		svc, repo, capture := newTestService([]string{"ada@example.com", "grace@example.com"})

		a, err := svc.Create(ctx, CreateRequest{Title: "Results published", Content: "Check your status."})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.Len(t, repo.items, 1)

		waitFor(t, func() bool { return len(capture.emails()) == 1 })
		sent := capture.emails()[0]
		assert.ElementsMatch(t, []string{"ada@example.com", "grace@example.com"}, sent.To)
		assert.Contains(t, sent.Subject, "Results published")
	})

	t.Run("No candidates: publish succeeds without sending", func(t *testing.T) {
		svc, repo, capture := newTestService(nil)

		_, err := svc.Create(ctx, CreateRequest{Title: "Hello", Content: "World"})
		require.NoError(t, err)
		assert.Len(t, repo.items, 1)

		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, capture.emails())
	})

	t.Run("Blank title or content rejected", func(t *testing.T) {
		svc, repo, _ := newTestService(nil)

		_, err := svc.Create(ctx, CreateRequest{Title: "  ", Content: "body"})
		assert.ErrorIs(t, err, ErrTitleRequired)

		_, err = svc.Create(ctx, CreateRequest{Title: "title", Content: ""})
		assert.ErrorIs(t, err, ErrContentRequired)

		assert.Empty(t, repo.items)
	})
}

func TestUpdateAnnouncement(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(nil)

	a, err := svc.Create(ctx, CreateRequest{Title: "Old title", Content: "Old content"})
	require.NoError(t, err)

	t.Run("Partial update keeps the other field", func(t *testing.T) {
		title := "New title"
		got, err := svc.Update(ctx, a.ID, UpdateRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
		assert.Equal(t, "Old content", got.Content)
	})

	t.Run("Blank value rejected", func(t *testing.T) {
		blank := "  "
		_, err := svc.Update(ctx, a.ID, UpdateRequest{Content: &blank})
		assert.ErrorIs(t, err, ErrContentRequired)
	})

	t.Run("Unknown id: not found", func(t *testing.T) {
		title := "x"
		_, err := svc.Update(ctx, "missing", UpdateRequest{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteAnnouncement(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(nil)

	a, err := svc.Create(ctx, CreateRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Empty(t, repo.items)

	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)
}
