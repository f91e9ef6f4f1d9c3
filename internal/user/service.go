package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/auth"
	"github.com/techclub/recruitment-portal-backend/internal/notifier"
)

const generatedPasswordLength = 12

// Service defines business logic related to users.
type Service interface {
	// RegisterCandidate creates a candidate account with a generated password,
	// opens a pending application, and emails the credentials best-effort.
	RegisterCandidate(ctx context.Context, name, email string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	ActiveCandidateEmails(ctx context.Context) ([]string, error)
}

type service struct {
	repo       Repository
	hasher     auth.PasswordHasher
	appService application.Service
	mailer     *notifier.Mailer
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, appService application.Service, mailer *notifier.Mailer) Service {
	return &service{
		repo:       repo,
		hasher:     hasher,
		appService: appService,
		mailer:     mailer,
	}
}

func (s *service) RegisterCandidate(ctx context.Context, name, email string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, fmt.Errorf("email is required")
	}

	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, fmt.Errorf("name is required")
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	// If the error is something other than "not found", propagate it.
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	password, err := auth.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:        cleanEmail,
		PasswordHash: hash,
		Name:         cleanName,
		Role:         RoleCandidate,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if _, err := s.appService.CreateFor(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("failed to open application: %w", err)
	}

	// Credentials delivery must not block or fail registration.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.SendCredentials(ctx, u.Name, u.Email, password); err != nil {
			log.Printf("failed to send credentials email to %s: %v", u.Email, err)
		}
	}()

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login_at (best effort; do not fail login if update fails).
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		log.Printf("failed to update last login for user %s: %v", u.ID, err)
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ActiveCandidateEmails(ctx context.Context) ([]string, error) {
	return s.repo.ActiveEmailsByRole(ctx, RoleCandidate)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
