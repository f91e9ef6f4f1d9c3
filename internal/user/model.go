package user

import (
	"net/http"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "not_found", "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email_taken", "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "inactive_user", "user is inactive")
)

// Roles known to the portal.
const (
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// User represents a portal account: either a candidate or an administrator.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Filter defines filter options for listing users.
type Filter struct {
	Role     string
	IsActive *bool // Pointer to distinguish between false and not set

	Page     int
	PageSize int
}
