package announcement

import (
	"net/http"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "not_found", "announcement not found")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, "validation_error", "title is required")
	ErrContentRequired = apperror.New(http.StatusBadRequest, "validation_error", "content is required")
)

// Announcement is a portal-wide notice published by an admin. Publishing one
// also emails every active candidate.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing announcements.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
