package audit

import "time"

// Actions recorded by the portal.
const (
	ActionSlotBooked     = "slot_booked"
	ActionSlotCancelled  = "slot_cancelled"
	ActionUserRegistered = "user_registered"
	ActionUserLogin      = "user_login"
)

// Entry is a single audit log record.
type Entry struct {
	ID        string
	UserID    string
	Action    string
	Details   string
	IPAddress string
	CreatedAt time.Time
}
