package stats

// Overview is the admin dashboard counter set. Every field is computed from
// live table state in a single query round, so the numbers are mutually
// consistent at read time.
type Overview struct {
	TotalCandidates     int `json:"total_candidates"`
	TotalSlots          int `json:"total_slots"`
	AvailableSlots      int `json:"available_slots"`
	TotalBookings       int `json:"total_bookings"`
	PendingApplications int `json:"pending_applications"`
	SlotSelected        int `json:"slot_selected"`
}
