package schedule

import (
	"fmt"
	"time"
)

// Doctor is immutable reference data.
type Doctor struct {
	DoctorID   string
	DoctorName string
	Location   string
}

// SlotKey is the composite identity of one bookable interval. Dates are
// canonical YYYY-MM-DD and times zero-padded 24h HH:MM, so string
// comparison and lexicographic sorting are correct.
type SlotKey struct {
	DoctorID  string
	Date      string
	SlotStart string
	SlotEnd   string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s:%s:%s-%s", k.DoctorID, k.Date, k.SlotStart, k.SlotEnd)
}

// AvailabilitySlot is one bookable interval. Booked flips false→true at
// most once per confirmed booking; cancellation flips it back.
type AvailabilitySlot struct {
	SlotKey
	Location string
	Booked   bool
}

// Holiday blocks a doctor's date; no slots exist for blocked dates.
type Holiday struct {
	DoctorID string
	Date     string
}

// SlotView is the read-only projection returned to callers listing
// availability.
type SlotView struct {
	SlotStart string
	SlotEnd   string
	Location  string
}

// ValidDate reports whether s is a canonical YYYY-MM-DD date.
func ValidDate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	return err == nil && t.Format("2006-01-02") == s
}

// ValidSlotTime reports whether s is a canonical zero-padded HH:MM time.
func ValidSlotTime(s string) bool {
	t, err := time.Parse("15:04", s)
	return err == nil && t.Format("15:04") == s
}
