package booking

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Booking is one row of the append-only ledger. Rows are never mutated;
// a cancellation appends a second row with the same booking_id.
type Booking struct {
	BookingID   string
	PatientID   string
	PatientName string // snapshot at booking time
	DoctorID    string
	DoctorName  string // snapshot at booking time
	Date        string
	SlotStart   string
	SlotEnd     string
	Location    string
	Status      Status
	CreatedAt   time.Time
}

// newBookingID returns a short globally-unique identifier: the first ten
// hex characters of a v4 UUID, uppercased.
func newBookingID() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:5]))
}
