package booking

import (
	"context"
	"errors"

	"github.com/clinova/clinic-booking/internal/schedule"
)

var (
	ErrSlotUnavailable  = errors.New("slot unavailable")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// Repository persists the booking ledger. ReserveSlot and ReleaseSlot
// must be atomic: the availability flip and the ledger append happen in
// one transaction or not at all.
type Repository interface {
	// ReserveSlot flips the slot to booked and appends b in a single
	// transaction. The flip carries a booked=false precondition; when it
	// fails (slot taken, or no such slot) ReserveSlot returns
	// ErrSlotUnavailable and nothing is written. The slot's location is
	// written back into b.
	ReserveSlot(ctx context.Context, key schedule.SlotKey, b *Booking) error

	// ReleaseSlot flips the slot back to unbooked and appends the
	// CANCELLED row in a single transaction.
	ReleaseSlot(ctx context.Context, key schedule.SlotKey, cancelRow *Booking) error

	// GetConfirmed returns the CONFIRMED row for a booking_id that has
	// no CANCELLED row; ErrBookingNotFound or ErrAlreadyCancelled
	// otherwise.
	GetConfirmed(ctx context.Context, bookingID string) (*Booking, error)

	// Export
	ListAll(ctx context.Context) ([]Booking, error)
}
