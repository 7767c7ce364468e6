package schedule

import (
	"context"
	"errors"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrSlotNotFound   = errors.New("slot not found")
)

// Repository owns the doctors/availability/holidays dataset. All slot
// state transitions go through here.
type Repository interface {
	GetDoctorByID(ctx context.Context, id string) (*Doctor, error)

	// ListAvailable returns unbooked slots for a doctor on one date,
	// ascending by slot_start.
	ListAvailable(ctx context.Context, doctorID, date string) ([]SlotView, error)

	GetSlot(ctx context.Context, key SlotKey) (*AvailabilitySlot, error)

	IsHoliday(ctx context.Context, doctorID, date string) (bool, error)

	// Export
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListSlots(ctx context.Context) ([]AvailabilitySlot, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)
}
