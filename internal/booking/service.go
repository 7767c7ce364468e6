package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clinova/clinic-booking/internal/directory"
	"github.com/clinova/clinic-booking/internal/notify"
	redisclient "github.com/clinova/clinic-booking/internal/redis"
	"github.com/clinova/clinic-booking/internal/schedule"
)

var (
	ErrInvalidInput  = errors.New("invalid booking input")
	ErrSlotContended = errors.New("slot is currently being booked, please retry")
)

type Service struct {
	repo      Repository
	schedules schedule.Repository
	locker    redisclient.Locker
	sink      notify.Sink
}

func NewService(repo Repository, schedules schedule.Repository, locker redisclient.Locker, sink notify.Sink) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		locker:    locker,
		sink:      sink,
	}
}

// Book reserves one slot for one patient. The slot lock serializes
// attempts for the same key across all processes; inside it the flip and
// the ledger append commit as one transaction, so a caller that saw the
// slot as available moments earlier still loses cleanly if someone else
// committed first. The confirmation notification is sent after the lock
// is released and never fails the booking.
func (s *Service) Book(ctx context.Context, patient directory.Patient, doctorID, date, slotStart, slotEnd string) (*Booking, error) {
	if !schedule.ValidDate(date) {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, date)
	}
	if !schedule.ValidSlotTime(slotStart) || !schedule.ValidSlotTime(slotEnd) {
		return nil, fmt.Errorf("%w: slot times must be zero-padded HH:MM", ErrInvalidInput)
	}

	doctor, err := s.schedules.GetDoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, schedule.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	holiday, err := s.schedules.IsHoliday(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("check holiday: %w", err)
	}
	if holiday {
		return nil, ErrSlotUnavailable
	}

	key := schedule.SlotKey{
		DoctorID:  doctorID,
		Date:      date,
		SlotStart: slotStart,
		SlotEnd:   slotEnd,
	}

	b := &Booking{
		BookingID:   newBookingID(),
		PatientID:   patient.PatientID,
		PatientName: patient.FullName(),
		DoctorID:    doctor.DoctorID,
		DoctorName:  doctor.DoctorName,
		Date:        date,
		SlotStart:   slotStart,
		SlotEnd:     slotEnd,
		Status:      StatusConfirmed,
		CreatedAt:   time.Now(),
	}

	err = s.locker.WithSlotLock(ctx, key.String(), func(lockCtx context.Context) error {
		return s.repo.ReserveSlot(lockCtx, key, b)
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		return nil, err
	}

	s.notifyConfirmed(ctx, patient, b)

	return b, nil
}

// Cancel flips a booked slot back to available and appends a CANCELLED
// ledger row. The original CONFIRMED row is never touched.
func (s *Service) Cancel(ctx context.Context, bookingID string) (*Booking, error) {
	confirmed, err := s.repo.GetConfirmed(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	key := schedule.SlotKey{
		DoctorID:  confirmed.DoctorID,
		Date:      confirmed.Date,
		SlotStart: confirmed.SlotStart,
		SlotEnd:   confirmed.SlotEnd,
	}

	cancelRow := *confirmed
	cancelRow.Status = StatusCancelled
	cancelRow.CreatedAt = time.Now()

	err = s.locker.WithSlotLock(ctx, key.String(), func(lockCtx context.Context) error {
		return s.repo.ReleaseSlot(lockCtx, key, &cancelRow)
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		return nil, err
	}

	return &cancelRow, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	return s.repo.GetConfirmed(ctx, bookingID)
}

func (s *Service) notifyConfirmed(ctx context.Context, patient directory.Patient, b *Booking) {
	recipient := patient.Email
	if recipient == "" {
		recipient = notify.UnknownRecipient
	}

	entry := notify.LogEntry{
		Timestamp: time.Now(),
		Channel:   notify.ChannelEmail,
		Recipient: recipient,
		Subject:   "Appointment Confirmed",
		Message: fmt.Sprintf(
			"Dear %s, your appointment with %s on %s from %s to %s at %s is confirmed. Reference: %s.",
			b.PatientName, b.DoctorName, b.Date, b.SlotStart, b.SlotEnd, b.Location, b.BookingID,
		),
		BookingID: b.BookingID,
	}

	if err := s.sink.Append(ctx, entry); err != nil {
		log.Printf("failed to append confirmation notification for booking %s: %v", b.BookingID, err)
	}
}
