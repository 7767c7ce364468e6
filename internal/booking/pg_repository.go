package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinova/clinic-booking/internal/schedule"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const bookingColumns = `
	booking_id, patient_id, patient_name, doctor_id, doctor_name,
	date, slot_start, slot_end, location, status, created_at
`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking

	err := row.Scan(
		&b.BookingID,
		&b.PatientID,
		&b.PatientName,
		&b.DoctorID,
		&b.DoctorName,
		&b.Date,
		&b.SlotStart,
		&b.SlotEnd,
		&b.Location,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *PgRepository) ReserveSlot(ctx context.Context, key schedule.SlotKey, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The booked=false precondition makes the flip a native atomic
	// compare-and-set: a stale or already-taken key matches no row.
	err = tx.QueryRow(ctx, `
		UPDATE availability_slots
		SET booked = TRUE
		WHERE doctor_id = $1 AND date = $2 AND slot_start = $3 AND slot_end = $4
		  AND booked = FALSE
		RETURNING location
	`, key.DoctorID, key.Date, key.SlotStart, key.SlotEnd).Scan(&b.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("flip slot: %w", err)
	}

	if err := insertBooking(ctx, tx, b); err != nil {
		return fmt.Errorf("append booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reserve tx: %w", err)
	}

	return nil
}

func (r *PgRepository) ReleaseSlot(ctx context.Context, key schedule.SlotKey, cancelRow *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Guard against releasing a slot that was re-booked by someone else
	// since the caller loaded the CONFIRMED row.
	var holder string
	err = tx.QueryRow(ctx, `
		SELECT booking_id
		FROM bookings
		WHERE doctor_id = $1 AND date = $2 AND slot_start = $3 AND slot_end = $4
		  AND status = 'CONFIRMED'
		ORDER BY id DESC
		LIMIT 1
	`, key.DoctorID, key.Date, key.SlotStart, key.SlotEnd).Scan(&holder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("load slot holder: %w", err)
	}
	if holder != cancelRow.BookingID {
		return ErrBookingNotFound
	}

	tag, err := tx.Exec(ctx, `
		UPDATE availability_slots
		SET booked = FALSE
		WHERE doctor_id = $1 AND date = $2 AND slot_start = $3 AND slot_end = $4
		  AND booked = TRUE
	`, key.DoctorID, key.Date, key.SlotStart, key.SlotEnd)
	if err != nil {
		return fmt.Errorf("unflip slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	if err := insertBooking(ctx, tx, cancelRow); err != nil {
		return fmt.Errorf("append cancel row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit release tx: %w", err)
	}

	return nil
}

func insertBooking(ctx context.Context, tx pgx.Tx, b *Booking) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		b.BookingID,
		b.PatientID,
		b.PatientName,
		b.DoctorID,
		b.DoctorName,
		b.Date,
		b.SlotStart,
		b.SlotEnd,
		b.Location,
		b.Status,
		b.CreatedAt,
	)
	return err
}

func (r *PgRepository) GetConfirmed(ctx context.Context, bookingID string) (*Booking, error) {
	var cancelled bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE booking_id = $1 AND status = 'CANCELLED'
		)
	`, bookingID).Scan(&cancelled)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, ErrAlreadyCancelled
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE booking_id = $1 AND status = 'CONFIRMED'
	`, bookingID)
	return scanBooking(row)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
