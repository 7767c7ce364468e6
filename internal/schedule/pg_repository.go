package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.DoctorID,
		&d.DoctorName,
		&d.Location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanSlot(row pgx.Row) (*AvailabilitySlot, error) {
	var s AvailabilitySlot

	err := row.Scan(
		&s.DoctorID,
		&s.Date,
		&s.SlotStart,
		&s.SlotEnd,
		&s.Location,
		&s.Booked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT doctor_id, doctor_name, location
		FROM doctors
		WHERE doctor_id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) ListAvailable(ctx context.Context, doctorID, date string) ([]SlotView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slot_start, slot_end, location
		FROM availability_slots
		WHERE doctor_id = $1
		  AND date = $2
		  AND booked = FALSE
		ORDER BY slot_start
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SlotView
	for rows.Next() {
		var v SlotView
		if err := rows.Scan(&v.SlotStart, &v.SlotEnd, &v.Location); err != nil {
			return nil, err
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetSlot(ctx context.Context, key SlotKey) (*AvailabilitySlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT doctor_id, date, slot_start, slot_end, location, booked
		FROM availability_slots
		WHERE doctor_id = $1 AND date = $2 AND slot_start = $3 AND slot_end = $4
	`, key.DoctorID, key.Date, key.SlotStart, key.SlotEnd)
	return scanSlot(row)
}

func (r *PgRepository) IsHoliday(ctx context.Context, doctorID, date string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays WHERE doctor_id = $1 AND date = $2
		)
	`, doctorID, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doctor_id, doctor_name, location
		FROM doctors
		ORDER BY doctor_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListSlots(ctx context.Context) ([]AvailabilitySlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doctor_id, date, slot_start, slot_end, location, booked
		FROM availability_slots
		ORDER BY doctor_id, date, slot_start
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AvailabilitySlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListHolidays(ctx context.Context) ([]Holiday, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doctor_id, date
		FROM holidays
		ORDER BY doctor_id, date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.DoctorID, &h.Date); err != nil {
			return nil, err
		}
		result = append(result, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
