package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgSink struct {
	pool *pgxpool.Pool
}

func NewPgSink(pool *pgxpool.Pool) *PgSink {
	return &PgSink{pool: pool}
}

func (s *PgSink) Append(ctx context.Context, entry LogEntry) error {
	var bookingID *string
	if entry.BookingID != "" {
		bookingID = &entry.BookingID
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO communication_log (timestamp, channel, recipient, subject, message, booking_id)
		VALUES (COALESCE($1, now()), $2, $3, $4, $5, $6)
	`, nullableTime(entry.Timestamp), entry.Channel, entry.Recipient, entry.Subject, entry.Message, bookingID)
	if err != nil {
		return fmt.Errorf("append communication log: %w", err)
	}

	return nil
}

func (s *PgSink) List(ctx context.Context) ([]LogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT timestamp, channel, recipient, subject, message, COALESCE(booking_id, '')
		FROM communication_log
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.Timestamp, &e.Channel, &e.Recipient, &e.Subject, &e.Message, &e.BookingID); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
