package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clinova/clinic-booking/internal/booking"
	"github.com/clinova/clinic-booking/internal/directory"
	"github.com/clinova/clinic-booking/internal/notify"
	"github.com/clinova/clinic-booking/internal/schedule"
)

// Snapshot is a combined read-only dump of every table, for
// administrative review.
type Snapshot struct {
	GeneratedAt      time.Time                   `json:"generated_at"`
	Patients         []directory.Patient         `json:"patients"`
	Doctors          []schedule.Doctor           `json:"doctors"`
	Availability     []schedule.AvailabilitySlot `json:"availability"`
	Holidays         []schedule.Holiday          `json:"holidays"`
	Bookings         []booking.Booking           `json:"bookings"`
	CommunicationLog []notify.LogEntry           `json:"communication_log"`
}

type Exporter struct {
	patients  directory.Repository
	schedules schedule.Repository
	bookings  booking.Repository
	sink      notify.Sink
}

func NewExporter(patients directory.Repository, schedules schedule.Repository, bookings booking.Repository, sink notify.Sink) *Exporter {
	return &Exporter{
		patients:  patients,
		schedules: schedules,
		bookings:  bookings,
		sink:      sink,
	}
}

func (e *Exporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{GeneratedAt: time.Now()}
	var err error

	if snap.Patients, err = e.patients.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("snapshot patients: %w", err)
	}
	if snap.Doctors, err = e.schedules.ListDoctors(ctx); err != nil {
		return nil, fmt.Errorf("snapshot doctors: %w", err)
	}
	if snap.Availability, err = e.schedules.ListSlots(ctx); err != nil {
		return nil, fmt.Errorf("snapshot availability: %w", err)
	}
	if snap.Holidays, err = e.schedules.ListHolidays(ctx); err != nil {
		return nil, fmt.Errorf("snapshot holidays: %w", err)
	}
	if snap.Bookings, err = e.bookings.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("snapshot bookings: %w", err)
	}
	if snap.CommunicationLog, err = e.sink.List(ctx); err != nil {
		return nil, fmt.Errorf("snapshot communication log: %w", err)
	}

	return snap, nil
}

// WriteArtifact snapshots all stores to a timestamped JSON file in dir
// and returns the path. The file is written whole then renamed so a
// half-written artifact is never observable.
func (e *Exporter) WriteArtifact(ctx context.Context, dir string) (string, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("clinic-report-%s.json", snap.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize snapshot: %w", err)
	}

	return path, nil
}
