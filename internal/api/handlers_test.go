package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinova/clinic-booking/internal/booking"
	"github.com/clinova/clinic-booking/internal/directory"
	"github.com/clinova/clinic-booking/internal/export"
	"github.com/clinova/clinic-booking/internal/schedule"
)

type stubDirectory struct {
	patient *directory.Patient
	err     error
}

func (s *stubDirectory) Search(ctx context.Context, name, dob string) (*directory.Patient, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.patient, nil
}

type stubSlots struct {
	slots []schedule.SlotView
	err   error
}

func (s *stubSlots) ListAvailable(ctx context.Context, doctorID, date string) ([]schedule.SlotView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.slots, nil
}

type stubBookings struct {
	booking    *booking.Booking
	err        error
	gotPatient directory.Patient
}

func (s *stubBookings) Book(ctx context.Context, patient directory.Patient, doctorID, date, slotStart, slotEnd string) (*booking.Booking, error) {
	s.gotPatient = patient
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubBookings) Cancel(ctx context.Context, bookingID string) (*booking.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubBookings) GetBooking(ctx context.Context, bookingID string) (*booking.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

type stubExporter struct {
	snap *export.Snapshot
	err  error
}

func (s *stubExporter) Snapshot(ctx context.Context) (*export.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func newTestRouter(dir *stubDirectory, slots *stubSlots, bookings *stubBookings, exp *stubExporter) http.Handler {
	return NewRouter(RouterConfig{
		Directory: dir,
		Slots:     slots,
		Bookings:  bookings,
		Exporter:  exp,
		Env:       "test",
		Version:   "test",
	})
}

var testPatient = &directory.Patient{
	PatientID: "P001",
	FirstName: "Jane",
	LastName:  "Doe",
	DOB:       "1990-01-01",
	Email:     "jane@example.com",
}

var testBooking = &booking.Booking{
	BookingID:   "A1B2C3D4E5",
	PatientID:   "P001",
	PatientName: "Jane Doe",
	DoctorID:    "D1",
	DoctorName:  "Dr. Lee",
	Date:        "2024-06-01",
	SlotStart:   "09:00",
	SlotEnd:     "09:30",
	Location:    "Clinic A",
	Status:      booking.StatusConfirmed,
	CreatedAt:   time.Now(),
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchPatientFound(t *testing.T) {
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/patients/search?name=Jane+Doe&dob=1990-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PatientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "P001", resp.PatientID)
}

func TestSearchPatientNotFound(t *testing.T) {
	router := newTestRouter(&stubDirectory{err: directory.ErrPatientNotFound}, &stubSlots{}, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/patients/search?name=Jane+Smith&dob=1990-01-01", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "patient_not_found", resp.Error)
}

func TestSearchPatientRejectsBadDOB(t *testing.T) {
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/patients/search?name=Jane&dob=01-01-1990", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSlots(t *testing.T) {
	slots := &stubSlots{slots: []schedule.SlotView{
		{SlotStart: "09:00", SlotEnd: "09:30", Location: "Clinic A"},
	}}
	router := newTestRouter(&stubDirectory{}, slots, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/doctors/D1/slots?date=2024-06-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []SlotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, SlotResponse{SlotStart: "09:00", SlotEnd: "09:30", Location: "Clinic A"}, resp[0])
}

func TestListSlotsUnknownDoctor(t *testing.T) {
	router := newTestRouter(&stubDirectory{}, &stubSlots{err: schedule.ErrDoctorNotFound}, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/doctors/D9/slots?date=2024-06-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSlotsRejectsBadDate(t *testing.T) {
	router := newTestRouter(&stubDirectory{}, &stubSlots{}, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/doctors/D1/slots?date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

const bookBody = `{
	"patient_name": "Jane Doe",
	"dob": "1990-01-01",
	"doctor_id": "D1",
	"date": "2024-06-01",
	"slot_start": "09:00",
	"slot_end": "09:30"
}`

func TestBookAppointment(t *testing.T) {
	bookings := &stubBookings{booking: testBooking}
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, bookings, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", bookBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A1B2C3D4E5", resp.BookingID)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "P001", bookings.gotPatient.PatientID)
}

func TestBookAppointmentForUnregisteredPatientUsesPlaceholder(t *testing.T) {
	bookings := &stubBookings{booking: testBooking}
	router := newTestRouter(&stubDirectory{err: directory.ErrPatientNotFound}, &stubSlots{}, bookings, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", bookBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, directory.NewPatientID, bookings.gotPatient.PatientID)
	assert.Equal(t, "Jane", bookings.gotPatient.FirstName)
	assert.Equal(t, "Doe", bookings.gotPatient.LastName)
}

func TestBookAppointmentSlotUnavailable(t *testing.T) {
	bookings := &stubBookings{err: booking.ErrSlotUnavailable}
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, bookings, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", bookBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_unavailable", resp.Error)
}

func TestBookAppointmentContended(t *testing.T) {
	bookings := &stubBookings{err: booking.ErrSlotContended}
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, bookings, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", bookBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_contended", resp.Error)
}

func TestBookAppointmentRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, &stubBookings{}, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookAppointmentRejectsBadSlotTime(t *testing.T) {
	router := newTestRouter(&stubDirectory{patient: testPatient}, &stubSlots{}, &stubBookings{}, &stubExporter{})

	body := strings.Replace(bookBody, "09:00", "9am", 1)
	rec := doRequest(t, router, http.MethodPost, "/bookings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBooking(t *testing.T) {
	router := newTestRouter(&stubDirectory{}, &stubSlots{}, &stubBookings{booking: testBooking}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/bookings/A1B2C3D4E5", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBookingNotFound(t *testing.T) {
	router := newTestRouter(&stubDirectory{}, &stubSlots{}, &stubBookings{err: booking.ErrBookingNotFound}, &stubExporter{})

	rec := doRequest(t, router, http.MethodGet, "/bookings/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelBooking(t *testing.T) {
	cancelled := *testBooking
	cancelled.Status = booking.StatusCancelled
	router := newTestRouter(&stubDirectory{}, &stubSlots{}, &stubBookings{booking: &cancelled}, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings/A1B2C3D4E5/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	router := newTestRouter(&stubDirectory{}, &stubSlots{}, &stubBookings{err: booking.ErrAlreadyCancelled}, &stubExporter{})

	rec := doRequest(t, router, http.MethodPost, "/bookings/A1B2C3D4E5/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExportSnapshot(t *testing.T) {
	snap := &export.Snapshot{
		GeneratedAt: time.Now(),
		Doctors:     []schedule.Doctor{{DoctorID: "D1", DoctorName: "Dr. Lee", Location: "Clinic A"}},
		Bookings:    []booking.Booking{*testBooking},
	}
	router := newTestRouter(&stubDirectory{}, &stubSlots{}, &stubBookings{}, &stubExporter{snap: snap})

	rec := doRequest(t, router, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got export.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Doctors, 1)
	assert.Equal(t, "D1", got.Doctors[0].DoctorID)
	require.Len(t, got.Bookings, 1)
	assert.Equal(t, "A1B2C3D4E5", got.Bookings[0].BookingID)
}
