package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinova/clinic-booking/internal/booking"
	"github.com/clinova/clinic-booking/internal/directory"
	"github.com/clinova/clinic-booking/internal/export"
	"github.com/clinova/clinic-booking/internal/schedule"
)

// Service interfaces consumed by the handlers; the concrete services in
// internal/{directory,schedule,booking,export} implement them.

type DirectoryService interface {
	Search(ctx context.Context, name, dob string) (*directory.Patient, error)
}

type SlotQueryService interface {
	ListAvailable(ctx context.Context, doctorID, date string) ([]schedule.SlotView, error)
}

type BookingService interface {
	Book(ctx context.Context, patient directory.Patient, doctorID, date, slotStart, slotEnd string) (*booking.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*booking.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*booking.Booking, error)
}

type SnapshotExporter interface {
	Snapshot(ctx context.Context) (*export.Snapshot, error)
}

func searchPatientHandler(svc DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		dob := r.URL.Query().Get("dob")

		if name == "" {
			writeError(w, http.StatusBadRequest, "validation_error", "name is required")
			return
		}
		if !schedule.ValidDate(dob) {
			writeError(w, http.StatusBadRequest, "validation_error", "dob must be YYYY-MM-DD")
			return
		}

		p, err := svc.Search(r.Context(), name, dob)
		if err != nil {
			if errors.Is(err, directory.ErrPatientNotFound) {
				writeError(w, http.StatusNotFound, "patient_not_found", "no patient matches that name and date of birth")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, patientResponse(p))
	}
}

func listSlotsHandler(svc SlotQueryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := chi.URLParam(r, "id")
		date := r.URL.Query().Get("date")

		if !schedule.ValidDate(date) {
			writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
			return
		}

		slots, err := svc.ListAvailable(r.Context(), doctorID, date)
		if err != nil {
			if errors.Is(err, schedule.ErrDoctorNotFound) {
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]SlotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, SlotResponse{
				SlotStart: s.SlotStart,
				SlotEnd:   s.SlotEnd,
				Location:  s.Location,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func bookAppointmentHandler(bookings BookingService, patients DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.PatientName == "" || req.DoctorID == "" {
			writeError(w, http.StatusBadRequest, "validation_error", "patient_name and doctor_id are required")
			return
		}
		if !schedule.ValidDate(req.DOB) || !schedule.ValidDate(req.Date) {
			writeError(w, http.StatusBadRequest, "validation_error", "dob and date must be YYYY-MM-DD")
			return
		}
		if !schedule.ValidSlotTime(req.SlotStart) || !schedule.ValidSlotTime(req.SlotEnd) {
			writeError(w, http.StatusBadRequest, "validation_error", "slot_start and slot_end must be zero-padded HH:MM")
			return
		}

		// Unregistered patients book with a placeholder record.
		patient, err := patients.Search(r.Context(), req.PatientName, req.DOB)
		if err != nil {
			if !errors.Is(err, directory.ErrPatientNotFound) {
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
				return
			}
			placeholder := directory.NewPlaceholder(req.PatientName, req.DOB)
			patient = &placeholder
		}

		b, err := bookings.Book(r.Context(), *patient, req.DoctorID, req.Date, req.SlotStart, req.SlotEnd)
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, bookingResponse(b))
	}
}

func getBookingHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetBooking(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bookingResponse(b))
	}
}

func cancelBookingHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bookingResponse(b))
	}
}

func exportSnapshotHandler(exp SnapshotExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := exp.Snapshot(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, schedule.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", "slot is already booked or does not exist")
	case errors.Is(err, booking.ErrSlotContended):
		writeError(w, http.StatusConflict, "slot_contended", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, booking.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "booking_already_cancelled", err.Error())
	case errors.Is(err, booking.ErrSlotContended):
		writeError(w, http.StatusConflict, "slot_contended", "slot is currently being updated, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func patientResponse(p *directory.Patient) PatientResponse {
	return PatientResponse{
		PatientID:           p.PatientID,
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		DOB:                 p.DOB,
		Email:               p.Email,
		Phone:               p.Phone,
		City:                p.City,
		PreferredDoctorName: p.PreferredDoctorName,
		PreferredLocation:   p.PreferredLocation,
		InsuranceCarrier:    p.InsuranceCarrier,
		InsuranceMemberID:   p.InsuranceMemberID,
	}
}

func bookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.BookingID,
		PatientID:   b.PatientID,
		PatientName: b.PatientName,
		DoctorID:    b.DoctorID,
		DoctorName:  b.DoctorName,
		Date:        b.Date,
		SlotStart:   b.SlotStart,
		SlotEnd:     b.SlotEnd,
		Location:    b.Location,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
