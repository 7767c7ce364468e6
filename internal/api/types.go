package api

import "time"

type PatientResponse struct {
	PatientID           string `json:"patient_id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	DOB                 string `json:"dob"`
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone,omitempty"`
	City                string `json:"city,omitempty"`
	PreferredDoctorName string `json:"preferred_doctor_name,omitempty"`
	PreferredLocation   string `json:"preferred_location,omitempty"`
	InsuranceCarrier    string `json:"insurance_carrier,omitempty"`
	InsuranceMemberID   string `json:"insurance_member_id,omitempty"`
}

type SlotResponse struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
	Location  string `json:"location"`
}

type BookAppointmentRequest struct {
	PatientName string `json:"patient_name"`
	DOB         string `json:"dob"`
	DoctorID    string `json:"doctor_id"`
	Date        string `json:"date"`
	SlotStart   string `json:"slot_start"`
	SlotEnd     string `json:"slot_end"`
}

type BookingResponse struct {
	BookingID   string    `json:"booking_id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	DoctorID    string    `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	Date        string    `json:"date"`
	SlotStart   string    `json:"slot_start"`
	SlotEnd     string    `json:"slot_end"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
