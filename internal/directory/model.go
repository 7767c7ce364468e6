package directory

import "strings"

// NewPatientID is the sentinel patient_id used for walk-ins that have no
// record in the directory yet.
const NewPatientID = "NEW"

// Patient is immutable reference data loaded from the clinic dataset.
type Patient struct {
	PatientID           string
	FirstName           string
	LastName            string
	DOB                 string // canonical YYYY-MM-DD, compared as a string
	Email               string
	Phone               string
	City                string
	PreferredDoctorName string
	PreferredLocation   string
	InsuranceCarrier    string
	InsuranceMemberID   string
}

// FullName returns "First Last" for ledger snapshots and notifications.
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// NewPlaceholder builds an unregistered patient record from raw input.
// The name is split into first/last at the first whitespace.
func NewPlaceholder(rawName, dob string) Patient {
	name := strings.TrimSpace(rawName)
	first, last := name, ""
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		first = name[:i]
		last = strings.TrimSpace(name[i+1:])
	}
	return Patient{
		PatientID: NewPatientID,
		FirstName: first,
		LastName:  last,
		DOB:       dob,
	}
}
