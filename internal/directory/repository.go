package directory

import (
	"context"
	"errors"
)

var ErrPatientNotFound = errors.New("patient not found")

// Repository contains all DB interactions needed by the directory service.
type Repository interface {
	// ListByDOB returns every patient with the given date of birth, in
	// dataset order. First-match-wins search depends on that ordering.
	ListByDOB(ctx context.Context, dob string) ([]Patient, error)

	GetPatientByID(ctx context.Context, id string) (*Patient, error)

	// Export
	ListAll(ctx context.Context) ([]Patient, error)
}
