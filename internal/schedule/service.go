package schedule

import (
	"context"
	"fmt"
)

// QueryService computes the available-slot view. Read-only: results
// always reflect current store state, nothing is cached.
type QueryService struct {
	repo Repository
}

func NewQueryService(repo Repository) *QueryService {
	return &QueryService{repo: repo}
}

// ListAvailable returns the open slots for a doctor on a date, ascending
// by slot_start. Callers may re-query at any time.
func (s *QueryService) ListAvailable(ctx context.Context, doctorID, date string) ([]SlotView, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListAvailable(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}

	return slots, nil
}

func (s *QueryService) GetDoctor(ctx context.Context, doctorID string) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, doctorID)
}
