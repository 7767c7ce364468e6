package directory

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search looks up a patient by name and date of birth. The date of birth
// must match exactly; the name matches if any query token equals the
// stored first or last name, or the whole query equals "first last".
// The first matching record in dataset order wins; ties are not ranked.
func (s *Service) Search(ctx context.Context, name, dob string) (*Patient, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	tokens := strings.Fields(query)

	candidates, err := s.repo.ListByDOB(ctx, dob)
	if err != nil {
		return nil, fmt.Errorf("list patients by dob: %w", err)
	}

	for _, p := range candidates {
		first := strings.ToLower(p.FirstName)
		last := strings.ToLower(p.LastName)

		if slices.Contains(tokens, first) ||
			slices.Contains(tokens, last) ||
			first+" "+last == query {
			match := p
			return &match, nil
		}
	}

	return nil, ErrPatientNotFound
}

func (s *Service) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := s.repo.GetPatientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}
