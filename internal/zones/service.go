package zones

import (
	"context"

	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
)

// Service exposes hunger zone reads.
type Service interface {
	List(ctx context.Context) ([]ZoneDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a zone service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ZoneDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hunger zones")
	}
	out := make([]ZoneDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row))
	}
	return out, nil
}
