package locations

import (
	"context"
	"strings"

	"itams/pkg/apperr"
)

type LocationService interface {
	CreateLocation(ctx context.Context, name string) (Location, error)
	UpdateLocation(ctx context.Context, id int64, name string) (Location, error)
	DeleteLocation(ctx context.Context, id int64) error
	GetLocationByID(ctx context.Context, id int64) (Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
}

type locationService struct {
	repo LocationRepository
}

func NewLocationService(repo LocationRepository) LocationService {
	return &locationService{repo: repo}
}

func (s *locationService) CreateLocation(ctx context.Context, name string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Location{}, apperr.Validation("name is required")
	}
	return s.repo.CreateLocation(ctx, name)
}

func (s *locationService) UpdateLocation(ctx context.Context, id int64, name string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Location{}, apperr.Validation("name is required")
	}
	return s.repo.UpdateLocation(ctx, id, name)
}

func (s *locationService) DeleteLocation(ctx context.Context, id int64) error {
	return s.repo.DeleteLocation(ctx, id)
}

func (s *locationService) GetLocationByID(ctx context.Context, id int64) (Location, error) {
	return s.repo.GetLocationByID(ctx, id)
}

func (s *locationService) ListLocations(ctx context.Context) ([]Location, error) {
	return s.repo.ListLocations(ctx)
}
