package statuses

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"itams/pkg/apperr"
)

var ErrWorkflowStatus = apperr.New(apperr.KindStateConflict, "status is used by the assignment workflow")

type StatusService interface {
	CreateStatus(ctx context.Context, input Status) (Status, error)
	UpdateStatus(ctx context.Context, input Status) (Status, error)
	DeleteStatus(ctx context.Context, id int64) error
	GetStatusByID(ctx context.Context, id int64) (Status, error)
	ListStatuses(ctx context.Context, search string, page, limit int) ([]Status, int64, error)
}

type statusService struct {
	repo StatusRepository
}

func NewStatusService(repo StatusRepository) StatusService {
	return &statusService{repo: repo}
}

func normalize(s *Status) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return apperr.Validation("name is required")
	}
	s.Color = strings.ToUpper(strings.TrimSpace(s.Color))
	if s.Color == "" {
		s.Color = DefaultColor
	}
	if s.Description != nil && strings.TrimSpace(*s.Description) == "" {
		s.Description = nil
	}
	return nil
}

func (s *statusService) CreateStatus(ctx context.Context, input Status) (Status, error) {
	if err := normalize(&input); err != nil {
		return Status{}, err
	}
	return s.repo.CreateStatus(ctx, input)
}

// UpdateStatus keeps the names assignments rely on; their color and
// description may still change.
func (s *statusService) UpdateStatus(ctx context.Context, input Status) (Status, error) {
	if err := normalize(&input); err != nil {
		return Status{}, err
	}

	current, err := s.repo.GetStatusByID(ctx, input.ID)
	if err != nil {
		return Status{}, err
	}
	if workflowStatus(current.Name) && current.Name != input.Name {
		return Status{}, ErrWorkflowStatus
	}

	return s.repo.UpdateStatus(ctx, input)
}

func (s *statusService) DeleteStatus(ctx context.Context, id int64) error {
	current, err := s.repo.GetStatusByID(ctx, id)
	if err != nil {
		return err
	}
	if workflowStatus(current.Name) {
		return ErrWorkflowStatus
	}

	if err := s.repo.DeleteStatus(ctx, id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int64("status_id", id).Str("name", current.Name).Msg("status.deleted")
	return nil
}

func (s *statusService) GetStatusByID(ctx context.Context, id int64) (Status, error) {
	return s.repo.GetStatusByID(ctx, id)
}

func (s *statusService) ListStatuses(ctx context.Context, search string, page, limit int) ([]Status, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	var filter *string
	if search = strings.TrimSpace(search); search != "" {
		filter = &search
	}
	return s.repo.ListStatuses(ctx, filter, limit, (page-1)*limit)
}
