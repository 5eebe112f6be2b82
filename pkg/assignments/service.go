package assignments

import (
	"context"

	"github.com/rs/zerolog"

	"itams/pkg/apperr"
)

type AssignmentService interface {
	Assign(ctx context.Context, assetID, userID, actorID int64, notes *string) (Assignment, error)
	Unassign(ctx context.Context, assetID, actorID int64) (Assignment, error)
	ListAssignments(ctx context.Context, assetID int64) ([]Assignment, error)
}

type assignmentService struct {
	repo AssignmentRepository
}

func NewAssignmentService(repo AssignmentRepository) AssignmentService {
	return &assignmentService{repo: repo}
}

// Assign hands the asset to userID. Any open assignment is closed first, so
// assign and reassign are the same operation.
func (s *assignmentService) Assign(ctx context.Context, assetID, userID, actorID int64, notes *string) (Assignment, error) {
	if userID <= 0 {
		return Assignment{}, apperr.Validation("user_id must be positive")
	}
	a, err := s.repo.Assign(ctx, assetID, userID, actorID, notes)
	if err != nil {
		return Assignment{}, err
	}
	zerolog.Ctx(ctx).Info().
		Int64("asset_id", assetID).
		Int64("user_id", userID).
		Int64("assignment_id", a.ID).
		Msg("asset.assigned")
	return a, nil
}

func (s *assignmentService) Unassign(ctx context.Context, assetID, actorID int64) (Assignment, error) {
	a, err := s.repo.Unassign(ctx, assetID, actorID)
	if err != nil {
		return Assignment{}, err
	}
	zerolog.Ctx(ctx).Info().
		Int64("asset_id", assetID).
		Int64("user_id", a.UserID).
		Msg("asset.unassigned")
	return a, nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, assetID int64) ([]Assignment, error) {
	return s.repo.ListAssignments(ctx, assetID)
}
