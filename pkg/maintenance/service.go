package maintenance

import (
	"context"
	"strings"

	"itams/pkg/apperr"
)

type LogService interface {
	CreateLog(ctx context.Context, input Log) (Log, error)
	ListLogs(ctx context.Context, assetID int64) ([]Log, error)
}

type logService struct {
	repo LogRepository
}

func NewLogService(repo LogRepository) LogService {
	return &logService{repo: repo}
}

func (s *logService) CreateLog(ctx context.Context, input Log) (Log, error) {
	input.MaintenanceType = strings.TrimSpace(input.MaintenanceType)
	input.Description = strings.TrimSpace(input.Description)
	if input.MaintenanceType == "" {
		return Log{}, apperr.Validation("maintenance_type is required")
	}
	if input.Description == "" {
		return Log{}, apperr.Validation("description is required")
	}
	if input.Cost != nil && input.Cost.IsNegative() {
		return Log{}, apperr.Validation("cost cannot be negative")
	}
	if input.PerformedAt.IsZero() {
		return Log{}, apperr.Validation("performed_at is required")
	}
	return s.repo.CreateLog(ctx, input)
}

func (s *logService) ListLogs(ctx context.Context, assetID int64) ([]Log, error) {
	return s.repo.ListLogs(ctx, assetID)
}
