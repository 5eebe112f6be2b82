package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/apperr"
)

type mockLogRepository struct {
	mock.Mock
}

func (m *mockLogRepository) CreateLog(ctx context.Context, input Log) (Log, error) {
	args := m.Called(ctx, input)
	l, _ := args.Get(0).(Log)
	return l, args.Error(1)
}

func (m *mockLogRepository) ListLogs(ctx context.Context, assetID int64) ([]Log, error) {
	args := m.Called(ctx, assetID)
	list, _ := args.Get(0).([]Log)
	return list, args.Error(1)
}

func TestLogService_CreateLog_Validation(t *testing.T) {
	repo := new(mockLogRepository)
	service := NewLogService(repo)
	at := time.Date(2025, time.April, 2, 14, 0, 0, 0, time.UTC)
	negative := decimal.NewFromInt(-5)

	cases := map[string]Log{
		"blank type":    {AssetID: 1, MaintenanceType: " ", Description: "d", PerformedAt: at},
		"blank desc":    {AssetID: 1, MaintenanceType: "repair", Description: "", PerformedAt: at},
		"negative cost": {AssetID: 1, MaintenanceType: "repair", Description: "d", Cost: &negative, PerformedAt: at},
		"no date":       {AssetID: 1, MaintenanceType: "repair", Description: "d"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.CreateLog(context.Background(), input)
			require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
	repo.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}

func TestLogService_CreateLog_Delegates(t *testing.T) {
	repo := new(mockLogRepository)
	service := NewLogService(repo)
	at := time.Date(2025, time.April, 2, 14, 0, 0, 0, time.UTC)

	repo.On("CreateLog", mock.Anything, Log{AssetID: 1, MaintenanceType: "repair", Description: "new fan", PerformedAt: at}).
		Return(Log{ID: 3, AssetID: 1}, nil)

	got, err := service.CreateLog(context.Background(), Log{AssetID: 1, MaintenanceType: " repair", Description: "new fan ", PerformedAt: at})

	require.NoError(t, err)
	require.Equal(t, int64(3), got.ID)
	repo.AssertExpectations(t)
}
