package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSummaryRepository struct {
	mock.Mock
}

func (m *mockSummaryRepository) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]CategorySummary)
	return list, args.Error(1)
}

func (m *mockSummaryRepository) Totals(ctx context.Context) (int64, int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func TestSummaryService_GetSummary(t *testing.T) {
	repo := new(mockSummaryRepository)
	service := NewSummaryService(repo)

	repo.On("CategorySummaries", mock.Anything).Return([]CategorySummary{{CategoryID: 1, CategoryName: "Laptops", InUse: 3, Total: 4}}, nil)
	repo.On("Totals", mock.Anything).Return(int64(10), int64(6), int64(1), nil)

	got, err := service.GetSummary(context.Background())

	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	require.Equal(t, int64(10), got.TotalAssets)
	require.Equal(t, int64(6), got.Unassigned)
	require.Equal(t, int64(1), got.OpenAudits)
}

func TestSummaryService_GetSummary_PropagatesError(t *testing.T) {
	repo := new(mockSummaryRepository)
	service := NewSummaryService(repo)

	repo.On("CategorySummaries", mock.Anything).Return(nil, errors.New("boom"))

	_, err := service.GetSummary(context.Background())

	require.Error(t, err)
	repo.AssertNotCalled(t, "Totals", mock.Anything)
}
