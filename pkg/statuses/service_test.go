package statuses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/apperr"
)

type mockStatusRepository struct {
	mock.Mock
}

func (m *mockStatusRepository) CreateStatus(ctx context.Context, input Status) (Status, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Status)
	return s, args.Error(1)
}

func (m *mockStatusRepository) UpdateStatus(ctx context.Context, input Status) (Status, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Status)
	return s, args.Error(1)
}

func (m *mockStatusRepository) DeleteStatus(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStatusRepository) GetStatusByID(ctx context.Context, id int64) (Status, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(Status)
	return s, args.Error(1)
}

func (m *mockStatusRepository) ListStatuses(ctx context.Context, search *string, limit, offset int) ([]Status, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	list, _ := args.Get(0).([]Status)
	return list, args.Get(1).(int64), args.Error(2)
}

func TestStatusService_CreateStatus_Normalizes(t *testing.T) {
	repo := new(mockStatusRepository)
	service := NewStatusService(repo)
	blank := "  "

	repo.On("CreateStatus", mock.Anything, Status{Name: "Lost", Color: "#AABBCC"}).
		Return(Status{ID: 9, Name: "Lost", Color: "#AABBCC"}, nil)

	got, err := service.CreateStatus(context.Background(), Status{Name: " Lost ", Color: "#aabbcc", Description: &blank})

	require.NoError(t, err)
	require.Equal(t, int64(9), got.ID)
	repo.AssertExpectations(t)
}

func TestStatusService_CreateStatus_BlankName(t *testing.T) {
	repo := new(mockStatusRepository)
	service := NewStatusService(repo)

	_, err := service.CreateStatus(context.Background(), Status{Name: " ", Color: "#000000"})

	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "CreateStatus", mock.Anything, mock.Anything)
}

func TestStatusService_UpdateStatus_WorkflowNameIsFixed(t *testing.T) {
	repo := new(mockStatusRepository)
	service := NewStatusService(repo)

	repo.On("GetStatusByID", mock.Anything, int64(2)).Return(Status{ID: 2, Name: InUse, Color: "#2563EB"}, nil)
	repo.On("UpdateStatus", mock.Anything, Status{ID: 2, Name: InUse, Color: "#111111"}).
		Return(Status{ID: 2, Name: InUse, Color: "#111111"}, nil)

	_, err := service.UpdateStatus(context.Background(), Status{ID: 2, Name: "Deployed", Color: "#111111"})
	require.ErrorIs(t, err, ErrWorkflowStatus)

	got, err := service.UpdateStatus(context.Background(), Status{ID: 2, Name: InUse, Color: "#111111"})
	require.NoError(t, err)
	require.Equal(t, "#111111", got.Color)
}

func TestStatusService_DeleteStatus(t *testing.T) {
	repo := new(mockStatusRepository)
	service := NewStatusService(repo)

	repo.On("GetStatusByID", mock.Anything, int64(1)).Return(Status{ID: 1, Name: InStock}, nil)
	repo.On("GetStatusByID", mock.Anything, int64(3)).Return(Status{ID: 3, Name: "Loaned"}, nil)
	repo.On("GetStatusByID", mock.Anything, int64(8)).Return(Status{}, ErrStatusNotFound)
	repo.On("DeleteStatus", mock.Anything, int64(3)).Return(ErrStatusInUse)

	require.ErrorIs(t, service.DeleteStatus(context.Background(), 1), ErrWorkflowStatus)
	require.ErrorIs(t, service.DeleteStatus(context.Background(), 3), ErrStatusInUse)
	require.ErrorIs(t, service.DeleteStatus(context.Background(), 8), ErrStatusNotFound)
	repo.AssertNotCalled(t, "DeleteStatus", mock.Anything, int64(1))
}

func TestStatusService_ListStatuses_Paginates(t *testing.T) {
	repo := new(mockStatusRepository)
	service := NewStatusService(repo)

	repo.On("ListStatuses", mock.Anything, mock.MatchedBy(func(s *string) bool {
		return s != nil && *s == "repair"
	}), 10, 20).Return([]Status{{ID: 3}}, int64(21), nil)

	list, total, err := service.ListStatuses(context.Background(), " repair ", 3, 10)

	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(21), total)
}
