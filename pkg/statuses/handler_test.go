package statuses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/response"
)

type mockStatusService struct {
	mock.Mock
}

func (m *mockStatusService) CreateStatus(ctx context.Context, input Status) (Status, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Status)
	return s, args.Error(1)
}

func (m *mockStatusService) UpdateStatus(ctx context.Context, input Status) (Status, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Status)
	return s, args.Error(1)
}

func (m *mockStatusService) DeleteStatus(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStatusService) GetStatusByID(ctx context.Context, id int64) (Status, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(Status)
	return s, args.Error(1)
}

func (m *mockStatusService) ListStatuses(ctx context.Context, search string, page, limit int) ([]Status, int64, error) {
	args := m.Called(ctx, search, page, limit)
	list, _ := args.Get(0).([]Status)
	return list, args.Get(1).(int64), args.Error(2)
}

func setupStatusRouter(service StatusService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewStatusHandler(service).RegisterRoutes(r)
	return r
}

func TestStatusHandler_ListStatuses(t *testing.T) {
	svc := new(mockStatusService)
	r := setupStatusRouter(svc)

	svc.On("ListStatuses", mock.Anything, "", 1, 10).
		Return([]Status{{ID: 1, Name: InStock}, {ID: 2, Name: InUse}}, int64(2), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statuses", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data StatusList `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 2)
	require.Equal(t, int64(2), body.Data.Total)
}

func TestStatusHandler_ListStatuses_HidesInternalError(t *testing.T) {
	svc := new(mockStatusService)
	r := setupStatusRouter(svc)

	svc.On("ListStatuses", mock.Anything, "", 1, 10).Return(nil, int64(0), errors.New("connection reset"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statuses", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "internal server error", resp.Message)
}

func TestStatusHandler_CreateStatus(t *testing.T) {
	svc := new(mockStatusService)
	r := setupStatusRouter(svc)

	svc.On("CreateStatus", mock.Anything, Status{Name: "Lost", Color: "#DC2626"}).
		Return(Status{ID: 7, Name: "Lost", Color: "#DC2626"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/statuses", strings.NewReader(`{"name":"Lost","color":"#DC2626"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "1")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestStatusHandler_CreateStatus_BadColor(t *testing.T) {
	svc := new(mockStatusService)
	r := setupStatusRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/statuses", strings.NewReader(`{"name":"Lost","color":"red"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "1")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "color must be a hex color such as #1A2B3C", resp.Message)
	svc.AssertNotCalled(t, "CreateStatus", mock.Anything, mock.Anything)
}

func TestStatusHandler_DeleteStatus_InUse(t *testing.T) {
	svc := new(mockStatusService)
	r := setupStatusRouter(svc)

	svc.On("DeleteStatus", mock.Anything, int64(3)).Return(ErrStatusInUse)

	req := httptest.NewRequest(http.MethodDelete, "/statuses/3", nil)
	req.Header.Set("X-Actor-ID", "1")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "cannot delete status that has assets assigned to it", resp.Message)
}

func TestStatusHandler_UpdateStatus_RequiresActor(t *testing.T) {
	svc := new(mockStatusService)
	r := setupStatusRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/statuses/3", strings.NewReader(`{"name":"x","color":"#000000"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
