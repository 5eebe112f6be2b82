package assignments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/response"
)

type mockAssignmentService struct {
	mock.Mock
}

func (m *mockAssignmentService) Assign(ctx context.Context, assetID, userID, actorID int64, notes *string) (Assignment, error) {
	args := m.Called(ctx, assetID, userID, actorID, notes)
	a, _ := args.Get(0).(Assignment)
	return a, args.Error(1)
}

func (m *mockAssignmentService) Unassign(ctx context.Context, assetID, actorID int64) (Assignment, error) {
	args := m.Called(ctx, assetID, actorID)
	a, _ := args.Get(0).(Assignment)
	return a, args.Error(1)
}

func (m *mockAssignmentService) ListAssignments(ctx context.Context, assetID int64) ([]Assignment, error) {
	args := m.Called(ctx, assetID)
	list, _ := args.Get(0).([]Assignment)
	return list, args.Error(1)
}

func setupAssignmentRouter(service AssignmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAssignmentHandler(service).RegisterRoutes(r)
	return r
}

func TestAssignmentHandler_AssignAndReassignShareOperation(t *testing.T) {
	for _, path := range []string{"/assets/5/assign", "/assets/5/reassign"} {
		t.Run(path, func(t *testing.T) {
			svc := new(mockAssignmentService)
			r := setupAssignmentRouter(svc)

			svc.On("Assign", mock.Anything, int64(5), int64(8), int64(2), mock.MatchedBy(func(n *string) bool {
				return n != nil && *n == "desk 4"
			})).Return(Assignment{ID: 1, AssetID: 5, UserID: 8}, nil)

			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"user_id":8,"notes":"desk 4"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Actor-ID", "2")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestAssignmentHandler_Assign_MissingUser(t *testing.T) {
	svc := new(mockAssignmentService)
	r := setupAssignmentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/assets/5/assign", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "user_id is required", resp.Message)
}

func TestAssignmentHandler_Unassign_NotAssigned(t *testing.T) {
	svc := new(mockAssignmentService)
	r := setupAssignmentRouter(svc)

	svc.On("Unassign", mock.Anything, int64(5), int64(2)).Return(Assignment{}, ErrAssetNotAssigned)

	req := httptest.NewRequest(http.MethodPost, "/assets/5/unassign", nil)
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "STATE_CONFLICT", resp.Code)
	require.Equal(t, "asset is not assigned", resp.Message)
}

func TestAssignmentHandler_ListAssignments_AssetMissing(t *testing.T) {
	svc := new(mockAssignmentService)
	r := setupAssignmentRouter(svc)

	svc.On("ListAssignments", mock.Anything, int64(77)).Return(nil, ErrAssetNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/77/assignments", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentHandler_Assign_UnknownActor(t *testing.T) {
	svc := new(mockAssignmentService)
	r := setupAssignmentRouter(svc)

	svc.On("Assign", mock.Anything, int64(5), int64(3), int64(99), (*string)(nil)).Return(Assignment{}, ErrUnknownActor)

	req := httptest.NewRequest(http.MethodPost, "/assets/5/assign", strings.NewReader(`{"user_id":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "99")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "unknown actor", resp.Message)
}
