package maintenance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLogService struct {
	mock.Mock
}

func (m *mockLogService) CreateLog(ctx context.Context, input Log) (Log, error) {
	args := m.Called(ctx, input)
	l, _ := args.Get(0).(Log)
	return l, args.Error(1)
}

func (m *mockLogService) ListLogs(ctx context.Context, assetID int64) ([]Log, error) {
	args := m.Called(ctx, assetID)
	list, _ := args.Get(0).([]Log)
	return list, args.Error(1)
}

func setupLogRouter(service LogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewLogHandler(service).RegisterRoutes(r)
	return r
}

func TestLogHandler_CreateLog_Success(t *testing.T) {
	svc := new(mockLogService)
	r := setupLogRouter(svc)

	svc.On("CreateLog", mock.Anything, mock.MatchedBy(func(l Log) bool {
		return l.AssetID == 4 && l.MaintenanceType == "repair" &&
			l.Cost != nil && l.Cost.String() == "35" &&
			l.PerformedBy != nil && *l.PerformedBy == 6
	})).Return(Log{ID: 1, AssetID: 4}, nil)

	body := `{"maintenance_type":"repair","description":"replaced battery","cost":35,"performed_at":"2025-04-02T14:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/assets/4/maintenance-logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "6")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestLogHandler_CreateLog_MissingDate(t *testing.T) {
	svc := new(mockLogService)
	r := setupLogRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/assets/4/maintenance-logs", strings.NewReader(`{"maintenance_type":"repair","description":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "6")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}

func TestLogHandler_ListLogs_UnknownAsset(t *testing.T) {
	svc := new(mockLogService)
	r := setupLogRouter(svc)

	svc.On("ListLogs", mock.Anything, int64(99)).Return(nil, ErrAssetNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/99/maintenance-logs", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}
