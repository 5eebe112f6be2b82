package audits

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

type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) StartSession(ctx context.Context, in StartInput) (Session, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(Session)
	return s, args.Error(1)
}

func (m *mockAuditService) ListSessions(ctx context.Context, page, limit int) ([]Session, int64, error) {
	args := m.Called(ctx, page, limit)
	list, _ := args.Get(0).([]Session)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockAuditService) GetSession(ctx context.Context, id int64) (SessionDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(SessionDetail)
	return d, args.Error(1)
}

func (m *mockAuditService) DeleteSession(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAuditService) Scan(ctx context.Context, in ScanInput) (Entry, error) {
	args := m.Called(ctx, in)
	e, _ := args.Get(0).(Entry)
	return e, args.Error(1)
}

func (m *mockAuditService) Close(ctx context.Context, id, actorID int64) (Session, error) {
	args := m.Called(ctx, id, actorID)
	s, _ := args.Get(0).(Session)
	return s, args.Error(1)
}

func (m *mockAuditService) Variance(ctx context.Context, id int64) (Variance, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(Variance)
	return v, args.Error(1)
}

func (m *mockAuditService) SessionExists(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type stubFeed struct {
	served []int64
}

func (f *stubFeed) Serve(w http.ResponseWriter, _ *http.Request, sessionID int64) {
	f.served = append(f.served, sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func setupAuditRouter(service AuditService, feed FeedServer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuditHandler(service, feed).RegisterRoutes(r)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuditHandler_StartSession(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	svc.On("StartSession", mock.Anything, mock.MatchedBy(func(in StartInput) bool {
		return in.ActorID == 2 && in.LocationID != nil && *in.LocationID == 4 && in.Notes == nil
	})).Return(Session{ID: 1, Status: StatusOpen}, nil)

	req := httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(`{"location_id":4}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestAuditHandler_StartSession_RequiresActor(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "StartSession", mock.Anything, mock.Anything)
}

func TestAuditHandler_Scan(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	svc.On("Scan", mock.Anything, mock.MatchedBy(func(in ScanInput) bool {
		return in.SessionID == 3 && in.Code == "SN-1" && in.ActorID == 2 &&
			in.FoundLocationID != nil && *in.FoundLocationID == 6
	})).Return(Entry{ID: 9, SessionID: 3}, nil)

	req := httptest.NewRequest(http.MethodPost, "/audits/3/scan", strings.NewReader(`{"code":"SN-1","found_location_id":6}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode(t, w).Success)
	svc.AssertExpectations(t)
}

func TestAuditHandler_Scan_MissingCode(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/audits/3/scan", strings.NewReader(`{"code":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "code is required", decode(t, w).Message)
	svc.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestAuditHandler_Scan_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"closed session", ErrSessionClosed, http.StatusConflict, "session is closed"},
		{"unknown asset", ErrAssetNotFound, http.StatusNotFound, "asset not found"},
		{"unknown session", ErrSessionNotFound, http.StatusNotFound, "audit session not found"},
		{"bad found location", ErrLocationNotFound, http.StatusBadRequest, "location does not exist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockAuditService)
			r := setupAuditRouter(svc, nil)
			svc.On("Scan", mock.Anything, mock.Anything).Return(Entry{}, tc.err)

			req := httptest.NewRequest(http.MethodPost, "/audits/3/scan", strings.NewReader(`{"code":"AMS-1"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Actor-ID", "2")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.message, decode(t, w).Message)
		})
	}
}

func TestAuditHandler_Close_AlreadyClosed(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	svc.On("Close", mock.Anything, int64(3), int64(2)).Return(Session{}, ErrAlreadyClosed)

	req := httptest.NewRequest(http.MethodPost, "/audits/3/close", nil)
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	resp := decode(t, w)
	require.Equal(t, "STATE_CONFLICT", resp.Code)
	require.Equal(t, "audit already closed", resp.Message)
}

func TestAuditHandler_Variance(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	v := Reconcile([]AssetRef{asset(1, loc(1))}, nil)
	svc.On("Variance", mock.Anything, int64(3)).Return(v, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits/3/variance", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Missing []AssetRef `json:"missing"`
			Extra   []AssetRef `json:"extra"`
			Moved   []Entry    `json:"moved"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Missing, 1)
	require.NotNil(t, body.Data.Extra)
	require.NotNil(t, body.Data.Moved)
}

func TestAuditHandler_InvalidID(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits/abc", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid audit session id", decode(t, w).Message)
	svc.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
}

func TestAuditHandler_ListSessions_ClampsLimit(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	svc.On("ListSessions", mock.Anything, 2, 100).Return([]Session{{ID: 1}}, int64(101), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits?page=2&limit=500", nil))

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuditHandler_Delete(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	svc.On("DeleteSession", mock.Anything, int64(3)).Return(ErrSessionNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/audits/3", nil)
	req.Header.Set("X-Actor-ID", "2")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditHandler_Feed(t *testing.T) {
	svc := new(mockAuditService)
	feed := &stubFeed{}
	r := setupAuditRouter(svc, feed)

	svc.On("SessionExists", mock.Anything, int64(3)).Return(nil)
	svc.On("SessionExists", mock.Anything, int64(4)).Return(ErrSessionNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits/3/feed", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits/4/feed", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, []int64{3}, feed.served)
}

func TestAuditHandler_FeedRouteAbsentWithoutHub(t *testing.T) {
	svc := new(mockAuditService)
	r := setupAuditRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audits/3/feed", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "SessionExists", mock.Anything, mock.Anything)
}
