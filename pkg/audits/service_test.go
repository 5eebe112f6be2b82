package audits

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"itams/pkg/apperr"
	"itams/pkg/metrics"
)

type mockAuditRepository struct {
	mock.Mock
}

func (m *mockAuditRepository) CreateSession(ctx context.Context, in StartInput) (Session, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(Session)
	return s, args.Error(1)
}

func (m *mockAuditRepository) GetSession(ctx context.Context, id int64) (Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(Session)
	return s, args.Error(1)
}

func (m *mockAuditRepository) ListSessions(ctx context.Context, limit, offset int) ([]Session, int64, error) {
	args := m.Called(ctx, limit, offset)
	list, _ := args.Get(0).([]Session)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockAuditRepository) DeleteSession(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAuditRepository) ListEntries(ctx context.Context, sessionID int64) ([]Entry, error) {
	args := m.Called(ctx, sessionID)
	list, _ := args.Get(0).([]Entry)
	return list, args.Error(1)
}

func (m *mockAuditRepository) UpsertEntry(ctx context.Context, in ScanInput) (Entry, error) {
	args := m.Called(ctx, in)
	e, _ := args.Get(0).(Entry)
	return e, args.Error(1)
}

func (m *mockAuditRepository) CloseSession(ctx context.Context, id, actorID int64) (Session, error) {
	args := m.Called(ctx, id, actorID)
	s, _ := args.Get(0).(Session)
	return s, args.Error(1)
}

func (m *mockAuditRepository) LoadReconciliation(ctx context.Context, sessionID int64) (Session, []AssetRef, []Entry, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(Session)
	expected, _ := args.Get(1).([]AssetRef)
	entries, _ := args.Get(2).([]Entry)
	return s, expected, entries, args.Error(3)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(sessionID int64, eventType string, data any) {
	m.Called(sessionID, eventType, data)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyClosed(ctx context.Context, session Session, v Variance) error {
	return m.Called(ctx, session, v).Error(0)
}

func TestAuditService_Scan_TrimsCodeAndPublishes(t *testing.T) {
	repo := new(mockAuditRepository)
	feed := new(mockPublisher)
	reg := prometheus.NewRegistry()
	service := NewAuditService(repo, feed, nil, metrics.NewAuditMetrics(reg))

	want := Entry{ID: 7, SessionID: 3, Asset: AssetRef{ID: 11, AssetTag: "AMS-123456"}}
	repo.On("UpsertEntry", mock.Anything, ScanInput{SessionID: 3, Code: "AMS-123456", ActorID: 2}).Return(want, nil)
	feed.On("Publish", int64(3), EventEntryScanned, want).Return()

	got, err := service.Scan(context.Background(), ScanInput{SessionID: 3, Code: "  AMS-123456 ", ActorID: 2})

	require.NoError(t, err)
	require.Equal(t, want, got)
	repo.AssertExpectations(t)
	feed.AssertExpectations(t)

	expected := `
# HELP audit_scans_total Audit scan requests by outcome.
# TYPE audit_scans_total counter
audit_scans_total{result="recorded"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "audit_scans_total"))
}

func TestAuditService_Scan_BlankCode(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	_, err := service.Scan(context.Background(), ScanInput{SessionID: 3, Code: "   ", ActorID: 2})

	require.ErrorIs(t, err, ErrCodeRequired)
	repo.AssertNotCalled(t, "UpsertEntry", mock.Anything, mock.Anything)
}

func TestAuditService_Scan_ClosedSession(t *testing.T) {
	repo := new(mockAuditRepository)
	feed := new(mockPublisher)
	service := NewAuditService(repo, feed, nil, nil)

	repo.On("UpsertEntry", mock.Anything, mock.Anything).Return(Entry{}, ErrSessionClosed)

	_, err := service.Scan(context.Background(), ScanInput{SessionID: 3, Code: "AMS-1", ActorID: 2})

	require.ErrorIs(t, err, ErrSessionClosed)
	require.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
	feed.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditService_Scan_UnknownCode(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	repo.On("UpsertEntry", mock.Anything, mock.Anything).Return(Entry{}, ErrAssetNotFound)

	_, err := service.Scan(context.Background(), ScanInput{SessionID: 3, Code: "nope", ActorID: 2})

	require.ErrorIs(t, err, ErrAssetNotFound)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestScanResult(t *testing.T) {
	require.Equal(t, "asset_not_found", scanResult(ErrAssetNotFound))
	require.Equal(t, "session_not_found", scanResult(ErrSessionNotFound))
	require.Equal(t, "closed", scanResult(ErrSessionClosed))
	require.Equal(t, "invalid", scanResult(ErrLocationNotFound))
	require.Equal(t, "error", scanResult(errors.New("connection reset")))
}

func TestAuditService_Close_PublishesAndNotifies(t *testing.T) {
	repo := new(mockAuditRepository)
	feed := new(mockPublisher)
	notifier := new(mockNotifier)
	service := NewAuditService(repo, feed, notifier, nil)

	closedAt := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	closed := Session{ID: 4, Status: StatusClosed, ClosedAt: &closedAt}
	l := loc(1)
	expected := []AssetRef{asset(1, l), asset(2, l)}
	entries := []Entry{entryFor(expected[0], l)}

	repo.On("CloseSession", mock.Anything, int64(4), int64(9)).Return(closed, nil)
	repo.On("LoadReconciliation", mock.Anything, int64(4)).Return(closed, expected, entries, nil)
	feed.On("Publish", int64(4), EventSessionClosed, closed).Return()
	notifier.On("NotifyClosed", mock.Anything, closed, mock.MatchedBy(func(v Variance) bool {
		return len(v.Missing) == 1 && v.Missing[0].ID == 2
	})).Return(nil)

	got, err := service.Close(context.Background(), 4, 9)

	require.NoError(t, err)
	require.Equal(t, closed, got)
	repo.AssertExpectations(t)
	feed.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAuditService_Close_NotifierFailureDoesNotFailClose(t *testing.T) {
	repo := new(mockAuditRepository)
	notifier := new(mockNotifier)
	service := NewAuditService(repo, nil, notifier, nil)

	closed := Session{ID: 4, Status: StatusClosed}
	repo.On("CloseSession", mock.Anything, int64(4), int64(9)).Return(closed, nil)
	repo.On("LoadReconciliation", mock.Anything, int64(4)).Return(closed, []AssetRef{}, []Entry{}, nil)
	notifier.On("NotifyClosed", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	got, err := service.Close(context.Background(), 4, 9)

	require.NoError(t, err)
	require.Equal(t, StatusClosed, got.Status)
}

func TestAuditService_Close_Twice(t *testing.T) {
	repo := new(mockAuditRepository)
	feed := new(mockPublisher)
	notifier := new(mockNotifier)
	reg := prometheus.NewRegistry()
	service := NewAuditService(repo, feed, notifier, metrics.NewAuditMetrics(reg))

	repo.On("CloseSession", mock.Anything, int64(4), int64(9)).Return(Session{}, ErrAlreadyClosed)

	_, err := service.Close(context.Background(), 4, 9)

	require.ErrorIs(t, err, ErrAlreadyClosed)
	require.Equal(t, apperr.KindStateConflict, apperr.KindOf(err))
	feed.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyClosed", mock.Anything, mock.Anything, mock.Anything)

	expected := `
# HELP audit_session_closes_total Audit session close requests by outcome.
# TYPE audit_session_closes_total counter
audit_session_closes_total{result="already_closed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "audit_session_closes_total"))
}

func TestAuditService_Variance(t *testing.T) {
	repo := new(mockAuditRepository)
	reg := prometheus.NewRegistry()
	service := NewAuditService(repo, nil, nil, metrics.NewAuditMetrics(reg))

	l, m := loc(1), loc(2)
	a1, a2, a3 := asset(1, l), asset(2, l), asset(3, l)
	repo.On("LoadReconciliation", mock.Anything, int64(5)).
		Return(Session{ID: 5, LocationID: l, Status: StatusOpen}, []AssetRef{a1, a2, a3},
			[]Entry{entryFor(a1, l), entryFor(a2, m)}, nil)

	v, err := service.Variance(context.Background(), 5)

	require.NoError(t, err)
	require.Equal(t, []int64{3}, ids(v.Missing))
	require.Equal(t, []int64{2}, entryAssetIDs(v.Moved))
	require.Empty(t, v.Extra)

	count, err := testutil.GatherAndCount(reg, "audit_variance_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAuditService_Variance_NotFound(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	repo.On("LoadReconciliation", mock.Anything, int64(5)).Return(Session{}, nil, nil, ErrSessionNotFound)

	_, err := service.Variance(context.Background(), 5)

	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuditService_ListSessions_Paginates(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	repo.On("ListSessions", mock.Anything, 15, 0).Return([]Session{{ID: 1}}, int64(1), nil)
	repo.On("ListSessions", mock.Anything, 10, 20).Return([]Session{}, int64(1), nil)

	list, total, err := service.ListSessions(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(1), total)

	_, _, err = service.ListSessions(context.Background(), 3, 10)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuditService_GetSession_IncludesEntries(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	repo.On("GetSession", mock.Anything, int64(8)).Return(Session{ID: 8, Status: StatusOpen}, nil)
	repo.On("ListEntries", mock.Anything, int64(8)).Return([]Entry{{ID: 1}, {ID: 2}}, nil)

	detail, err := service.GetSession(context.Background(), 8)

	require.NoError(t, err)
	require.Equal(t, int64(8), detail.ID)
	require.Len(t, detail.Entries, 2)
}

func TestAuditService_GetSession_NotFound(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	repo.On("GetSession", mock.Anything, int64(8)).Return(Session{}, ErrSessionNotFound)

	_, err := service.GetSession(context.Background(), 8)

	require.ErrorIs(t, err, ErrSessionNotFound)
	repo.AssertNotCalled(t, "ListEntries", mock.Anything, mock.Anything)
}

func TestAuditService_StartSession_RejectsBadLocation(t *testing.T) {
	repo := new(mockAuditRepository)
	service := NewAuditService(repo, nil, nil, nil)

	_, err := service.StartSession(context.Background(), StartInput{LocationID: loc(0), ActorID: 1})

	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}
