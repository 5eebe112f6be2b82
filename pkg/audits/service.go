package audits

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"itams/pkg/apperr"
	"itams/pkg/metrics"
)

const (
	EventEntryScanned  = "entry.scanned"
	EventSessionClosed = "session.closed"

	notifyTimeout = 10 * time.Second
)

var ErrCodeRequired = apperr.New(apperr.KindValidation, "code is required")

// Publisher fans session events out to live subscribers. It must not block.
type Publisher interface {
	Publish(sessionID int64, eventType string, data any)
}

// CloseNotifier is told about every successful close.
type CloseNotifier interface {
	NotifyClosed(ctx context.Context, session Session, v Variance) error
}

type AuditService interface {
	StartSession(ctx context.Context, in StartInput) (Session, error)
	ListSessions(ctx context.Context, page, limit int) ([]Session, int64, error)
	GetSession(ctx context.Context, id int64) (SessionDetail, error)
	DeleteSession(ctx context.Context, id int64) error
	Scan(ctx context.Context, in ScanInput) (Entry, error)
	Close(ctx context.Context, id, actorID int64) (Session, error)
	Variance(ctx context.Context, id int64) (Variance, error)
	SessionExists(ctx context.Context, id int64) error
}

type auditService struct {
	repo     AuditRepository
	feed     Publisher
	notifier CloseNotifier
	metrics  *metrics.AuditMetrics
	now      func() time.Time
}

// NewAuditService wires the reconciliation engine. feed, notifier and m may
// be nil.
func NewAuditService(repo AuditRepository, feed Publisher, notifier CloseNotifier, m *metrics.AuditMetrics) AuditService {
	return &auditService{repo: repo, feed: feed, notifier: notifier, metrics: m, now: time.Now}
}

func (s *auditService) StartSession(ctx context.Context, in StartInput) (Session, error) {
	if in.LocationID != nil && *in.LocationID <= 0 {
		return Session{}, apperr.Validation("location_id must be positive")
	}
	session, err := s.repo.CreateSession(ctx, in)
	if err != nil {
		return Session{}, err
	}
	zerolog.Ctx(ctx).Info().
		Int64("audit_session_id", session.ID).
		Int64("started_by", in.ActorID).
		Msg("audit.started")
	return session, nil
}

func (s *auditService) ListSessions(ctx context.Context, page, limit int) ([]Session, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 15
	}
	return s.repo.ListSessions(ctx, limit, (page-1)*limit)
}

func (s *auditService) GetSession(ctx context.Context, id int64) (SessionDetail, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return SessionDetail{}, err
	}
	entries, err := s.repo.ListEntries(ctx, id)
	if err != nil {
		return SessionDetail{}, err
	}
	return SessionDetail{Session: session, Entries: entries}, nil
}

func (s *auditService) SessionExists(ctx context.Context, id int64) error {
	_, err := s.repo.GetSession(ctx, id)
	return err
}

func (s *auditService) DeleteSession(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int64("audit_session_id", id).Msg("audit.deleted")
	return nil
}

// Scan records that the asset identified by in.Code was seen. Re-scanning
// the same asset in a session replaces the earlier entry.
func (s *auditService) Scan(ctx context.Context, in ScanInput) (Entry, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" {
		s.metrics.IncScan("invalid")
		return Entry{}, ErrCodeRequired
	}

	entry, err := s.repo.UpsertEntry(ctx, in)
	if err != nil {
		s.metrics.IncScan(scanResult(err))
		return Entry{}, err
	}
	s.metrics.IncScan("recorded")

	zerolog.Ctx(ctx).Info().
		Int64("audit_session_id", in.SessionID).
		Int64("asset_id", entry.Asset.ID).
		Int64("entry_id", entry.ID).
		Msg("audit.scanned")

	if s.feed != nil {
		s.feed.Publish(in.SessionID, EventEntryScanned, entry)
	}
	return entry, nil
}

func scanResult(err error) string {
	switch {
	case errors.Is(err, ErrAssetNotFound):
		return "asset_not_found"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrSessionClosed):
		return "closed"
	case apperr.KindOf(err) == apperr.KindValidation:
		return "invalid"
	default:
		return "error"
	}
}

// Close ends an open session. A notification failure is logged and does not
// undo or fail the close.
func (s *auditService) Close(ctx context.Context, id, actorID int64) (Session, error) {
	session, err := s.repo.CloseSession(ctx, id, actorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyClosed):
			s.metrics.IncClose("already_closed")
		case errors.Is(err, ErrSessionNotFound):
			s.metrics.IncClose("not_found")
		default:
			s.metrics.IncClose("error")
		}
		return Session{}, err
	}
	s.metrics.IncClose("closed")

	log := zerolog.Ctx(ctx)
	log.Info().
		Int64("audit_session_id", id).
		Int64("closed_by", actorID).
		Msg("audit.closed")

	if s.feed != nil {
		s.feed.Publish(id, EventSessionClosed, session)
	}

	if s.notifier != nil {
		if err := s.notify(ctx, session); err != nil {
			log.Warn().Err(err).Int64("audit_session_id", id).Msg("audit.notify_failed")
		}
	}
	return session, nil
}

func (s *auditService) notify(ctx context.Context, session Session) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	v, err := s.Variance(ctx, session.ID)
	if err != nil {
		return err
	}
	return s.notifier.NotifyClosed(ctx, session, v)
}

// Variance is read-only and valid in either state.
func (s *auditService) Variance(ctx context.Context, id int64) (Variance, error) {
	start := s.now()
	defer func() { s.metrics.ObserveVariance(s.now().Sub(start)) }()

	_, expected, entries, err := s.repo.LoadReconciliation(ctx, id)
	if err != nil {
		return Variance{}, err
	}
	return Reconcile(expected, entries), nil
}
