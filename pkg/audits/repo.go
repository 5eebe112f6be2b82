package audits

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrSessionNotFound  = apperr.New(apperr.KindNotFound, "audit session not found")
	ErrAssetNotFound    = apperr.New(apperr.KindNotFound, "asset not found")
	ErrSessionClosed    = apperr.New(apperr.KindStateConflict, "session is closed")
	ErrAlreadyClosed    = apperr.New(apperr.KindStateConflict, "audit already closed")
	ErrLocationNotFound = apperr.New(apperr.KindValidation, "location does not exist")
	ErrUnknownActor     = apperr.New(apperr.KindUnauthorized, "unknown actor")
)

type AuditRepository interface {
	CreateSession(ctx context.Context, in StartInput) (Session, error)
	GetSession(ctx context.Context, id int64) (Session, error)
	ListSessions(ctx context.Context, limit, offset int) ([]Session, int64, error)
	DeleteSession(ctx context.Context, id int64) error
	ListEntries(ctx context.Context, sessionID int64) ([]Entry, error)
	UpsertEntry(ctx context.Context, in ScanInput) (Entry, error)
	CloseSession(ctx context.Context, id, actorID int64) (Session, error)
	LoadReconciliation(ctx context.Context, sessionID int64) (Session, []AssetRef, []Entry, error)
}

type postgresAuditRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &postgresAuditRepository{pool: pool}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const selectSession = `SELECT s.id, s.location_id, l.name, s.status, s.started_by, su.name,
                              s.closed_by, cu.name, s.closed_at, s.notes,
                              (SELECT COUNT(*) FROM audit_entries e WHERE e.audit_session_id = s.id),
                              s.created_at, s.updated_at
                       FROM audit_sessions s
                       LEFT JOIN locations l ON l.id = s.location_id
                       LEFT JOIN users su ON su.id = s.started_by
                       LEFT JOIN users cu ON cu.id = s.closed_by`

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.LocationID, &s.LocationName, &s.Status, &s.StartedBy, &s.StartedByName,
		&s.ClosedBy, &s.ClosedByName, &s.ClosedAt, &s.Notes, &s.EntryCount, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const selectEntry = `SELECT e.id, e.audit_session_id,
                            a.id, a.name, a.asset_tag, a.serial_number, c.name, a.location_id, al.name,
                            e.scanned_by, u.name, e.scanned_at, e.found_location_id, fl.name, e.notes
                     FROM audit_entries e
                     JOIN assets a ON a.id = e.asset_id
                     LEFT JOIN categories c ON c.id = a.category_id
                     LEFT JOIN locations al ON al.id = a.location_id
                     LEFT JOIN users u ON u.id = e.scanned_by
                     LEFT JOIN locations fl ON fl.id = e.found_location_id`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.SessionID,
		&e.Asset.ID, &e.Asset.Name, &e.Asset.AssetTag, &e.Asset.SerialNumber, &e.Asset.CategoryName,
		&e.Asset.LocationID, &e.Asset.LocationName,
		&e.ScannedBy, &e.ScannedByName, &e.ScannedAt, &e.FoundLocationID, &e.FoundLocationName, &e.Notes)
	return e, err
}

const selectAssetRef = `SELECT a.id, a.name, a.asset_tag, a.serial_number, c.name, a.location_id, l.name
                        FROM assets a
                        LEFT JOIN categories c ON c.id = a.category_id
                        LEFT JOIN locations l ON l.id = a.location_id`

func getSession(ctx context.Context, q querier, id int64) (Session, error) {
	s, err := scanSession(q.QueryRow(ctx, selectSession+" WHERE s.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return s, err
}

func listEntries(ctx context.Context, q querier, sessionID int64) ([]Entry, error) {
	rows, err := q.Query(ctx, selectEntry+" WHERE e.audit_session_id = $1 ORDER BY e.scanned_at DESC, e.id DESC", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// expectedAssets returns the assets recorded at locationID, or every asset
// when locationID is nil.
func expectedAssets(ctx context.Context, q querier, locationID *int64) ([]AssetRef, error) {
	rows, err := q.Query(ctx, selectAssetRef+" WHERE $1::BIGINT IS NULL OR a.location_id = $1 ORDER BY a.id", locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]AssetRef, 0)
	for rows.Next() {
		var a AssetRef
		if err := rows.Scan(&a.ID, &a.Name, &a.AssetTag, &a.SerialNumber, &a.CategoryName, &a.LocationID, &a.LocationName); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *postgresAuditRepository) CreateSession(ctx context.Context, in StartInput) (Session, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		"INSERT INTO audit_sessions (location_id, started_by, notes) VALUES ($1, $2, $3) RETURNING id",
		in.LocationID, in.ActorID, in.Notes).Scan(&id)
	if err != nil {
		switch {
		case db.IsForeignKeyViolationOn(err, "audit_sessions_location_id_fkey"):
			return Session{}, ErrLocationNotFound
		case db.IsForeignKeyViolationOn(err, "audit_sessions_started_by_fkey"):
			return Session{}, ErrUnknownActor
		}
		return Session{}, err
	}
	return getSession(ctx, r.pool, id)
}

func (r *postgresAuditRepository) GetSession(ctx context.Context, id int64) (Session, error) {
	return getSession(ctx, r.pool, id)
}

func (r *postgresAuditRepository) ListSessions(ctx context.Context, limit, offset int) ([]Session, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_sessions").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, selectSession+" ORDER BY s.created_at DESC, s.id DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postgresAuditRepository) DeleteSession(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM audit_sessions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *postgresAuditRepository) ListEntries(ctx context.Context, sessionID int64) ([]Entry, error) {
	return listEntries(ctx, r.pool, sessionID)
}

// UpsertEntry records a scan. The session row is share-locked for the length
// of the transaction, so a concurrent close waits for the scan to commit and
// a scan that starts after a close sees the closed status.
func (r *postgresAuditRepository) UpsertEntry(ctx context.Context, in ScanInput) (Entry, error) {
	var entry Entry
	err := db.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, "SELECT status FROM audit_sessions WHERE id = $1 FOR SHARE", in.SessionID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if status != StatusOpen {
			return ErrSessionClosed
		}

		// Tag matches win over serial matches; ties go to the oldest asset.
		var assetID int64
		var recorded *int64
		err = tx.QueryRow(ctx,
			`SELECT id, location_id FROM assets
             WHERE asset_tag = $1 OR serial_number = $1
             ORDER BY (asset_tag = $1) DESC, id
             LIMIT 1`, in.Code).Scan(&assetID, &recorded)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssetNotFound
		}
		if err != nil {
			return err
		}

		found := in.FoundLocationID
		if found == nil {
			found = recorded
		}

		var id int64
		err = tx.QueryRow(ctx,
			`INSERT INTO audit_entries (audit_session_id, asset_id, scanned_by, scanned_at, found_location_id, notes)
             VALUES ($1, $2, $3, NOW(), $4, $5)
             ON CONFLICT (audit_session_id, asset_id) DO UPDATE
             SET scanned_by = EXCLUDED.scanned_by,
                 scanned_at = EXCLUDED.scanned_at,
                 found_location_id = EXCLUDED.found_location_id,
                 notes = EXCLUDED.notes
             RETURNING id`,
			in.SessionID, assetID, in.ActorID, found, in.Notes).Scan(&id)
		if err != nil {
			switch {
			case db.IsForeignKeyViolationOn(err, "audit_entries_found_location_id_fkey"):
				return ErrLocationNotFound
			case db.IsForeignKeyViolationOn(err, "audit_entries_scanned_by_fkey"):
				return ErrUnknownActor
			}
			return err
		}

		entry, err = scanEntry(tx.QueryRow(ctx, selectEntry+" WHERE e.id = $1", id))
		return err
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// CloseSession moves an open session to closed. The status guard in the
// UPDATE makes the transition a compare-and-set: of two concurrent closes
// only one matches a row.
func (r *postgresAuditRepository) CloseSession(ctx context.Context, id, actorID int64) (Session, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE audit_sessions
         SET status = 'closed', closed_at = NOW(), closed_by = $2, updated_at = NOW()
         WHERE id = $1 AND status = 'open'`, id, actorID)
	if err != nil {
		if db.IsForeignKeyViolationOn(err, "audit_sessions_closed_by_fkey") {
			return Session{}, ErrUnknownActor
		}
		return Session{}, err
	}

	if tag.RowsAffected() == 0 {
		if _, err := getSession(ctx, r.pool, id); err != nil {
			return Session{}, err
		}
		return Session{}, ErrAlreadyClosed
	}
	return getSession(ctx, r.pool, id)
}

// LoadReconciliation reads a session, its expected assets and its entries
// from one snapshot.
func (r *postgresAuditRepository) LoadReconciliation(ctx context.Context, sessionID int64) (Session, []AssetRef, []Entry, error) {
	var (
		session  Session
		expected []AssetRef
		entries  []Entry
	)
	err := db.RunReadOnly(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		if session, err = getSession(ctx, tx, sessionID); err != nil {
			return err
		}
		if expected, err = expectedAssets(ctx, tx, session.LocationID); err != nil {
			return err
		}
		entries, err = listEntries(ctx, tx, sessionID)
		return err
	})
	if err != nil {
		return Session{}, nil, nil, err
	}
	return session, expected, entries, nil
}
