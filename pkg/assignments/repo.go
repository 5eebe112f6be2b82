package assignments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
	"itams/pkg/statuses"
)

var (
	ErrAssetNotFound       = apperr.New(apperr.KindNotFound, "asset not found")
	ErrUserNotFound        = apperr.New(apperr.KindNotFound, "user not found")
	ErrAssetNotAssigned    = apperr.New(apperr.KindStateConflict, "asset is not assigned")
	ErrAlreadyAssignedUser = apperr.New(apperr.KindStateConflict, "asset is already assigned to this user")
	ErrUnknownActor        = apperr.New(apperr.KindUnauthorized, "unknown actor")
)

// mapAssignmentFK translates foreign-key failures on asset_assignments by
// the column that caused them.
func mapAssignmentFK(err error) error {
	switch {
	case db.IsForeignKeyViolationOn(err, "asset_assignments_user_id_fkey"):
		return ErrUserNotFound
	case db.IsForeignKeyViolationOn(err, "asset_assignments_assigned_by_fkey"),
		db.IsForeignKeyViolationOn(err, "asset_assignments_returned_by_fkey"):
		return ErrUnknownActor
	case db.IsForeignKeyViolationOn(err, "asset_assignments_asset_id_fkey"):
		return ErrAssetNotFound
	}
	return err
}

type AssignmentRepository interface {
	Assign(ctx context.Context, assetID, userID, actorID int64, notes *string) (Assignment, error)
	Unassign(ctx context.Context, assetID, actorID int64) (Assignment, error)
	ListAssignments(ctx context.Context, assetID int64) ([]Assignment, error)
}

type postgresAssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &postgresAssignmentRepository{pool: pool}
}

// lockAsset takes the row lock that serializes assignment changes per asset
// and returns the current holder.
func lockAsset(ctx context.Context, tx pgx.Tx, assetID int64) (*int64, error) {
	var holder *int64
	err := tx.QueryRow(ctx, "SELECT assigned_to FROM assets WHERE id = $1 FOR UPDATE", assetID).Scan(&holder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssetNotFound
	}
	return holder, err
}

// closeOpen ends the open assignment, if any, and logs the check-in.
func closeOpen(ctx context.Context, tx pgx.Tx, assetID, actorID int64) (Assignment, bool, error) {
	query := `UPDATE asset_assignments
              SET returned_at = NOW(), returned_by = $2
              WHERE asset_id = $1 AND returned_at IS NULL
              RETURNING id, asset_id, user_id, assigned_by, assigned_at, returned_at, returned_by, notes`

	var a Assignment
	err := tx.QueryRow(ctx, query, assetID, actorID).
		Scan(&a.ID, &a.AssetID, &a.UserID, &a.AssignedBy, &a.AssignedAt, &a.ReturnedAt, &a.ReturnedBy, &a.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, false, nil
	}
	if err != nil {
		return Assignment{}, false, mapAssignmentFK(err)
	}

	if err := logAction(ctx, tx, assetID, a.UserID, ActionCheckin); err != nil {
		return Assignment{}, false, err
	}
	return a, true, nil
}

func logAction(ctx context.Context, tx pgx.Tx, assetID, userID int64, action string) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO checkin_checkout_logs (asset_id, user_id, action) VALUES ($1, $2, $3)",
		assetID, userID, action)
	return err
}

func setHolder(ctx context.Context, tx pgx.Tx, assetID int64, userID *int64, status string) error {
	query := `UPDATE assets
              SET assigned_to = $2,
                  status_id = COALESCE((SELECT id FROM asset_statuses WHERE name = $3), status_id),
                  deployed_at = CASE WHEN $2::BIGINT IS NULL THEN deployed_at ELSE COALESCE(deployed_at, CURRENT_DATE) END,
                  updated_at = NOW()
              WHERE id = $1`
	_, err := tx.Exec(ctx, query, assetID, userID, status)
	return err
}

func (r *postgresAssignmentRepository) Assign(ctx context.Context, assetID, userID, actorID int64, notes *string) (Assignment, error) {
	var created Assignment
	err := db.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		holder, err := lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if holder != nil && *holder == userID {
			return ErrAlreadyAssignedUser
		}

		if _, _, err := closeOpen(ctx, tx, assetID, actorID); err != nil {
			return err
		}

		query := `INSERT INTO asset_assignments (asset_id, user_id, assigned_by, notes)
                  VALUES ($1, $2, $3, $4)
                  RETURNING id, asset_id, user_id, assigned_by, assigned_at, returned_at, returned_by, notes`
		err = tx.QueryRow(ctx, query, assetID, userID, actorID, notes).
			Scan(&created.ID, &created.AssetID, &created.UserID, &created.AssignedBy, &created.AssignedAt,
				&created.ReturnedAt, &created.ReturnedBy, &created.Notes)
		if err != nil {
			return mapAssignmentFK(err)
		}

		if err := logAction(ctx, tx, assetID, userID, ActionCheckout); err != nil {
			return err
		}
		return setHolder(ctx, tx, assetID, &userID, statuses.InUse)
	})
	if err != nil {
		return Assignment{}, err
	}
	return created, nil
}

func (r *postgresAssignmentRepository) Unassign(ctx context.Context, assetID, actorID int64) (Assignment, error) {
	var closed Assignment
	err := db.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		holder, err := lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		if holder == nil {
			return ErrAssetNotAssigned
		}

		a, found, err := closeOpen(ctx, tx, assetID, actorID)
		if err != nil {
			return err
		}
		if !found {
			// Holder set without an open record: still check the asset in.
			if err := logAction(ctx, tx, assetID, *holder, ActionCheckin); err != nil {
				return err
			}
			a = Assignment{AssetID: assetID, UserID: *holder}
		}
		closed = a

		return setHolder(ctx, tx, assetID, nil, statuses.InStock)
	})
	if err != nil {
		return Assignment{}, err
	}
	return closed, nil
}

func (r *postgresAssignmentRepository) ListAssignments(ctx context.Context, assetID int64) ([]Assignment, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)", assetID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAssetNotFound
	}

	query := `SELECT aa.id, aa.asset_id, aa.user_id, u.name, aa.assigned_by, b.name,
                     aa.assigned_at, aa.returned_at, aa.returned_by, aa.notes
              FROM asset_assignments aa
              LEFT JOIN users u ON u.id = aa.user_id
              LEFT JOIN users b ON b.id = aa.assigned_by
              WHERE aa.asset_id = $1
              ORDER BY aa.assigned_at DESC, aa.id DESC`

	rows, err := r.pool.Query(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Assignment, 0)
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.AssetID, &a.UserID, &a.UserName, &a.AssignedBy, &a.AssignedByName,
			&a.AssignedAt, &a.ReturnedAt, &a.ReturnedBy, &a.Notes); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
