package maintenance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrAssetNotFound = apperr.New(apperr.KindNotFound, "asset not found")
	ErrUnknownActor  = apperr.New(apperr.KindUnauthorized, "unknown actor")
)

type LogRepository interface {
	CreateLog(ctx context.Context, input Log) (Log, error)
	ListLogs(ctx context.Context, assetID int64) ([]Log, error)
}

type postgresLogRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLogRepository(pool *pgxpool.Pool) LogRepository {
	return &postgresLogRepository{pool: pool}
}

func (r *postgresLogRepository) CreateLog(ctx context.Context, input Log) (Log, error) {
	query := `INSERT INTO maintenance_logs (asset_id, maintenance_type, description, cost, performed_by, performed_at)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, asset_id, maintenance_type, description, cost, performed_by, performed_at, created_at`

	var l Log
	err := r.pool.QueryRow(ctx, query,
		input.AssetID, input.MaintenanceType, input.Description, input.Cost, input.PerformedBy, input.PerformedAt,
	).Scan(&l.ID, &l.AssetID, &l.MaintenanceType, &l.Description, &l.Cost, &l.PerformedBy, &l.PerformedAt, &l.CreatedAt)
	if err != nil {
		switch {
		case db.IsForeignKeyViolationOn(err, "maintenance_logs_asset_id_fkey"):
			return Log{}, ErrAssetNotFound
		case db.IsForeignKeyViolationOn(err, "maintenance_logs_performed_by_fkey"):
			return Log{}, ErrUnknownActor
		}
		return Log{}, err
	}
	return l, nil
}

func (r *postgresLogRepository) ListLogs(ctx context.Context, assetID int64) ([]Log, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)", assetID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAssetNotFound
	}

	query := `SELECT m.id, m.asset_id, m.maintenance_type, m.description, m.cost, m.performed_by, u.name,
                     m.performed_at, m.created_at
              FROM maintenance_logs m
              LEFT JOIN users u ON u.id = m.performed_by
              WHERE m.asset_id = $1
              ORDER BY m.performed_at DESC, m.id DESC`

	rows, err := r.pool.Query(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Log, 0)
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.AssetID, &l.MaintenanceType, &l.Description, &l.Cost, &l.PerformedBy,
			&l.PerformedByName, &l.PerformedAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
