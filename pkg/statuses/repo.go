package statuses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrStatusNotFound  = apperr.New(apperr.KindNotFound, "status not found")
	ErrStatusNameTaken = apperr.New(apperr.KindConflict, "status name already exists")
	ErrStatusInUse     = apperr.New(apperr.KindStateConflict, "cannot delete status that has assets assigned to it")
)

type StatusRepository interface {
	CreateStatus(ctx context.Context, input Status) (Status, error)
	UpdateStatus(ctx context.Context, input Status) (Status, error)
	DeleteStatus(ctx context.Context, id int64) error
	GetStatusByID(ctx context.Context, id int64) (Status, error)
	ListStatuses(ctx context.Context, search *string, limit, offset int) ([]Status, int64, error)
}

type postgresStatusRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &postgresStatusRepository{pool: pool}
}

func (r *postgresStatusRepository) CreateStatus(ctx context.Context, input Status) (Status, error) {
	query := `INSERT INTO asset_statuses (name, color, description)
              VALUES ($1, $2, $3)
              RETURNING id, name, color, description, created_at`

	var s Status
	err := r.pool.QueryRow(ctx, query, input.Name, input.Color, input.Description).
		Scan(&s.ID, &s.Name, &s.Color, &s.Description, &s.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "asset_statuses_name_key") {
			return Status{}, ErrStatusNameTaken
		}
		return Status{}, err
	}
	return s, nil
}

func (r *postgresStatusRepository) UpdateStatus(ctx context.Context, input Status) (Status, error) {
	query := `UPDATE asset_statuses
              SET name = $1, color = $2, description = $3
              WHERE id = $4
              RETURNING id, name, color, description, created_at`

	var s Status
	err := r.pool.QueryRow(ctx, query, input.Name, input.Color, input.Description, input.ID).
		Scan(&s.ID, &s.Name, &s.Color, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Status{}, ErrStatusNotFound
		}
		if db.IsUniqueViolation(err, "asset_statuses_name_key") {
			return Status{}, ErrStatusNameTaken
		}
		return Status{}, err
	}
	return s, nil
}

func (r *postgresStatusRepository) DeleteStatus(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM asset_statuses WHERE id = $1", id)
	if err != nil {
		if db.IsForeignKeyViolationOn(err, "assets_status_id_fkey") {
			return ErrStatusInUse
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStatusNotFound
	}
	return nil
}

func (r *postgresStatusRepository) GetStatusByID(ctx context.Context, id int64) (Status, error) {
	query := `SELECT s.id, s.name, s.color, s.description, s.created_at,
                     (SELECT COUNT(*) FROM assets a WHERE a.status_id = s.id)
              FROM asset_statuses s
              WHERE s.id = $1`

	var s Status
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Color, &s.Description, &s.CreatedAt, &s.AssetCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Status{}, ErrStatusNotFound
		}
		return Status{}, err
	}
	return s, nil
}

func (r *postgresStatusRepository) ListStatuses(ctx context.Context, search *string, limit, offset int) ([]Status, int64, error) {
	var pattern *string
	if search != nil {
		p := "%" + *search + "%"
		pattern = &p
	}

	query := `SELECT s.id, s.name, s.color, s.description, s.created_at, COUNT(a.id)
              FROM asset_statuses s
              LEFT JOIN assets a ON a.status_id = s.id
              WHERE $1::TEXT IS NULL OR s.name ILIKE $1 OR s.description ILIKE $1
              GROUP BY s.id
              ORDER BY s.name
              LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Status, 0)
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.Description, &s.CreatedAt, &s.AssetCount); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM asset_statuses s WHERE $1::TEXT IS NULL OR s.name ILIKE $1 OR s.description ILIKE $1",
		pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
