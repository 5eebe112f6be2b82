package locations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrLocationNotFound  = apperr.New(apperr.KindNotFound, "location not found")
	ErrLocationNameTaken = apperr.New(apperr.KindConflict, "location name already exists")
	ErrLocationInAudit   = apperr.New(apperr.KindStateConflict, "location is referenced by audit sessions")
)

type LocationRepository interface {
	CreateLocation(ctx context.Context, name string) (Location, error)
	UpdateLocation(ctx context.Context, id int64, name string) (Location, error)
	DeleteLocation(ctx context.Context, id int64) error
	GetLocationByID(ctx context.Context, id int64) (Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
}

type postgresLocationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &postgresLocationRepository{pool: pool}
}

func (r *postgresLocationRepository) CreateLocation(ctx context.Context, name string) (Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx,
		"INSERT INTO locations (name) VALUES ($1) RETURNING id, name, created_at",
		name).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Location{}, ErrLocationNameTaken
		}
		return Location{}, err
	}
	return l, nil
}

func (r *postgresLocationRepository) UpdateLocation(ctx context.Context, id int64, name string) (Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx,
		"UPDATE locations SET name = $1 WHERE id = $2 RETURNING id, name, created_at",
		name, id).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, ErrLocationNotFound
		}
		if db.IsUniqueViolation(err, "") {
			return Location{}, ErrLocationNameTaken
		}
		return Location{}, err
	}
	return l, nil
}

func (r *postgresLocationRepository) DeleteLocation(ctx context.Context, id int64) error {
	// Audit sessions and entries keep their location; the FK restricts the delete.
	cmd, err := r.pool.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		if db.IsForeignKeyViolationOn(err, "audit_sessions_location_id_fkey") ||
			db.IsForeignKeyViolationOn(err, "audit_entries_found_location_id_fkey") {
			return ErrLocationInAudit
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func (r *postgresLocationRepository) GetLocationByID(ctx context.Context, id int64) (Location, error) {
	query := `SELECT l.id, l.name, l.created_at, (SELECT COUNT(*) FROM assets a WHERE a.location_id = l.id)
              FROM locations l
              WHERE l.id = $1`

	var l Location
	if err := r.pool.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.AssetCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, ErrLocationNotFound
		}
		return Location{}, err
	}
	return l, nil
}

func (r *postgresLocationRepository) ListLocations(ctx context.Context) ([]Location, error) {
	query := `SELECT l.id, l.name, l.created_at, COUNT(a.id)
              FROM locations l
              LEFT JOIN assets a ON a.location_id = l.id
              GROUP BY l.id
              ORDER BY l.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Location, 0)
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt, &l.AssetCount); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
