package brands

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrBrandNotFound  = apperr.New(apperr.KindNotFound, "brand not found")
	ErrBrandNameTaken = apperr.New(apperr.KindConflict, "brand name already exists")
	ErrBrandHasAssets = apperr.New(apperr.KindStateConflict, "cannot delete brand with associated assets")
)

type BrandRepository interface {
	CreateBrand(ctx context.Context, input Brand) (Brand, error)
	UpdateBrand(ctx context.Context, input Brand) (Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
	GetBrandByID(ctx context.Context, id int64) (Brand, error)
	ListBrands(ctx context.Context, search *string, limit, offset int) ([]Brand, int64, error)
}

type postgresBrandRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBrandRepository(pool *pgxpool.Pool) BrandRepository {
	return &postgresBrandRepository{pool: pool}
}

const brandColumns = "id, name, website, description, is_active, created_at, updated_at"

func (r *postgresBrandRepository) CreateBrand(ctx context.Context, input Brand) (Brand, error) {
	query := `INSERT INTO brands (name, website, description, is_active)
              VALUES ($1, $2, $3, $4)
              RETURNING ` + brandColumns

	var b Brand
	err := r.pool.QueryRow(ctx, query, input.Name, input.Website, input.Description, input.IsActive).
		Scan(&b.ID, &b.Name, &b.Website, &b.Description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "brands_name_key") {
			return Brand{}, ErrBrandNameTaken
		}
		return Brand{}, err
	}
	return b, nil
}

func (r *postgresBrandRepository) UpdateBrand(ctx context.Context, input Brand) (Brand, error) {
	query := `UPDATE brands
              SET name = $1, website = $2, description = $3, is_active = $4, updated_at = NOW()
              WHERE id = $5
              RETURNING ` + brandColumns

	var b Brand
	err := r.pool.QueryRow(ctx, query, input.Name, input.Website, input.Description, input.IsActive, input.ID).
		Scan(&b.ID, &b.Name, &b.Website, &b.Description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Brand{}, ErrBrandNotFound
		}
		if db.IsUniqueViolation(err, "brands_name_key") {
			return Brand{}, ErrBrandNameTaken
		}
		return Brand{}, err
	}
	return b, nil
}

// DeleteBrand relies on the assets.brand_id foreign key to refuse brands
// that are still in use.
func (r *postgresBrandRepository) DeleteBrand(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM brands WHERE id = $1", id)
	if err != nil {
		if db.IsForeignKeyViolationOn(err, "assets_brand_id_fkey") {
			return ErrBrandHasAssets
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBrandNotFound
	}
	return nil
}

func (r *postgresBrandRepository) GetBrandByID(ctx context.Context, id int64) (Brand, error) {
	query := `SELECT b.id, b.name, b.website, b.description, b.is_active, b.created_at, b.updated_at,
                     (SELECT COUNT(*) FROM assets a WHERE a.brand_id = b.id)
              FROM brands b
              WHERE b.id = $1`

	var b Brand
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.Name, &b.Website, &b.Description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt, &b.AssetCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Brand{}, ErrBrandNotFound
		}
		return Brand{}, err
	}
	return b, nil
}

func (r *postgresBrandRepository) ListBrands(ctx context.Context, search *string, limit, offset int) ([]Brand, int64, error) {
	var pattern *string
	if search != nil {
		p := "%" + *search + "%"
		pattern = &p
	}

	query := `SELECT b.id, b.name, b.website, b.description, b.is_active, b.created_at, b.updated_at, COUNT(a.id)
              FROM brands b
              LEFT JOIN assets a ON a.brand_id = b.id
              WHERE $1::TEXT IS NULL OR b.name ILIKE $1
              GROUP BY b.id
              ORDER BY b.name
              LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Brand, 0)
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Website, &b.Description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt, &b.AssetCount); err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM brands WHERE $1::TEXT IS NULL OR name ILIKE $1", pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
