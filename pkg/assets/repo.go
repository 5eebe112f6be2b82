package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrAssetNotFound        = apperr.New(apperr.KindNotFound, "asset not found")
	ErrSomeAssetsNotFound   = apperr.New(apperr.KindNotFound, "one or more assets not found")
	ErrAssetTagTaken        = apperr.New(apperr.KindConflict, "asset tag already exists")
	ErrSerialNumberTaken    = apperr.New(apperr.KindConflict, "serial number already exists")
	ErrInvalidAssetRelation = apperr.New(apperr.KindValidation, "referenced record does not exist")
	ErrUnknownActor         = apperr.New(apperr.KindUnauthorized, "unknown actor")
)

type AssetRepository interface {
	CreateAsset(ctx context.Context, input Asset) (Asset, error)
	UpdateAsset(ctx context.Context, input Asset) (Asset, error)
	DeleteAsset(ctx context.Context, id int64) error
	DeleteAssets(ctx context.Context, ids []int64) (int64, error)
	GetAssetByID(ctx context.Context, id int64) (Asset, error)
	ListAssets(ctx context.Context, filters AssetFilters, order SortOrder, limit, offset int) ([]Asset, int64, error)
}

type postgresAssetRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &postgresAssetRepository{pool: pool}
}

const selectAsset = `SELECT a.id, a.name, a.asset_tag, a.serial_number, a.model, a.specifications,
                            a.category_id, c.name, c.useful_life_months,
                            a.status_id, s.name, a.location_id, l.name,
                            a.brand_id, b.name, a.supplier_id, sp.name, a.assigned_to, u.name,
                            a.purchase_date, a.deployed_at, a.purchase_cost, a.warranty_expiry, a.notes,
                            a.created_by, a.created_at, a.updated_at
                     FROM assets a
                     LEFT JOIN categories c ON c.id = a.category_id
                     LEFT JOIN asset_statuses s ON s.id = a.status_id
                     LEFT JOIN locations l ON l.id = a.location_id
                     LEFT JOIN brands b ON b.id = a.brand_id
                     LEFT JOIN suppliers sp ON sp.id = a.supplier_id
                     LEFT JOIN users u ON u.id = a.assigned_to`

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.Name, &a.AssetTag, &a.SerialNumber, &a.Model, &a.Specifications,
		&a.CategoryID, &a.CategoryName, &a.UsefulLifeMonths,
		&a.StatusID, &a.StatusName, &a.LocationID, &a.LocationName,
		&a.BrandID, &a.BrandName, &a.SupplierID, &a.SupplierName, &a.AssignedTo, &a.AssignedToName,
		&a.PurchaseDate, &a.DeployedAt, &a.PurchaseCost, &a.WarrantyExpiry, &a.Notes,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "assets_asset_tag_key"):
		return ErrAssetTagTaken
	case db.IsUniqueViolation(err, "assets_serial_number_key"):
		return ErrSerialNumberTaken
	case db.IsForeignKeyViolationOn(err, "assets_created_by_fkey"):
		return ErrUnknownActor
	case db.IsForeignKeyViolation(err):
		return ErrInvalidAssetRelation
	}
	return err
}

func (r *postgresAssetRepository) CreateAsset(ctx context.Context, input Asset) (Asset, error) {
	// New assets start "In Stock" unless a status is given.
	query := `INSERT INTO assets (name, asset_tag, serial_number, model, specifications, category_id, status_id,
                                  location_id, brand_id, supplier_id, purchase_date, deployed_at, purchase_cost,
                                  warranty_expiry, notes, created_by)
              VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, (SELECT id FROM asset_statuses WHERE name = 'In Stock')),
                      $8, $9, $10, $11, $12, $13, $14, $15, $16)
              RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		input.Name, input.AssetTag, input.SerialNumber, input.Model, input.Specifications, input.CategoryID, input.StatusID,
		input.LocationID, input.BrandID, input.SupplierID, input.PurchaseDate, input.DeployedAt, input.PurchaseCost,
		input.WarrantyExpiry, input.Notes, input.CreatedBy,
	).Scan(&id)
	if err != nil {
		return Asset{}, mapWriteError(err)
	}

	return r.GetAssetByID(ctx, id)
}

func (r *postgresAssetRepository) UpdateAsset(ctx context.Context, input Asset) (Asset, error) {
	query := `UPDATE assets
              SET name = $1, serial_number = $2, model = $3, specifications = $4, category_id = $5, status_id = $6,
                  location_id = $7, brand_id = $8, supplier_id = $9, purchase_date = $10, deployed_at = $11,
                  purchase_cost = $12, warranty_expiry = $13, notes = $14, updated_at = NOW()
              WHERE id = $15
              RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		input.Name, input.SerialNumber, input.Model, input.Specifications, input.CategoryID, input.StatusID,
		input.LocationID, input.BrandID, input.SupplierID, input.PurchaseDate, input.DeployedAt, input.PurchaseCost,
		input.WarrantyExpiry, input.Notes, input.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, mapWriteError(err)
	}

	return r.GetAssetByID(ctx, id)
}

func (r *postgresAssetRepository) DeleteAsset(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM assets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// DeleteAssets removes every listed asset or none of them.
func (r *postgresAssetRepository) DeleteAssets(ctx context.Context, ids []int64) (int64, error) {
	var deleted int64
	err := db.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, "DELETE FROM assets WHERE id = ANY($1)", ids)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() != int64(len(ids)) {
			return ErrSomeAssetsNotFound
		}
		deleted = cmd.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *postgresAssetRepository) GetAssetByID(ctx context.Context, id int64) (Asset, error) {
	a, err := scanAsset(r.pool.QueryRow(ctx, selectAsset+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, err
	}
	return a, nil
}

func (r *postgresAssetRepository) ListAssets(ctx context.Context, filters AssetFilters, order SortOrder, limit, offset int) ([]Asset, int64, error) {
	whereClauses := []string{"TRUE"}
	args := []any{}
	argPos := 1

	if filters.Search != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("(a.name ILIKE $%d OR a.asset_tag ILIKE $%d OR a.serial_number ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+*filters.Search+"%")
		argPos++
	}

	if filters.StatusID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.status_id = $%d", argPos))
		args = append(args, *filters.StatusID)
		argPos++
	}

	if filters.CategoryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.category_id = $%d", argPos))
		args = append(args, *filters.CategoryID)
		argPos++
	}

	if filters.LocationID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.location_id = $%d", argPos))
		args = append(args, *filters.LocationID)
		argPos++
	}

	if filters.BrandID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.brand_id = $%d", argPos))
		args = append(args, *filters.BrandID)
		argPos++
	}

	if filters.SupplierID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.supplier_id = $%d", argPos))
		args = append(args, *filters.SupplierID)
		argPos++
	}

	if filters.Unassigned {
		whereClauses = append(whereClauses, "a.assigned_to IS NULL")
	} else if filters.AssignedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.assigned_to = $%d", argPos))
		args = append(args, *filters.AssignedTo)
		argPos++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`%s
              %s
              ORDER BY %s
              LIMIT $%d OFFSET $%d`, selectAsset, whereSQL, order.sql(), argPos, argPos+1)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assetsList := make([]Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assetsList = append(assetsList, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM assets a %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return assetsList, total, nil
}
