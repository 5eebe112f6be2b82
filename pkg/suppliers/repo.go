package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrSupplierNotFound  = apperr.New(apperr.KindNotFound, "supplier not found")
	ErrSupplierHasAssets = apperr.New(apperr.KindStateConflict, "cannot delete supplier with associated assets")
)

type SupplierRepository interface {
	CreateSupplier(ctx context.Context, input Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, input Supplier) (Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	GetSupplierByID(ctx context.Context, id int64) (Supplier, error)
	ListSuppliers(ctx context.Context, limit, offset int) ([]Supplier, int64, error)
}

type postgresSupplierRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSupplierRepository(pool *pgxpool.Pool) SupplierRepository {
	return &postgresSupplierRepository{pool: pool}
}

func scanSupplier(row pgx.Row, withCount bool) (Supplier, error) {
	var s Supplier
	dest := []any{&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.Website, &s.CreatedAt, &s.UpdatedAt}
	if withCount {
		dest = append(dest, &s.AssetCount)
	}
	err := row.Scan(dest...)
	return s, err
}

const supplierColumns = "id, name, contact_person, email, phone, address, website, created_at, updated_at"

func (r *postgresSupplierRepository) CreateSupplier(ctx context.Context, input Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (name, contact_person, email, phone, address, website)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING ` + supplierColumns

	return scanSupplier(r.pool.QueryRow(ctx, query,
		input.Name, input.ContactPerson, input.Email, input.Phone, input.Address, input.Website), false)
}

func (r *postgresSupplierRepository) UpdateSupplier(ctx context.Context, input Supplier) (Supplier, error) {
	query := `UPDATE suppliers
              SET name = $1, contact_person = $2, email = $3, phone = $4, address = $5, website = $6, updated_at = NOW()
              WHERE id = $7
              RETURNING ` + supplierColumns

	s, err := scanSupplier(r.pool.QueryRow(ctx, query,
		input.Name, input.ContactPerson, input.Email, input.Phone, input.Address, input.Website, input.ID), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, ErrSupplierNotFound
	}
	return s, err
}

func (r *postgresSupplierRepository) DeleteSupplier(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		if db.IsForeignKeyViolationOn(err, "assets_supplier_id_fkey") {
			return ErrSupplierHasAssets
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func (r *postgresSupplierRepository) GetSupplierByID(ctx context.Context, id int64) (Supplier, error) {
	query := `SELECT ` + supplierColumns + `, (SELECT COUNT(*) FROM assets a WHERE a.supplier_id = suppliers.id)
              FROM suppliers
              WHERE id = $1`

	s, err := scanSupplier(r.pool.QueryRow(ctx, query, id), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, ErrSupplierNotFound
	}
	return s, err
}

// ListSuppliers returns newest first.
func (r *postgresSupplierRepository) ListSuppliers(ctx context.Context, limit, offset int) ([]Supplier, int64, error) {
	query := `SELECT s.id, s.name, s.contact_person, s.email, s.phone, s.address, s.website, s.created_at, s.updated_at,
                     COUNT(a.id)
              FROM suppliers s
              LEFT JOIN assets a ON a.supplier_id = s.id
              GROUP BY s.id
              ORDER BY s.created_at DESC, s.id DESC
              LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows, true)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM suppliers").Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
