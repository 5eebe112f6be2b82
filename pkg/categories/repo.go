package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrCategoryNotFound  = apperr.New(apperr.KindNotFound, "category not found")
	ErrCategoryNameTaken = apperr.New(apperr.KindConflict, "category name already exists")
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, input Category) (Category, error)
	UpdateCategory(ctx context.Context, input Category) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &postgresCategoryRepository{pool: pool}
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, input Category) (Category, error) {
	query := `INSERT INTO categories (name, useful_life_months)
              VALUES ($1, $2)
              RETURNING id, name, useful_life_months, created_at`

	var c Category
	err := r.pool.QueryRow(ctx, query, input.Name, input.UsefulLifeMonths).
		Scan(&c.ID, &c.Name, &c.UsefulLifeMonths, &c.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Category{}, ErrCategoryNameTaken
		}
		return Category{}, err
	}
	return c, nil
}

func (r *postgresCategoryRepository) UpdateCategory(ctx context.Context, input Category) (Category, error) {
	query := `UPDATE categories
              SET name = $1, useful_life_months = $2
              WHERE id = $3
              RETURNING id, name, useful_life_months, created_at`

	var c Category
	err := r.pool.QueryRow(ctx, query, input.Name, input.UsefulLifeMonths, input.ID).
		Scan(&c.ID, &c.Name, &c.UsefulLifeMonths, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		if db.IsUniqueViolation(err, "") {
			return Category{}, ErrCategoryNameTaken
		}
		return Category{}, err
	}
	return c, nil
}

func (r *postgresCategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	query := `SELECT c.id, c.name, c.useful_life_months, c.created_at,
                     (SELECT COUNT(*) FROM assets a WHERE a.category_id = c.id)
              FROM categories c
              WHERE c.id = $1`

	var c Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.UsefulLifeMonths, &c.CreatedAt, &c.AssetCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *postgresCategoryRepository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT c.id, c.name, c.useful_life_months, c.created_at, COUNT(a.id)
              FROM categories c
              LEFT JOIN assets a ON a.category_id = c.id
              GROUP BY c.id
              ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UsefulLifeMonths, &c.CreatedAt, &c.AssetCount); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
