package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/statuses"
)

type SummaryRepository interface {
	CategorySummaries(ctx context.Context) ([]CategorySummary, error)
	Totals(ctx context.Context) (total, unassigned, openAudits int64, err error)
}

type postgresSummaryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSummaryRepository(pool *pgxpool.Pool) SummaryRepository {
	return &postgresSummaryRepository{pool: pool}
}

func (r *postgresSummaryRepository) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	query := `SELECT c.id, c.name,
                     COUNT(a.id) FILTER (WHERE s.name = $1),
                     COUNT(a.id) FILTER (WHERE s.name = $2),
                     COUNT(a.id) FILTER (WHERE s.name = $3),
                     COUNT(a.id)
              FROM categories c
              LEFT JOIN assets a ON a.category_id = c.id
              LEFT JOIN asset_statuses s ON s.id = a.status_id
              GROUP BY c.id
              ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query, statuses.InUse, statuses.InStock, statuses.InRepair)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]CategorySummary, 0)
	for rows.Next() {
		var s CategorySummary
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.InUse, &s.InStock, &s.InRepair, &s.Total); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *postgresSummaryRepository) Totals(ctx context.Context) (int64, int64, int64, error) {
	query := `SELECT (SELECT COUNT(*) FROM assets),
                     (SELECT COUNT(*) FROM assets WHERE assigned_to IS NULL),
                     (SELECT COUNT(*) FROM audit_sessions WHERE status = 'open')`

	var total, unassigned, openAudits int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &unassigned, &openAudits); err != nil {
		return 0, 0, 0, err
	}
	return total, unassigned, openAudits, nil
}
