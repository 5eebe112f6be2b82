package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"itams/pkg/testhelpers"
)

func TestPostgresSummaryRepository_CountsByStatus(t *testing.T) {
	pool := testhelpers.NewTestPool(t)
	repo := NewPostgresSummaryRepository(pool)
	ctx := context.Background()

	categoryID := testhelpers.CreateTestCategory(t, pool, nil)
	for _, status := range []string{"In Use", "In Use", "In Stock"} {
		assetID, _ := testhelpers.CreateTestAsset(t, pool, 0)
		_, err := pool.Exec(ctx,
			"UPDATE assets SET category_id = $1, status_id = (SELECT id FROM asset_statuses WHERE name = $2) WHERE id = $3",
			categoryID, status, assetID)
		require.NoError(t, err)
	}

	list, err := repo.CategorySummaries(ctx)
	require.NoError(t, err)

	var found *CategorySummary
	for i := range list {
		if list[i].CategoryID == categoryID {
			found = &list[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, int64(2), found.InUse)
	require.Equal(t, int64(1), found.InStock)
	require.Equal(t, int64(0), found.InRepair)
	require.Equal(t, int64(3), found.Total)
}
