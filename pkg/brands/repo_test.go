package brands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"itams/pkg/testhelpers"
)

func TestPostgresBrandRepository_CRUD(t *testing.T) {
	pool := testhelpers.NewTestPool(t)
	repo := NewPostgresBrandRepository(pool)
	ctx := context.Background()

	name := fmt.Sprintf("brand-%d", time.Now().UnixNano())
	created, err := repo.CreateBrand(ctx, Brand{Name: name, IsActive: true})
	require.NoError(t, err)
	require.True(t, created.IsActive)

	_, err = repo.CreateBrand(ctx, Brand{Name: name})
	require.ErrorIs(t, err, ErrBrandNameTaken)

	updated, err := repo.UpdateBrand(ctx, Brand{ID: created.ID, Name: name, IsActive: false})
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	search := name
	list, total, err := repo.ListBrands(ctx, &search, 15, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, created.ID, list[0].ID)

	_, err = repo.UpdateBrand(ctx, Brand{ID: -1, Name: "none"})
	require.ErrorIs(t, err, ErrBrandNotFound)
}

func TestPostgresBrandRepository_DeleteRefusedWithAssets(t *testing.T) {
	pool := testhelpers.NewTestPool(t)
	repo := NewPostgresBrandRepository(pool)
	ctx := context.Background()

	brandID := testhelpers.CreateTestBrand(t, pool)
	assetID, _ := testhelpers.CreateTestAsset(t, pool, 0)
	_, err := pool.Exec(ctx, "UPDATE assets SET brand_id = $1 WHERE id = $2", brandID, assetID)
	require.NoError(t, err)

	got, err := repo.GetBrandByID(ctx, brandID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AssetCount)

	require.ErrorIs(t, repo.DeleteBrand(ctx, brandID), ErrBrandHasAssets)

	_, err = pool.Exec(ctx, "UPDATE assets SET brand_id = NULL WHERE id = $1", assetID)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteBrand(ctx, brandID))
	require.ErrorIs(t, repo.DeleteBrand(ctx, brandID), ErrBrandNotFound)
}
