package testhelpers

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"itams/pkg/db"
)

var (
	uniqueCounter int64
	// Distinguishes fixtures from earlier runs against the same database.
	runPrefix = time.Now().Unix() % 100_000
)

func nextSuffix() int64 {
	return runPrefix*1_000_000 + atomic.AddInt64(&uniqueCounter, 1)
}

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// NewTestPool connects to DATABASE_URL_FOR_TEST, or to a throwaway postgres
// container when ITAMS_TESTCONTAINERS=1, and applies migrations. The test is
// skipped when neither is available.
func NewTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		if os.Getenv("ITAMS_TESTCONTAINERS") != "1" {
			t.Skip("DATABASE_URL_FOR_TEST not set; skipping repository tests")
		}
		dsn = startContainer(t)
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, db.Migrate(ctx, pool))

	t.Cleanup(pool.Close)
	return pool
}

func startContainer(t *testing.T) string {
	t.Helper()

	containerOnce.Do(func() {
		ctx := context.Background()
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("itams_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	require.NoError(t, containerErr)
	return containerDSN
}

// CreateTestUser inserts a minimal valid user row and returns its ID.
func CreateTestUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	name := fmt.Sprintf("test-user-%d", nextSuffix())
	email := fmt.Sprintf("%s@example.com", name)

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO users (name, email, role, password_hash) VALUES ($1, $2, 'staff', 'hash') RETURNING id",
		name, email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestLocation inserts a uniquely named location and returns its ID.
func CreateTestLocation(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO locations (name) VALUES ($1) RETURNING id",
		fmt.Sprintf("test-location-%d", nextSuffix())).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestCategory inserts a category with the given useful life (nil for none).
func CreateTestCategory(t *testing.T, pool *pgxpool.Pool, usefulLifeMonths *int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO categories (name, useful_life_months) VALUES ($1, $2) RETURNING id",
		fmt.Sprintf("test-category-%d", nextSuffix()), usefulLifeMonths).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestAsset inserts an asset at locationID (0 for none) and returns its ID and tag.
func CreateTestAsset(t *testing.T, pool *pgxpool.Pool, locationID int64) (int64, string) {
	t.Helper()

	suffix := nextSuffix()
	tag := fmt.Sprintf("TST-%d", suffix)
	serial := fmt.Sprintf("SN-%d", suffix)

	var loc *int64
	if locationID > 0 {
		loc = &locationID
	}

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO assets (name, asset_tag, serial_number, location_id) VALUES ($1, $2, $3, $4) RETURNING id",
		"test-asset-"+tag, tag, serial, loc).Scan(&id)
	require.NoError(t, err)
	return id, tag
}

// CreateTestBrand inserts an active, uniquely named brand and returns its ID.
func CreateTestBrand(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO brands (name) VALUES ($1) RETURNING id",
		fmt.Sprintf("test-brand-%d", nextSuffix())).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestSupplier inserts a supplier and returns its ID.
func CreateTestSupplier(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO suppliers (name) VALUES ($1) RETURNING id",
		fmt.Sprintf("test-supplier-%d", nextSuffix())).Scan(&id)
	require.NoError(t, err)
	return id
}
