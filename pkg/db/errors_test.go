package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create asset: %w", &pgconn.PgError{Code: "23505", ConstraintName: "assets_asset_tag_key"})

	require.True(t, IsUniqueViolation(err, ""))
	require.True(t, IsUniqueViolation(err, "assets_asset_tag_key"))
	require.False(t, IsUniqueViolation(err, "assets_serial_number_key"))
	require.False(t, IsUniqueViolation(errors.New("duplicate key value"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	require.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsForeignKeyViolation(nil))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "audit_entries_found_location_id_fkey"}
	require.True(t, IsForeignKeyViolationOn(fk, "audit_entries_found_location_id_fkey"))
	require.False(t, IsForeignKeyViolationOn(fk, "audit_entries_scanned_by_fkey"))
}
