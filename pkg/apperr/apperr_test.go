package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesSentinelThroughWrap(t *testing.T) {
	sentinel := New(KindStateConflict, "session is closed")
	wrapped := fmt.Errorf("scan: %w", New(KindStateConflict, "session is closed"))

	require.ErrorIs(t, wrapped, sentinel)
	require.False(t, errors.Is(wrapped, New(KindStateConflict, "already closed")))
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", New(KindNotFound, "asset not found"))))
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.Equal(t, KindInternal, KindOf(nil))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "asset tag already exists")

	require.ErrorIs(t, err, cause)
	require.Equal(t, "asset tag already exists: duplicate key", err.Error())
	require.Equal(t, "asset tag already exists", err.Message())
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	require.Equal(t, http.StatusConflict, HTTPStatus(KindStateConflict))
	require.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(KindNotComputable))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(Kind("unknown")))
}
