package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"procurement/internal/apperr"

	"github.com/stretchr/testify/require"
)

func TestFromWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("update negotiation: %w", apperr.NotFound("Negotiation not found", cause))

	got := apperr.From(err)
	require.Equal(t, apperr.KindNotFound, got.Kind)
	require.Equal(t, http.StatusNotFound, got.Status)
	require.ErrorIs(t, got, cause)
}

func TestFromPlainError(t *testing.T) {
	got := apperr.From(errors.New("boom"))
	require.Equal(t, apperr.KindInternal, got.Kind)
	require.Equal(t, http.StatusInternalServerError, got.Status)
	require.Equal(t, "Something went wrong", got.Message)
}

func TestWithStatusKeepsKind(t *testing.T) {
	base := apperr.Internal("Sorry, Something went wrong!!!", nil)
	got := base.WithStatus(http.StatusForbidden)

	require.Equal(t, apperr.KindInternal, got.Kind)
	require.Equal(t, http.StatusForbidden, got.Status)
	require.Equal(t, http.StatusInternalServerError, base.Status)
	require.True(t, apperr.IsKind(got, apperr.KindInternal))
	require.False(t, apperr.IsKind(got, apperr.KindForbidden))
}
