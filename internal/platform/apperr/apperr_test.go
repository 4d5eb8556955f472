package apperr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/stretchr/testify/assert"
)

var errLineNotFound = apperr.NotFound("cart line not found")

func TestSentinelMatchesItsKind(t *testing.T) {
	wrapped := fmt.Errorf("UpdateQuantity: %w", errLineNotFound)

	assert.ErrorIs(t, wrapped, errLineNotFound)
	assert.ErrorIs(t, wrapped, apperr.ErrNotFound)
	assert.NotErrorIs(t, wrapped, apperr.ErrConflict)
	assert.Equal(t, "cart line not found", errLineNotFound.Error())
}

func TestBackend(t *testing.T) {
	assert.Nil(t, apperr.Backend(nil))

	err := apperr.Backend(sql.ErrConnDone)
	assert.ErrorIs(t, err, apperr.ErrBackend)
	assert.ErrorIs(t, err, sql.ErrConnDone)

	// already classified errors keep their kind
	assert.Same(t, errLineNotFound, apperr.Backend(errLineNotFound))
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validationf("quantity must be >= 1, got %d", 0), http.StatusBadRequest},
		{apperr.Unauthorized("missing token"), http.StatusUnauthorized},
		{errLineNotFound, http.StatusNotFound},
		{apperr.Conflict("already exists"), http.StatusConflict},
		{apperr.Backend(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apperr.Status(tc.err), tc.err.Error())
	}
}
