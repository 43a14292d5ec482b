package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("Rating must be between 0 and 5"), http.StatusBadRequest},
		{NoOp("No rating to remove"), http.StatusBadRequest},
		{Conflict("Email already registered"), http.StatusBadRequest},
		{NotFound("Movie not found"), http.StatusNotFound},
		{Unauthorized("nope"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{Unavailable("Movie metadata provider unavailable"), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestKindOfWrapped(t *testing.T) {
	sentinel := NotFound("User not found")
	wrapped := fmt.Errorf("lookup: %w", sentinel)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, Is(nil, KindNotFound))
	assert.Equal(t, "User not found", sentinel.Error())
}
