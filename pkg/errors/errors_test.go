package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("Title and content are required"), http.StatusBadRequest},
		{"not found", NotFound("Article not found"), http.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrArticleNotFound), http.StatusNotFound},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"persistence", ErrPersistence, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("handler: %w", Validation("Search query is required"))
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "Search query is required", PublicMessage(err))
	assert.Equal(t, "boom", PublicMessage(errors.New("boom")))
}
