package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedepot/icedepot/internal/shared"
)

func TestRespondErrorMapsDomainErrors(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not found":        {shared.ErrNotFound, http.StatusNotFound},
		"validation":       {fmt.Errorf("%w: qty", shared.ErrValidation), http.StatusBadRequest},
		"precondition":     {fmt.Errorf("wrap: %w", shared.ErrPrecondition), http.StatusConflict},
		"version conflict": {shared.ErrVersionConflict, http.StatusConflict},
		"duplicate":        {shared.ErrDuplicate, http.StatusConflict},
		"forbidden":        {shared.ErrForbidden, http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
