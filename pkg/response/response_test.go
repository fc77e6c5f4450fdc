package response_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/bookshelf-paginate/internal/orm"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/internal/service"
	"github.com/maxviazov/bookshelf-paginate/pkg/response"
)

// fakeInvalid mimics the service's aggregated validation error.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"ok", nil, 200, "ok"},
		{"invalid_input", &fakeInvalid{fe: []service.FieldError{{Field: "name", Message: "bad"}}}, 400, "invalid_input"},
		{"unknown_relation", fmt.Errorf("%w %q on books", orm.ErrUnknownRelation, "publisher"), 400, "invalid_fetch_option"},
		{"unknown_column", fmt.Errorf("%w %q on books", orm.ErrUnknownColumn, "isbn"), 400, "invalid_fetch_option"},
		{"invalid_range", fmt.Errorf("%w: OFFSET must not be negative", repository.ErrInvalidRange), 400, "invalid_range"},
		{"not_found", repository.ErrNotFound, 404, "not_found"},
		{"already_exists", repository.ErrAlreadyExists, 409, "already_exists"},
		{"conflict", repository.ErrConflict, 409, "conflict"},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), 504, "timeout"},
		{"internal", errors.New("boom"), 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantErr, payload.Error)
			if tc.wantErr == "invalid_input" {
				assert.NotEmpty(t, payload.FieldErrors)
			}
		})
	}
}

func TestMapError_FetchOptionMessage(t *testing.T) {
	_, payload := response.MapError(fmt.Errorf("%w %q on books", orm.ErrUnknownRelation, "publisher"))
	assert.Contains(t, payload.Message, `"publisher"`)
}

func TestWriteError_AbortsAndRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	response.WriteError(c, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, c.IsAborted())
	assert.Len(t, c.Errors, 1)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}
