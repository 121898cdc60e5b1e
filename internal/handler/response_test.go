package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/testutil"
	"github.com/palclasses/site-api/internal/validation"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", validation.NewError("name", "name is required"), http.StatusBadRequest, "name is required"},
		{"not found", fmt.Errorf("load: %w", repository.ErrNotFound), http.StatusNotFound, "not found"},
		{"conflict", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"email", repository.ErrEmailExists, http.StatusConflict, "email already exists"},
		{"http", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"http 5xx", echo.NewHTTPError(http.StatusServiceUnavailable, "pool exhausted"), http.StatusServiceUnavailable, "Service Unavailable"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "request timed out"},
		{"store", errors.New("dial tcp 10.0.0.5:3306: refused"), http.StatusInternalServerError, "server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body.Error)
			assert.False(t, body.Success)
		})
	}
}

func TestErrorHandlerHidesInternals(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/demo", nil), rec)

	NewErrorHandler(testutil.TestLogger())(errors.New("Error 1045: Access denied for user 'root'"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"server error"}`, rec.Body.String())
}

func TestHealthReportsDatabase(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)

	err := Health(pingFunc(func(context.Context) error { return errors.New("down") }))(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }
