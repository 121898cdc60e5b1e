package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/validation"
)

// dbTimeout bounds the store calls of a single request.
const dbTimeout = 5 * time.Second

// envelope is the body of every response the API writes.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Error: msg})
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// bindError wraps a failed c.Bind so that the client sees a 400 without
// the decoder's internals.
func bindError(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
}

// NewErrorHandler renders every error returned by a handler or middleware
// in the response envelope.  Store and other unexpected errors become a
// 500 "server error" and are logged; nothing internal reaches the client.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"err", err,
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error("write error response", "err", werr)
		}
	}
}

func classify(err error) (int, envelope) {
	var (
		verr *validation.Error
		herr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, envelope{Error: verr.Error(), Fields: verr.Fields}
	case errors.As(err, &herr):
		if herr.Code >= http.StatusInternalServerError {
			return herr.Code, envelope{Error: http.StatusText(herr.Code)}
		}
		msg := http.StatusText(herr.Code)
		if herr.Message != nil {
			msg = fmt.Sprint(herr.Message)
		}
		return herr.Code, envelope{Error: msg}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, envelope{Error: "not found"}
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, envelope{Error: "email already exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, envelope{Error: "conflict"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, envelope{Error: "request timed out"}
	}
	return http.StatusInternalServerError, envelope{Error: "server error"}
}
