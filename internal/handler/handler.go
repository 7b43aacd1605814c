package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"evote/internal/errors"
)

// MessageResponse is returned by operations that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// httpError converts a service error into an echo error carrying an
// ErrorResponse. Errors without a domain mapping are logged and surface as a
// generic 500.
func httpError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return httpError(c, fmt.Errorf("%w: invalid request body", errors.ErrInvalidArgument))
	}
	if err := c.Validate(req); err != nil {
		return httpError(c, fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err))
	}
	return nil
}
