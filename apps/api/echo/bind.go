package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
)

var errResourceNotFound = core.NewNotFoundError("resource not found")

// bind decodes the request body into i.
func bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return errors.Wrapf(err, "binding to %T", i)
	}
	return nil
}

// paramID parses the :id path parameter. Malformed ids never match a resource.
func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errResourceNotFound
	}
	return id, nil
}
