package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
)

const (
	codeUnauthorized     = "UNAUTHORIZED"
	codeValidation       = "VALIDATION_ERROR"
	codeInvalidOperation = "INVALID_OPERATION"
	codeNotFound         = "NOT_FOUND"
	codeForbidden        = "FORBIDDEN"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeInternal         = "INTERNAL_SERVER_ERROR"

	msgInternal = "an unexpected error occurred"
)

var nowFunc = time.Now // mockable

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	ErrorCode  string            `json:"errorCode"`
	Timestamp  time.Time         `json:"timestamp"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func fieldsMap(flds []core.FieldError) map[string]string {
	if len(flds) == 0 {
		return nil
	}
	m := make(map[string]string, len(flds))
	for _, f := range flds {
		if _, ok := m[f.Field]; !ok { // keep the first message per field
			m[f.Field] = f.Error
		}
	}
	return m
}

// coreErrorResponse maps a classified service error. ok is false for KindInternal.
func coreErrorResponse(cErr *core.Error) (resp ErrorResponse, ok bool) {
	resp.Message = cErr.Msg
	switch cErr.Kind {
	case core.KindUnauthorized:
		resp.StatusCode, resp.ErrorCode = http.StatusUnauthorized, codeUnauthorized
	case core.KindValidation:
		resp.StatusCode, resp.ErrorCode = http.StatusBadRequest, codeValidation
		resp.Fields = fieldsMap(cErr.Fields)
	case core.KindConflict:
		resp.StatusCode, resp.ErrorCode = http.StatusBadRequest, codeInvalidOperation
		resp.Fields = fieldsMap(cErr.Fields)
	case core.KindNotFound:
		resp.StatusCode, resp.ErrorCode = http.StatusNotFound, codeNotFound
	case core.KindForbidden:
		resp.StatusCode, resp.ErrorCode = http.StatusForbidden, codeForbidden
	default:
		return ErrorResponse{}, false
	}
	return resp, true
}

// httpErrorResponse maps the errors raised by echo itself (routing, binding).
func httpErrorResponse(hErr *echo.HTTPError) (resp ErrorResponse, ok bool) {
	resp.StatusCode = hErr.Code
	resp.Message = fmt.Sprint(hErr.Message)
	switch hErr.Code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		resp.ErrorCode = codeValidation
	case http.StatusUnauthorized:
		resp.ErrorCode = codeUnauthorized
	case http.StatusForbidden:
		resp.ErrorCode = codeForbidden
	case http.StatusNotFound:
		resp.ErrorCode = codeNotFound
	case http.StatusMethodNotAllowed:
		resp.ErrorCode = codeMethodNotAllowed
	default:
		return ErrorResponse{}, false
	}
	return resp, true
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Unclassified errors are logged with the calling user and answered with a generic 500.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			resp ErrorResponse
			ok   bool
			hErr *echo.HTTPError
		)
		if cErr, isCore := core.AsError(err); isCore {
			resp, ok = coreErrorResponse(cErr)
		} else if errors.As(err, &hErr) {
			resp, ok = httpErrorResponse(hErr)
		}

		if !ok { // any other error is a server error
			resp = ErrorResponse{
				StatusCode: http.StatusInternalServerError,
				Message:    msgInternal,
				ErrorCode:  codeInternal,
			}
			args := []interface{}{err}
			if claims, found := getContextClaims(ctx); found {
				args = append(args, claims.User())
			}
			logger.Error(fmt.Sprintf("%s %s", ctx.Request().Method, ctx.Request().URL.Path), args...)
		}
		resp.Timestamp = nowFunc().UTC()

		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(resp.StatusCode)
		} else {
			err = ctx.JSON(resp.StatusCode, resp)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
