package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/usecase/editor"
	"ncr-quality-backend/internal/usecase/report"
	"ncr-quality-backend/internal/usecase/session"
)

// statusOf maps a usecase error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ncr.ErrValidation),
		errors.Is(err, eightd.ErrUnknownField),
		errors.Is(err, eightd.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ncr.ErrNoIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, ncr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrBadPassphrase):
		return http.StatusUnauthorized
	case errors.Is(err, report.ErrInvalidState), errors.Is(err, editor.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ncr.ErrConnection), errors.Is(err, eightd.ErrDrafterUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ncr.ErrWrite), errors.Is(err, report.ErrDraft), errors.Is(err, report.ErrRender):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError renders err as an ErrorResponse.
func writeError(c echo.Context, err error) error {
	code := statusOf(err)
	resp := ErrorResponse{Error: err.Error()}

	var ve *ncr.ValidationError
	var de *eightd.DraftError
	switch {
	case errors.As(err, &ve):
		resp.Error = "validation failed"
		resp.Details = []FieldError{{Field: ve.Field, Message: ve.Message}}
	case errors.As(err, &de):
		resp.Details = []FieldError{{Field: de.Field, Message: de.Reason}}
	case errors.Is(err, ncr.ErrConnection):
		resp.Hint = ncr.ConnectionHint
	case code == http.StatusInternalServerError:
		c.Logger().Error(err)
		resp.Error = "internal error"
	}
	return c.JSON(code, resp)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// bindAndValidate decodes the body into req and runs the struct validator.
// It writes the error response itself and reports whether the handler may go on.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
