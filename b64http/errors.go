package b64http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/presbrey/b64/base64"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

// statusFor maps codec errors to HTTP status codes: structurally malformed
// input is a 400, well-formed input with bad content is a 422.
func statusFor(err error) int {
	switch base64.Kind(err) {
	case "invalid_length", "empty_input", "invalid_block", "too_large":
		return http.StatusBadRequest
	case "invalid_char", "invalid_padding":
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// errorHandler replaces echo's default so codec failures carry their kind
// and offset.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := errorResponse{Error: http.StatusText(code)}

	var he *echo.HTTPError
	var cie *base64.CorruptInputError
	switch {
	case errors.As(err, &he):
		code = he.Code
		resp.Error = fmt.Sprint(he.Message)
	case errors.As(err, &cie):
		code = statusFor(err)
		resp.Error = err.Error()
		resp.Kind = base64.Kind(err)
		offset := cie.Offset
		resp.Offset = &offset
	case base64.Kind(err) != "unknown":
		code = statusFor(err)
		resp.Error = err.Error()
		resp.Kind = base64.Kind(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
