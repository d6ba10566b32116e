package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

// Error is a failed response from the Ditto backend. Message is the server's
// human-readable text, surfaced to the user verbatim. Code is the structured
// error code the client branches on; older backends omit it, in which case
// callers fall back on StatusCode.
type Error struct {
	StatusCode int
	Code       dittoerrors.Code
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap maps the backend code onto the matching sentinel so callers can use
// errors.Is. Responses without a code have no sentinel.
func (e *Error) Unwrap() error {
	if e.Code == "" {
		return nil
	}
	return dittoerrors.SentinelFor(e.Code)
}

// errorBody is the backend's error envelope: {"error": "...", "code": "..."}.
type errorBody struct {
	ErrorMessage string `json:"error"`
	Code         string `json:"code"`
}

// DecodeError reads a non-2xx response into an *Error. The body is consumed.
func DecodeError(resp *http.Response) *Error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	if body.ErrorMessage != "" {
		apiErr.Message = body.ErrorMessage
	}
	apiErr.Code = dittoerrors.Code(body.Code)
	return apiErr
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if !dittoerrors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == status
}
