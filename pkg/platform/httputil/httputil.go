// Package httputil holds the shared JSON plumbing for HTTP handlers:
// response writing, error-to-status mapping, and request decoding.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "sss/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; no entry point accepts unbounded input.
const maxBodyBytes = 1 << 16

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error to an HTTP status and writes the standard
// error body. Uncoded errors surface as 500 without leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code)

	msg := err.Error()
	if code == dErrors.CodeInternal {
		msg = "internal error"
	}
	WriteJSON(w, status, ErrorResponse{
		Error:   string(code),
		Reason:  dErrors.ReasonOf(err),
		Message: msg,
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads and unmarshals a bounded JSON request body into T.
// A false return means the error response has already been written.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
			return req, false
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return req, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unexpected trailing data"))
		return req, false
	}
	return req, true
}
