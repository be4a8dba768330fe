// Package handlers holds the response helpers shared by the HTTP handler
// packages, including the mapping from service errors to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chris/crypto-investments/pkg/api"
	"github.com/chris/crypto-investments/pkg/lifecycle"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/shopspring/decimal"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// DecodeJSON decodes the request body into v. Unknown fields are rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &lifecycle.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// ParseAmount parses a decimal money value from a request field.
func ParseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &lifecycle.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a decimal amount", value)}
	}
	return d, nil
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lifecycle.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as an api.Error. Server-side failures are logged and
// their details withheld from the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := api.Error{Error: err.Error()}

	var verr *lifecycle.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	var perr *lifecycle.PreconditionError
	if errors.As(err, &perr) {
		body.Current = perr.Current
	}

	switch status {
	case http.StatusServiceUnavailable:
		slog.Warn("transient failure", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set("Retry-After", "1")
		body.Error = "temporary failure, please try again"
	case http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Error = "internal error"
	}
	WriteJSON(w, status, body)
}
