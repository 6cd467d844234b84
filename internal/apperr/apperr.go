// Package apperr classifies errors into stable kinds and maps them to
// HTTP status codes.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

// kinder is satisfied by domain errors that carry a classification kind.
type kinder interface {
	Kind() string
}

var kindToStatus = map[string]int{
	"invalid_argument":   http.StatusBadRequest,
	"invalid_state":      http.StatusConflict,
	"payment_declined":   http.StatusBadRequest,
	"vendor_unavailable": http.StatusServiceUnavailable,
	"no_courier":         http.StatusServiceUnavailable,
	"timeout":            http.StatusGatewayTimeout,
	"canceled":           http.StatusRequestTimeout,
}

// Kind returns the classification of err, or "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code for err.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if s, ok := kindToStatus[Kind(err)]; ok {
		return s
	}

	return http.StatusInternalServerError
}
