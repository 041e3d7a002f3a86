// Package common holds helpers shared by all handler packages.
package common

import (
	"errors"
	"net/http"

	"facops/internal/store"
)

// StatusFor maps storage-layer errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrTxFailed):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
