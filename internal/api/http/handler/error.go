package handler

import (
	"errors"
	"net/http"

	"github.com/s123600g/tokenforge/internal/model"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrRefreshDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrRefreshDenied):
		return "token is no longer eligible for refresh"
	case errors.Is(err, model.ErrNotFound):
		return "token is unknown"
	default:
		return "internal server error"
	}
}
