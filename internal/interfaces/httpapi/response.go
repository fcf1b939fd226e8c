package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/amit-kumar9766/ipl-dashboard/internal/usecase"
)

type errorBody struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	status, label := mapError(err)
	writeJSON(ctx, w, status, errorBody{Error: err.Error(), Status: label})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError,
		errorBody{Error: "internal server error", Status: "INTERNAL"})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
