package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/packlist/internal/middleware"
	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Anything not recognised is a 500 whose detail never reveals the cause.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var fieldErr *service.FieldError

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewLoginFailedError(err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewUnauthorizedError("user no longer exists")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrPackListNotFound):
		return model.NewNotFoundError("packing list")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrUsernameTaken):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.As(err, &fieldErr):
		return model.NewValidationError([]model.FieldError{
			{Field: fieldErr.Field, Message: fieldErr.Err.Error()},
		})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError()
	}
}

// writeServiceError maps err and writes it. Server faults are logged with
// the request id since the client only sees a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		problem.Instance = r.URL.Path
	}
	WriteError(w, problem)
}

// writeBadBody answers a body that is not valid JSON for the endpoint.
func writeBadBody(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		WriteError(w, model.NewRequestTooLargeError())
		return
	}
	WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
}
