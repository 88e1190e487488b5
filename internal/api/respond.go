package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/logger"
	"github.com/socialchef/sous/internal/sentry"
)

var (
	errRecipeNotFound = apperrors.NewNotFoundError("Recipe not found", "RECIPE_NOT_FOUND", "")
	errDraftNotFound  = apperrors.NewNotFoundError("Draft not found", "DRAFT_NOT_FOUND", "Drafts expire 24 hours after generation.")
	errNotOwner       = apperrors.NewForbiddenError("Unauthorized", "NOT_OWNER")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeAppError(w http.ResponseWriter, e *apperrors.AppError) {
	writeError(w, e.StatusCode, e.Message)
}

// writeValidationError answers 400 with the error message and, when present,
// the per-field messages.
func writeValidationError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body := map[string]any{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	writeJSON(w, http.StatusBadRequest, body)
}

// serverError logs and reports err, then answers 500 with a fixed message.
func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	ctx := r.Context()
	err = apperrors.NewInternalError(msg, err)
	slog.ErrorContext(ctx, msg, "error", err, "path", r.URL.Path, logger.WithTraceContext(ctx))
	sentry.CaptureError(ctx, err, map[string]string{"route": r.URL.Path})
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
