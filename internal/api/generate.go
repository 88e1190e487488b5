package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/sous/internal/cache"
	"github.com/socialchef/sous/internal/db"
	apperrors "github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/metrics"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/recipe"
	"github.com/socialchef/sous/internal/worker"
)

type GenerateRecipeResponse struct {
	Recipe  recipe.Draft `json:"recipe"`
	Note    string       `json:"note,omitempty"`
	DraftID string       `json:"draftId,omitempty"`
}

type AsyncGenerateResponse struct {
	DraftID string `json:"draftId"`
}

func recordDraftOp(r *http.Request, op string) {
	metrics.DraftOperationsTotal.Add(r.Context(), 1, metric.WithAttributes(attribute.String("operation", op)))
}

// HandleGenerateRecipe runs the generation chain inline. When drafts are
// enabled the result is also stored so it can be saved later by id.
func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req ai.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			writeValidationError(w, err)
			return
		}
		serverError(w, r, err, "Failed to generate recipe")
		return
	}

	resp := GenerateRecipeResponse{Recipe: result.Recipe, Note: result.Note}

	if s.drafts != nil {
		draft := cache.NewPendingDraft(req)
		draft.Complete(result)
		if err := s.drafts.Put(r.Context(), draft); err != nil {
			slog.WarnContext(r.Context(), "Failed to store draft", "error", err)
		} else {
			recordDraftOp(r, "create")
			resp.DraftID = draft.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGenerateRecipeAsync stores a pending draft and queues its generation.
func (s *Server) HandleGenerateRecipeAsync(w http.ResponseWriter, r *http.Request) {
	var req ai.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := ai.BuildRecipePrompt(req); err != nil {
		writeValidationError(w, err)
		return
	}
	if s.drafts == nil || s.tasks == nil {
		writeError(w, http.StatusServiceUnavailable, "Async generation is not enabled")
		return
	}

	draft := cache.NewPendingDraft(req)
	if err := s.drafts.Put(r.Context(), draft); err != nil {
		serverError(w, r, err, "Failed to create draft")
		return
	}
	recordDraftOp(r, "create")

	task, err := worker.NewGenerateRecipeTask(worker.GenerateRecipePayload{DraftID: draft.ID})
	if err != nil {
		serverError(w, r, err, "Failed to create task")
		return
	}

	if _, err := s.tasks.Enqueue(task); err != nil {
		draft.Fail("Failed to enqueue generation")
		_ = s.drafts.Put(r.Context(), draft)
		serverError(w, r, err, "Failed to enqueue task")
		return
	}

	writeJSON(w, http.StatusAccepted, AsyncGenerateResponse{DraftID: draft.ID})
}

func (s *Server) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		writeError(w, http.StatusServiceUnavailable, "Drafts are not enabled")
		return
	}

	draft, err := s.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serverError(w, r, err, "Failed to fetch draft")
		return
	}
	if draft == nil {
		writeAppError(w, errDraftNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"draft": draft})
}

// HandleSaveDraft persists a completed draft as a recipe. Saving the same
// draft twice returns the recipe created the first time; a save that races
// another save of the same draft gets 409.
func (s *Server) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		writeError(w, http.StatusServiceUnavailable, "Drafts are not enabled")
		return
	}
	id := chi.URLParam(r, "id")

	draft, ok := s.readyDraft(w, r, id)
	if !ok || s.writeSavedDraft(w, r, draft) {
		return
	}

	locked, err := s.drafts.Lock(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "Failed to save draft")
		return
	}
	if !locked {
		writeError(w, http.StatusConflict, "Draft is already being saved")
		return
	}
	defer func() {
		_ = s.drafts.Unlock(context.WithoutCancel(r.Context()), id)
	}()

	// Re-read under the lock in case a concurrent save finished first.
	draft, ok = s.readyDraft(w, r, id)
	if !ok || s.writeSavedDraft(w, r, draft) {
		return
	}

	author, err := s.actingUser(r.Context())
	if err != nil {
		serverError(w, r, err, "Failed to create recipe")
		return
	}

	created, err := s.store.CreateRecipe(r.Context(), draftParams(*draft.Recipe, author.ID))
	if err != nil {
		serverError(w, r, err, "Failed to create recipe")
		return
	}
	recordWrite(r, "create")

	draft.SavedRecipeID = created.ID.String()
	if err := s.drafts.Put(r.Context(), draft); err != nil {
		slog.WarnContext(r.Context(), "Failed to mark draft saved", "draft_id", draft.ID, "error", err)
	} else {
		recordDraftOp(r, "save")
	}

	writeJSON(w, http.StatusCreated, map[string]any{"recipe": created})
}

// readyDraft loads a completed draft, writing 404 or 409 when there is none.
func (s *Server) readyDraft(w http.ResponseWriter, r *http.Request, id string) (*cache.Draft, bool) {
	draft, err := s.drafts.Get(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "Failed to fetch draft")
		return nil, false
	}
	if draft == nil {
		writeAppError(w, errDraftNotFound)
		return nil, false
	}
	if draft.Status != cache.DraftCompleted || draft.Recipe == nil {
		writeError(w, http.StatusConflict, "Draft is not ready")
		return nil, false
	}
	return draft, true
}

// writeSavedDraft answers with the recipe a draft was already saved as.
// It reports false when the draft has not been saved yet.
func (s *Server) writeSavedDraft(w http.ResponseWriter, r *http.Request, draft *cache.Draft) bool {
	if draft.SavedRecipeID == "" {
		return false
	}
	id, ok := parseID(draft.SavedRecipeID)
	if !ok {
		return false
	}
	saved, err := s.store.GetRecipe(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		return false
	}
	if err != nil {
		serverError(w, r, err, "Failed to fetch recipe")
		return true
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipe": saved})
	return true
}
