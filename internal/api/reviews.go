package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/validation"
)

// HandleCreateReview records the acting user's rating. A repeat review by
// the same user replaces the earlier one.
func (s *Server) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeAppError(w, errRecipeNotFound)
		return
	}

	var in validation.ReviewInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Review(&in); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := s.actingUser(r.Context())
	if err != nil {
		serverError(w, r, err, "Failed to save review")
		return
	}

	review, err := s.store.UpsertReview(r.Context(), db.UpsertReviewParams{
		RecipeID: id,
		UserID:   user.ID,
		Rating:   in.Rating,
		Comment:  in.Comment,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeAppError(w, errRecipeNotFound)
			return
		}
		serverError(w, r, err, "Failed to save review")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"review": review})
}

func (s *Server) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeAppError(w, errRecipeNotFound)
		return
	}

	if _, err := s.store.RecipeAuthor(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeAppError(w, errRecipeNotFound)
			return
		}
		serverError(w, r, err, "Failed to fetch reviews")
		return
	}

	reviews, err := s.store.ListReviews(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "Failed to fetch reviews")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}
