package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/metrics"
	"github.com/socialchef/sous/internal/services/recipe"
	"github.com/socialchef/sous/internal/validation"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

func recordWrite(r *http.Request, op string) {
	metrics.RecipeWritesTotal.Add(r.Context(), 1, metric.WithAttributes(attribute.String("operation", op)))
}

// listParams reads category, search, limit and offset from the query string.
// ok is false when the category is not a known one.
func listParams(r *http.Request) (db.ListRecipesParams, bool) {
	q := r.URL.Query()
	p := db.ListRecipesParams{
		Search: strings.TrimSpace(q.Get("search")),
		Limit:  defaultListLimit,
	}

	if cat := strings.ToUpper(strings.TrimSpace(q.Get("category"))); cat != "" && cat != "ALL" {
		known := false
		for _, c := range recipe.Categories {
			if string(c) == cat {
				known = true
				break
			}
		}
		if !known {
			return p, false
		}
		p.Category = cat
	}

	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = min(n, maxListLimit)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		p.Offset = n
	}
	return p, true
}

func (s *Server) HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	params, ok := listParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	recipes, err := s.store.ListRecipes(r.Context(), params)
	if err != nil {
		serverError(w, r, err, "Failed to fetch recipes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (s *Server) HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var in validation.RecipeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Recipe(&in); err != nil {
		writeValidationError(w, err)
		return
	}

	author, err := s.actingUser(r.Context())
	if err != nil {
		serverError(w, r, err, "Failed to create recipe")
		return
	}

	created, err := s.store.CreateRecipe(r.Context(), createParams(in, author.ID))
	if err != nil {
		serverError(w, r, err, "Failed to create recipe")
		return
	}
	recordWrite(r, "create")

	writeJSON(w, http.StatusCreated, map[string]any{"recipe": created})
}

func (s *Server) HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeAppError(w, errRecipeNotFound)
		return
	}

	rec, err := s.store.GetRecipe(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeAppError(w, errRecipeNotFound)
			return
		}
		serverError(w, r, err, "Failed to fetch recipe")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": rec})
}

// authorize checks that the acting user owns the recipe. It writes the
// response and returns false when the request must stop.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, verb string) (uuid.UUID, bool) {
	failMsg := "Failed to " + verb + " recipe"

	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeAppError(w, errRecipeNotFound)
		return uuid.Nil, false
	}

	owner, err := s.store.RecipeAuthor(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeAppError(w, errRecipeNotFound)
			return uuid.Nil, false
		}
		serverError(w, r, err, failMsg)
		return uuid.Nil, false
	}

	user, err := s.actingUser(r.Context())
	if err != nil {
		serverError(w, r, err, failMsg)
		return uuid.Nil, false
	}
	if user.ID != owner {
		writeAppError(w, errNotOwner)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var in validation.RecipeUpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.RecipeUpdate(&in); err != nil {
		writeValidationError(w, err)
		return
	}

	id, ok := s.authorize(w, r, "update")
	if !ok {
		return
	}

	updated, err := s.store.UpdateRecipe(r.Context(), id, updateParams(in))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeAppError(w, errRecipeNotFound)
			return
		}
		serverError(w, r, err, "Failed to update recipe")
		return
	}
	recordWrite(r, "update")

	writeJSON(w, http.StatusOK, map[string]any{"recipe": updated})
}

func (s *Server) HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authorize(w, r, "delete")
	if !ok {
		return
	}

	if err := s.store.DeleteRecipe(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeAppError(w, errRecipeNotFound)
			return
		}
		serverError(w, r, err, "Failed to delete recipe")
		return
	}
	recordWrite(r, "delete")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}
