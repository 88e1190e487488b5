package api

import (
	"context"
	"net/http"
	"time"
)

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleTestDB reports whether the database answers a ping and a count.
func (s *Server) HandleTestDB(w http.ResponseWriter, r *http.Request) {
	databaseURL := "Not set"
	if s.cfg != nil && s.cfg.DatabaseURL != "" {
		databaseURL = "Set"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := s.checkDB(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":     false,
			"error":       err.Error(),
			"databaseUrl": databaseURL,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Database connection successful",
		"userCount":   count,
		"databaseUrl": databaseURL,
	})
}

func (s *Server) checkDB(ctx context.Context) (int64, error) {
	if err := s.store.Ping(ctx); err != nil {
		return 0, err
	}
	return s.store.CountUsers(ctx)
}
