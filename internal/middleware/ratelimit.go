package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/socialchef/sous/internal/config"
	apperrors "github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/metrics"
)

// RateLimit applies one shared token bucket to every request it wraps.
// The bucket is global, not keyed by caller.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.RequestsPerMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			wait, ok := reserve(limiter)
			if !ok {
				slog.WarnContext(r.Context(), "Rate limit exceeded", "path", r.URL.Path, "retry_after", wait)
				metrics.RateLimitedTotal.Add(r.Context(), 1)

				appErr := apperrors.NewRateLimitError(
					"Too many generation requests",
					"RATE_LIMITED",
					"Wait a few seconds and try again",
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				w.WriteHeader(appErr.StatusCode)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":   appErr.Message,
					"type":    appErr.Type,
					"code":    appErr.ErrorCode,
					"details": appErr.Recovery,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// reserve takes a token when one is available now. Otherwise it reports
// how long until the next token, without consuming it.
func reserve(limiter *rate.Limiter) (time.Duration, bool) {
	res := limiter.Reserve()
	if !res.OK() {
		return time.Minute, false
	}
	if wait := res.Delay(); wait > 0 {
		res.Cancel()
		return max(wait, time.Second), false
	}
	return 0, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
