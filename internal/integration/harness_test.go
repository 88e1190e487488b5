package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/sous/internal/api"
	"github.com/socialchef/sous/internal/config"
	"github.com/socialchef/sous/internal/httpclient"
	"github.com/socialchef/sous/internal/services/recipe"
	"github.com/socialchef/sous/internal/worker"
)

const (
	testSecret = "integration-secret"
	testIssuer = "https://auth.sous.test"
)

type harness struct {
	store   *memStore
	drafts  *memDrafts
	tasks   *inlineEnqueuer
	handler http.Handler
}

// newHarness wires the real router, generator chain and worker processor
// against in-memory storage. A nil provider is left unconfigured.
func newHarness(t *testing.T, primary, secondary *fakeProvider) *harness {
	t.Helper()

	cfg := &config.Config{
		ServiceName: "sous",
		DatabaseURL: "postgres://localhost/sous",
		JWTSecret:   testSecret,
		JWTIssuer:   testIssuer,
		RateLimit:   config.RateLimitConfig{RequestsPerMinute: 6000, Burst: 100},
		Generation: config.GenerationConfig{
			Primary: config.ProviderConfig{
				Provider:    config.ProviderOpenAI,
				Model:       "gpt-4o-mini",
				Temperature: 0.7,
				MaxTokens:   1200,
			},
			Secondary: config.ProviderConfig{
				Provider:    config.ProviderOpenRouter,
				Model:       "mistralai/mixtral-8x7b-instruct:free",
				Temperature: 0.7,
			},
		},
	}
	if primary != nil {
		cfg.OpenAIKey = "sk-test"
		cfg.Generation.Primary.BaseURL = primary.URL
	}
	if secondary != nil {
		cfg.OpenRouterKey = "or-test"
		cfg.Generation.Secondary.BaseURL = secondary.URL
	}

	generator := recipe.NewGeneratorFromConfig(cfg, httpclient.New(5*time.Second))
	h := &harness{store: newMemStore(), drafts: newMemDrafts()}
	h.tasks = &inlineEnqueuer{processor: worker.NewDraftProcessor(generator, h.drafts, nil)}
	h.handler = api.NewServer(cfg, generator, h.store, h.drafts, h.tasks).NewRouter()
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)

	var out map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr, out
}

// ============================================================================
// Test Token Helpers
// ============================================================================

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func userToken(t *testing.T, email, name string) string {
	return signClaims(t, testSecret, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"name":  name,
		"iss":   testIssuer,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
}
