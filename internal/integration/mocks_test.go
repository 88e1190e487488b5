package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/socialchef/sous/internal/cache"
	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/worker"
)

// ============================================================================
// Fake chat-completion provider
// ============================================================================

type fakeProvider struct {
	*httptest.Server
	status  int
	body    string
	calls   atomic.Int32
	mu      sync.Mutex
	lastReq map[string]any
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{status: status, body: body}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		p.mu.Lock()
		p.lastReq = req
		p.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(p.status)
		_, _ = w.Write([]byte(p.body))
	}))
	t.Cleanup(p.Close)
	return p
}

func (p *fakeProvider) request() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReq
}

// completion wraps content in a chat-completion response body.
func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(b)
}

const recipeJSON = `{
  "title": "Lemon Garlic Chicken",
  "description": "Pan-roasted chicken with lemon and garlic.",
  "prepTime": 10,
  "cookTime": 25,
  "servings": 4,
  "difficulty": "EASY",
  "category": "DINNER",
  "cuisine": "Mediterranean",
  "tags": ["chicken", "weeknight"],
  "calories": 380,
  "protein": 36,
  "carbs": 6,
  "fat": 22,
  "ingredients": [
    {"name": "chicken thighs", "amount": "8", "unit": "pieces"},
    {"name": "lemon", "amount": "1", "unit": "whole", "notes": "zested and juiced"},
    {"name": "garlic", "amount": "4", "unit": "cloves"}
  ],
  "instructions": [
    {"stepNumber": 1, "description": "Season and brown the chicken."},
    {"stepNumber": 2, "description": "Add garlic and lemon, then roast until cooked through."}
  ]
}`

const quotaBody = `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`

// ============================================================================
// In-memory recipe store
// ============================================================================

type memStore struct {
	mu      sync.Mutex
	users   map[string]db.User
	recipes map[uuid.UUID]db.Recipe
	reviews map[uuid.UUID][]db.Review
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]db.User{},
		recipes: map[uuid.UUID]db.Recipe{},
		reviews: map[uuid.UUID][]db.Review{},
	}
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) CountUsers(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memStore) EnsureUser(_ context.Context, email, name string) (db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	u := db.User{ID: uuid.New(), Email: email, Name: name}
	s.users[email] = u
	return u, nil
}

func (s *memStore) userByID(id uuid.UUID) db.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return db.User{}
}

func (s *memStore) ListRecipes(_ context.Context, p db.ListRecipesParams) ([]db.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []db.Recipe{}
	for _, r := range s.recipes {
		if p.Category != "" && r.Category != p.Category {
			continue
		}
		if p.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(p.Search)) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if p.Offset >= len(out) {
		return []db.Recipe{}, nil
	}
	out = out[p.Offset:]
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (s *memStore) GetRecipe(_ context.Context, id uuid.UUID) (db.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return db.Recipe{}, db.ErrNotFound
	}
	r.Reviews = append([]db.Review{}, s.reviews[id]...)
	return r, nil
}

func (s *memStore) RecipeAuthor(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return uuid.Nil, db.ErrNotFound
	}
	return r.Author.ID, nil
}

func (s *memStore) CreateRecipe(_ context.Context, p db.CreateRecipeParams) (db.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	author := s.userByID(p.AuthorID)
	r := db.Recipe{
		ID:          uuid.New(),
		Title:       p.Title,
		Description: p.Description,
		PrepTime:    p.PrepTime,
		CookTime:    p.CookTime,
		Servings:    p.Servings,
		Difficulty:  p.Difficulty,
		Category:    p.Category,
		Cuisine:     p.Cuisine,
		Tags:        p.Tags,
		Calories:    p.Calories,
		Author:      db.Author{ID: author.ID, Name: author.Name},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, ing := range p.Ingredients {
		r.Ingredients = append(r.Ingredients, db.Ingredient{ID: uuid.New(), Name: ing.Name, Amount: ing.Amount, Unit: ing.Unit, Notes: ing.Notes})
	}
	for _, st := range p.Instructions {
		r.Instructions = append(r.Instructions, db.Instruction{ID: uuid.New(), StepNumber: st.StepNumber, Description: st.Description})
	}
	s.recipes[r.ID] = r
	return r, nil
}

func (s *memStore) UpdateRecipe(_ context.Context, id uuid.UUID, p db.UpdateRecipeParams) (db.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return db.Recipe{}, db.ErrNotFound
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Servings != nil {
		r.Servings = *p.Servings
	}
	r.UpdatedAt = time.Now()
	s.recipes[id] = r
	return r, nil
}

func (s *memStore) DeleteRecipe(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.recipes, id)
	delete(s.reviews, id)
	return nil
}

func (s *memStore) UpsertReview(_ context.Context, p db.UpsertReviewParams) (db.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[p.RecipeID]; !ok {
		return db.Review{}, db.ErrNotFound
	}

	user := s.userByID(p.UserID)
	review := db.Review{
		ID:        uuid.New(),
		RecipeID:  p.RecipeID,
		User:      db.Author{ID: user.ID, Name: user.Name},
		Rating:    p.Rating,
		Comment:   p.Comment,
		CreatedAt: time.Now(),
	}

	existing := s.reviews[p.RecipeID]
	for i, rv := range existing {
		if rv.User.ID == p.UserID {
			review.ID = rv.ID
			existing[i] = review
			return review, nil
		}
	}
	s.reviews[p.RecipeID] = append(existing, review)
	return review, nil
}

func (s *memStore) ListReviews(_ context.Context, recipeID uuid.UUID) ([]db.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]db.Review{}, s.reviews[recipeID]...), nil
}

// ============================================================================
// In-memory drafts and inline task execution
// ============================================================================

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]cache.Draft
	locked map[string]bool
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: map[string]cache.Draft{}, locked: map[string]bool{}}
}

func (m *memDrafts) Get(_ context.Context, id string) (*cache.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memDrafts) Put(_ context.Context, d *cache.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.ID] = *d
	return nil
}

func (m *memDrafts) Lock(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[id] {
		return false, nil
	}
	m.locked[id] = true
	return true, nil
}

func (m *memDrafts) Unlock(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locked, id)
	return nil
}

// inlineEnqueuer runs each task through the worker processor before
// returning, standing in for Redis and a separate worker process.
type inlineEnqueuer struct {
	processor *worker.DraftProcessor

	mu   sync.Mutex
	errs []error
}

func (e *inlineEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	err := e.processor.HandleGenerateRecipe(context.Background(), task)
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type(), Queue: "default"}, nil
}

func (e *inlineEnqueuer) results() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]error{}, e.errs...)
}
