package api

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/socialchef/sous/internal/cache"
	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/recipe"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req ai.Request) (*recipe.Result, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*recipe.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) EnsureUser(ctx context.Context, email, name string) (db.User, error) {
	args := m.Called(ctx, email, name)
	return args.Get(0).(db.User), args.Error(1)
}

func (m *MockStore) ListRecipes(ctx context.Context, p db.ListRecipesParams) ([]db.Recipe, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]db.Recipe), args.Error(1)
}

func (m *MockStore) GetRecipe(ctx context.Context, id uuid.UUID) (db.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Recipe), args.Error(1)
}

func (m *MockStore) RecipeAuthor(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStore) CreateRecipe(ctx context.Context, p db.CreateRecipeParams) (db.Recipe, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(db.Recipe), args.Error(1)
}

func (m *MockStore) UpdateRecipe(ctx context.Context, id uuid.UUID, p db.UpdateRecipeParams) (db.Recipe, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(db.Recipe), args.Error(1)
}

func (m *MockStore) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) UpsertReview(ctx context.Context, p db.UpsertReviewParams) (db.Review, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(db.Review), args.Error(1)
}

func (m *MockStore) ListReviews(ctx context.Context, recipeID uuid.UUID) ([]db.Review, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).([]db.Review), args.Error(1)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task)
	if info := args.Get(0); info != nil {
		return info.(*asynq.TaskInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

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
