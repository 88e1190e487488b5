package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/sous/internal/cache"
	apperrors "github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/recipe"
)

// Mocks

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

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]cache.Draft
	locked map[string]bool
}

func newMemDrafts(drafts ...*cache.Draft) *memDrafts {
	m := &memDrafts{drafts: map[string]cache.Draft{}, locked: map[string]bool{}}
	for _, d := range drafts {
		m.drafts[d.ID] = *d
	}
	return m
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

func generateTask(t *testing.T, draftID string) *asynq.Task {
	t.Helper()
	task, err := NewGenerateRecipeTask(GenerateRecipePayload{DraftID: draftID})
	require.NoError(t, err)
	return task
}

func TestHandleGenerateRecipe_Completes(t *testing.T) {
	draft := cache.NewPendingDraft(ai.Request{Prompt: "miso soup"})
	store := newMemDrafts(draft)

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, draft.Request).Return(&recipe.Result{
		Recipe: recipe.Draft{Title: "Miso Soup"},
		Source: recipe.SourcePrimary,
	}, nil)

	p := NewDraftProcessor(gen, store, nil)
	require.NoError(t, p.HandleGenerateRecipe(context.Background(), generateTask(t, draft.ID)))

	got, _ := store.Get(context.Background(), draft.ID)
	assert.Equal(t, cache.DraftCompleted, got.Status)
	assert.Equal(t, "Miso Soup", got.Recipe.Title)
	assert.Equal(t, recipe.SourcePrimary, got.Source)
	gen.AssertExpectations(t)
}

func TestHandleGenerateRecipe_MissingDraftSkipsRetry(t *testing.T) {
	gen := new(MockGenerator)
	p := NewDraftProcessor(gen, newMemDrafts(), nil)

	err := p.HandleGenerateRecipe(context.Background(), generateTask(t, "gone"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestHandleGenerateRecipe_AlreadyProcessed(t *testing.T) {
	draft := cache.NewPendingDraft(ai.Request{Prompt: "x"})
	draft.Complete(&recipe.Result{Recipe: recipe.Draft{Title: "Done"}})
	gen := new(MockGenerator)

	p := NewDraftProcessor(gen, newMemDrafts(draft), nil)
	require.NoError(t, p.HandleGenerateRecipe(context.Background(), generateTask(t, draft.ID)))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestHandleGenerateRecipe_GenerationFailureMarksDraft(t *testing.T) {
	draft := cache.NewPendingDraft(ai.Request{Prompt: "x"})
	store := newMemDrafts(draft)
	boom := apperrors.NewGenerationError("Failed to generate recipe", "GENERATION_FAILED", errors.New("500 from provider"))

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, boom)

	p := NewDraftProcessor(gen, store, nil)
	err := p.HandleGenerateRecipe(context.Background(), generateTask(t, draft.ID))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))

	// Without asynq retry metadata the attempt counts as the last one.
	got, _ := store.Get(context.Background(), draft.ID)
	assert.Equal(t, cache.DraftFailed, got.Status)
	assert.Equal(t, "Failed to generate recipe", got.Error)
}

func TestHandleGenerateRecipe_ValidationFailureSkipsRetry(t *testing.T) {
	draft := cache.NewPendingDraft(ai.Request{Prompt: " "})
	store := newMemDrafts(draft)

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("Prompt is required", "PROMPT_REQUIRED", ""))

	p := NewDraftProcessor(gen, store, nil)
	err := p.HandleGenerateRecipe(context.Background(), generateTask(t, draft.ID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	got, _ := store.Get(context.Background(), draft.ID)
	assert.Equal(t, cache.DraftFailed, got.Status)
	assert.Equal(t, "Prompt is required", got.Error)
}

func TestHandleGenerateRecipe_BadPayload(t *testing.T) {
	p := NewDraftProcessor(new(MockGenerator), newMemDrafts(), nil)
	err := p.HandleGenerateRecipe(context.Background(), asynq.NewTask(TypeGenerateRecipe, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestNewGenerateRecipeTask(t *testing.T) {
	task := generateTask(t, "abc")
	assert.Equal(t, TypeGenerateRecipe, task.Type())

	var payload GenerateRecipePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "abc", payload.DraftID)
}

func TestTaskMetaLastAttempt(t *testing.T) {
	tests := []struct {
		name string
		meta taskMeta
		err  error
		want bool
	}{
		{"skip retry", taskMeta{Managed: true, Retried: 0, MaxRetry: 3}, fmt.Errorf("bad: %w", asynq.SkipRetry), true},
		{"retries left", taskMeta{Managed: true, Retried: 1, MaxRetry: 3}, errors.New("x"), false},
		{"retries exhausted", taskMeta{Managed: true, Retried: 3, MaxRetry: 3}, errors.New("x"), true},
		{"outside asynq", taskMeta{}, errors.New("x"), true},
	}

	for _, tt := range tests {
		if got := tt.meta.lastAttempt(tt.err); got != tt.want {
			t.Errorf("%s: lastAttempt() = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadTaskMeta(t *testing.T) {
	meta := readTaskMeta(context.Background(), generateTask(t, "draft-7"))
	assert.Equal(t, "draft-7", meta.DraftID)
	assert.False(t, meta.Managed)
}
