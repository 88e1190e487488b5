package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/socialchef/sous/internal/cache"
	"github.com/socialchef/sous/internal/config"
	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/middleware"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/recipe"
)

const (
	demoUserEmail = "demo@example.com"
	demoUserName  = "Demo User"
)

// RecipeGenerator produces a recipe for a generation request.
type RecipeGenerator interface {
	Generate(ctx context.Context, req ai.Request) (*recipe.Result, error)
}

// RecipeStore is the persistence surface the handlers use. *db.Queries
// satisfies it.
type RecipeStore interface {
	Ping(ctx context.Context) error
	CountUsers(ctx context.Context) (int64, error)
	EnsureUser(ctx context.Context, email, name string) (db.User, error)
	ListRecipes(ctx context.Context, p db.ListRecipesParams) ([]db.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (db.Recipe, error)
	RecipeAuthor(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	CreateRecipe(ctx context.Context, p db.CreateRecipeParams) (db.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, p db.UpdateRecipeParams) (db.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	UpsertReview(ctx context.Context, p db.UpsertReviewParams) (db.Review, error)
	ListReviews(ctx context.Context, recipeID uuid.UUID) ([]db.Review, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	cfg       *config.Config
	generator RecipeGenerator
	store     RecipeStore
	drafts    cache.DraftStore
	tasks     TaskEnqueuer
}

// NewServer wires the handlers. drafts and tasks may be nil when Redis is
// not configured; the draft endpoints then answer 503.
func NewServer(cfg *config.Config, generator RecipeGenerator, store RecipeStore, drafts cache.DraftStore, tasks TaskEnqueuer) *Server {
	return &Server{
		cfg:       cfg,
		generator: generator,
		store:     store,
		drafts:    drafts,
		tasks:     tasks,
	}
}

// actingUser resolves the user a write is attributed to: the token's user
// when authenticated, the shared demo user otherwise.
func (s *Server) actingUser(ctx context.Context) (db.User, error) {
	if id, ok := middleware.GetIdentity(ctx); ok {
		name := id.Name
		if name == "" {
			name = id.Email
		}
		return s.store.EnsureUser(ctx, id.Email, name)
	}
	return s.store.EnsureUser(ctx, demoUserEmail, demoUserName)
}
