package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/recipe"
)

type DraftStatus string

const (
	DraftPending   DraftStatus = "pending"
	DraftCompleted DraftStatus = "completed"
	DraftFailed    DraftStatus = "failed"
)

// Draft is the stored state of one generation request. Recipe is set once
// Status is completed; Error once it is failed.
type Draft struct {
	ID            string        `json:"id"`
	Status        DraftStatus   `json:"status"`
	Request       ai.Request    `json:"request"`
	Recipe        *recipe.Draft `json:"recipe,omitempty"`
	Note          string        `json:"note,omitempty"`
	Source        recipe.Source `json:"source,omitempty"`
	Error         string        `json:"error,omitempty"`
	SavedRecipeID string        `json:"savedRecipeId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// NewPendingDraft returns a draft with a fresh id waiting for generation.
func NewPendingDraft(req ai.Request) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:        uuid.NewString(),
		Status:    DraftPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete records a generation result on the draft.
func (d *Draft) Complete(result *recipe.Result) {
	r := result.Recipe
	d.Status = DraftCompleted
	d.Recipe = &r
	d.Note = result.Note
	d.Source = result.Source
	d.Error = ""
	d.UpdatedAt = time.Now().UTC()
}

// Fail records a generation failure on the draft.
func (d *Draft) Fail(msg string) {
	d.Status = DraftFailed
	d.Error = msg
	d.UpdatedAt = time.Now().UTC()
}

// RedisDraftStore keeps drafts as JSON strings in Redis.
type RedisDraftStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{
		client: client,
		prefix: "recipe:draft:",
		ttl:    DraftTTL,
	}
}

func (s *RedisDraftStore) makeKey(id string) string {
	return fmt.Sprintf("%s%s", s.prefix, id)
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := s.client.Get(ctx, s.makeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		slog.Warn("Discarding unreadable draft", "draft_id", id, "error", err)
		return nil, nil
	}
	return &d, nil
}

func (s *RedisDraftStore) Put(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.makeKey(d.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("put draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *RedisDraftStore) Lock(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.makeKey(id)+":saving", "1", SaveLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock draft %s: %w", id, err)
	}
	return ok, nil
}

func (s *RedisDraftStore) Unlock(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.makeKey(id)+":saving").Err(); err != nil {
		slog.Warn("Redis draft unlock failed", "draft_id", id, "error", err)
	}
	return nil
}
