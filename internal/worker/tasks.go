package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeGenerateRecipe = "generate:recipe"
)

const (
	generateMaxRetry = 3
	generateTimeout  = 2 * time.Minute
)

// GenerateRecipePayload is the payload for async generation tasks. The
// request itself lives on the stored draft.
type GenerateRecipePayload struct {
	DraftID string `json:"draft_id"`
}

// NewGenerateRecipeTask creates a new generation task
func NewGenerateRecipeTask(payload GenerateRecipePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateRecipe, data,
		asynq.MaxRetry(generateMaxRetry),
		asynq.Timeout(generateTimeout),
	), nil
}

// taskMeta is what asynq knows about the running attempt, plus the draft
// the task generates.
type taskMeta struct {
	ID       string
	Queue    string
	DraftID  string
	Retried  int
	MaxRetry int
	// Managed is false outside an asynq server, where no retry follows.
	Managed bool
}

func readTaskMeta(ctx context.Context, t *asynq.Task) taskMeta {
	var m taskMeta
	m.ID, _ = asynq.GetTaskID(ctx)
	m.Queue, _ = asynq.GetQueueName(ctx)
	m.Retried, _ = asynq.GetRetryCount(ctx)
	m.MaxRetry, m.Managed = asynq.GetMaxRetry(ctx)

	var payload GenerateRecipePayload
	if json.Unmarshal(t.Payload(), &payload) == nil {
		m.DraftID = payload.DraftID
	}
	return m
}

// lastAttempt reports whether asynq will not run the task again after err.
func (m taskMeta) lastAttempt(err error) bool {
	return errors.Is(err, asynq.SkipRetry) || !m.Managed || m.Retried >= m.MaxRetry
}
