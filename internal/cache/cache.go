package cache

import (
	"context"
	"time"
)

// DraftTTL is how long a generated draft stays retrievable.
const DraftTTL = 24 * time.Hour

// SaveLockTTL bounds how long a save claim outlives a crashed saver.
const SaveLockTTL = 30 * time.Second

// DraftStore defines the storage operations for recipe drafts.
type DraftStore interface {
	// Get retrieves a draft by id.
	// Returns nil, nil if the draft is not found or has expired.
	Get(ctx context.Context, id string) (*Draft, error)

	// Put stores a draft under its id, resetting its TTL.
	Put(ctx context.Context, draft *Draft) error

	// Lock claims the right to save a draft. It reports false when another
	// save of the same draft holds the claim.
	Lock(ctx context.Context, id string) (bool, error)

	// Unlock releases a claim taken by Lock.
	Unlock(ctx context.Context, id string) error
}
