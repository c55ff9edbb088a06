package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
)

// IdempotencyRepository stores the responses of replay-protected requests.
// A key is reserved before its request runs and completed with the
// response afterwards, so a retry arriving mid-flight sees the pending
// record instead of running the request again.
type IdempotencyRepository interface {
	// GetByKey returns the live (unexpired) record for key and user.
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve inserts ikey as a pending record, taking over an expired
	// record for the same key. It reports false when a live record holds
	// the key.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response on a reserved record.
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a pending record so the request can be retried.
	Release(ctx context.Context, key string, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
