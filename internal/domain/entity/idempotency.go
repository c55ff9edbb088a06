package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyPending is the response code of a key whose request is
// still running.
const IdempotencyPending = 0

// IdempotencyKey caches the response of a replay-protected request so a
// retried POST returns the original result instead of writing twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_user_key,priority:2"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key,priority:1"`
	Method       string    `gorm:"size:10;not null"`
	Path         string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64;not null"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// Matches reports whether a replay targets the same endpoint with the same body.
func (i *IdempotencyKey) Matches(method, path, requestHash string) bool {
	return i.Method == method && i.Path == path && i.RequestHash == requestHash
}

// IsPending reports whether the request holding the key has not finished.
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == IdempotencyPending
}
