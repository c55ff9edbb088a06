package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long a reservation survives a
	// request that never finished, e.g. a crashed process
	IdempotencyPendingTTL = 2 * time.Minute
	// ReplayedHeader marks a response served from the idempotency store
	ReplayedHeader = "X-Idempotency-Replayed"
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logrus.Logger
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func hashBody(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// answerExisting responds from a live record: 409 when it belongs to a
// different request or is still running, the stored response otherwise.
func answerExisting(c *gin.Context, existing *entity.IdempotencyKey, method, path, hash string) {
	switch {
	case !existing.Matches(method, path, hash):
		response.ErrorWithCode(c, http.StatusConflict, "Idempotency-Key was already used for a different request")
	case existing.IsPending():
		c.Header("Retry-After", "1")
		response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
	default:
		c.Header(ReplayedHeader, "true")
		c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	}
	c.Abort()
}

// Idempotency replays the stored response when a client retries a request
// with the same Idempotency-Key. The key is reserved before the handler
// runs, so a retry that overlaps the original gets 409 instead of a second
// write. A key reused for a different endpoint or body is rejected with
// 409. Requests without the header, or made before authentication, pass
// straight through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	warn := func(err error, key, action string) {
		if config.Log != nil {
			config.Log.WithError(err).WithField("key", key).Warn("idempotency key not " + action)
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > 255 {
			response.BadRequest(c, "Idempotency-Key must be at most 255 characters")
			c.Abort()
			return
		}

		userID, ok := c.Get(ContextUserID)
		if !ok {
			c.Next()
			return
		}
		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Invalid request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		method := c.Request.Method
		hash := hashBody(body)
		path := c.Request.URL.Path
		ctx := c.Request.Context()

		existing, err := config.Repo.GetByKey(ctx, key, uid)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if existing != nil {
			answerExisting(c, existing, method, path, hash)
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:         key,
			UserID:      uid,
			Method:      method,
			Path:        path,
			RequestHash: hash,
			ExpiresAt:   now().Add(IdempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(ctx, ikey)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !reserved {
			// lost the race to a concurrent request with the same key
			existing, err := config.Repo.GetByKey(ctx, key, uid)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if existing == nil {
				existing = ikey
			}
			answerExisting(c, existing, method, path, hash)
			return
		}

		// the outcome is recorded even if the client has gone away
		storeCtx := context.WithoutCancel(ctx)
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := config.Repo.Release(storeCtx, key, uid); err != nil {
				warn(err, key, "released")
			}
		}()

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// only successful writes are replayable; a failed attempt may be retried
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		// the write happened; if storing fails the pending record still
		// blocks retries until it expires
		completed = true
		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		ikey.ExpiresAt = now().Add(IdempotencyKeyTTL)
		if err := config.Repo.Complete(storeCtx, ikey); err != nil {
			warn(err, key, "stored")
		}
	}
}
