package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// replayedResponse stores a completed response for idempotent replay.
type replayedResponse struct {
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
}

// captureWriter wraps gin.ResponseWriter to keep a copy of the body.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays the stored response for a
// repeated Idempotency-Key instead of re-running the handler. Payment
// verification already tolerates replays at the storage layer; this keeps
// retried requests from doing any work at all.
func Idempotency(redisClient *redis.Client) gin.HandlerFunc {
	store := &replayStore{client: redisClient}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		cached, err := store.get(ctx, key)
		if err != nil {
			// Redis unavailable - run the handler normally.
			c.Next()
			return
		}
		if cached != nil {
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// 5xx responses are not cached so a transient fault can be retried.
		if status := c.Writer.Status(); status >= 200 && status < 500 {
			_ = store.set(ctx, key, &replayedResponse{
				StatusCode:  status,
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			})
		}
	}
}

// replayStore persists idempotent responses in Redis.
type replayStore struct {
	client *redis.Client
}

func (s *replayStore) key(key string) string {
	return "idempotency:" + key
}

func (s *replayStore) get(ctx context.Context, key string) (*replayedResponse, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached replayedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func (s *replayStore) set(ctx context.Context, key string, response *replayedResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), data, idempotencyTTL).Err()
}
