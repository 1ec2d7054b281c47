// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mlenda000/dfg-server/internal/game"
)

// DefaultQueueName is the Redis list the score historian pushes to. An
// out-of-process stats consumer drains it; the game server never reads it
// back, so losing the queue loses history only, never game state.
const DefaultQueueName = "dfg_score_history"

// ScoreRecord is one completed round's score broadcast.
type ScoreRecord struct {
	Room      string         `json:"room"`
	Round     int            `json:"round"`
	Players   []*game.Player `json:"players"`
	Timestamp int64          `json:"timestamp"`
}

// Historian publishes completed-round scores to a Redis queue. A nil
// *Historian is valid and publishes nothing, so the session can run with
// history disabled.
type Historian struct {
	client *redis.Client
	queue  string
}

// NewHistorian validates the client connection and returns a Historian
// publishing to queue (DefaultQueueName when empty).
func NewHistorian(client *redis.Client, queue string) (*Historian, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Historian{client: client, queue: queue}, nil
}

// PublishScoreUpdate serializes the record and RPushes it onto the queue.
// Fire-and-forget from the caller's perspective; a failure is worth a log
// line and nothing more.
func (h *Historian) PublishScoreUpdate(ctx context.Context, rec ScoreRecord) error {
	if h == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal score record: %w", err)
	}
	if err := h.client.RPush(ctx, h.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", h.queue, err)
	}
	return nil
}
