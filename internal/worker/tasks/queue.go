package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/funtech-labs/orders-backend/internal/dal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const defaultQueueKey = "order_tasks"

// Task is a single processing job, keyed by the order it belongs to.
type Task struct {
	OrderID string `json:"order_id"`
}

// Queue is a Redis list used as the task queue between the broker consumer
// and the job runners.
type Queue struct {
	rdb *redis.Client
	key string
}

// NewQueue creates a task queue over the given Redis client.
func NewQueue(client *redisclient.Client) *Queue {
	key := viper.GetString("worker.task.queue")
	if key == "" {
		key = defaultQueueKey
	}

	return &Queue{
		rdb: client.DB(),
		key: key,
	}
}

// Enqueue pushes a task to the tail of the queue.
func (q *Queue) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := q.rdb.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

// Dequeue blocks for up to timeout waiting for a task. It returns nil when
// the wait times out without a task.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to dequeue task: %w", err)
	}

	// BLPOP returns [key, value]
	if len(res) < 2 {
		return nil, nil
	}

	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return &task, nil
}
