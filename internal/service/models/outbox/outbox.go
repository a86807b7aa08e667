package outbox

import (
	"time"
)

// Message represents an event that failed to be published to RabbitMQ
// and is waiting to be retried by the outbox worker.
type Message struct {
	ID          int64
	QueueName   string
	Payload     []byte
	ContentType string
	RetryCount  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
