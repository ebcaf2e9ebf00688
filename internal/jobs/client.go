package jobs

import (
	"context"
	"fmt"

	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/hibiken/asynq"
)

// Client submits posting retries to the queue. It satisfies the
// TaskEnqueuer port used by the cash box service.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client over the given Redis connection.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

var _ portssvc.TaskEnqueuer = (*Client)(nil)

// EnqueuePostCashTransaction queues a ledger posting retry for a transaction.
func (c *Client) EnqueuePostCashTransaction(ctx context.Context, transactionID int64) error {
	task, err := NewPostCashTransactionTask(transactionID)
	if err != nil {
		return fmt.Errorf("failed to build posting task for transaction %d: %w", transactionID, err)
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue posting task for transaction %d: %w", transactionID, err)
	}
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
