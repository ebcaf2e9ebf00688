package services

import "context"

// TaskEnqueuer schedules background work. The cash box service uses it to
// hand failed ledger postings to the worker for retry.
type TaskEnqueuer interface {
	// EnqueuePostCashTransaction queues a ledger posting retry for a transaction.
	EnqueuePostCashTransaction(ctx context.Context, transactionID int64) error
}
