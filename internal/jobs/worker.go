package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/hibiken/asynq"
)

// Worker wraps the Asynq server processing posting retries.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// NewWorker constructs a worker wired to the cash box service.
func NewWorker(redisOpts asynq.RedisClientOpt, cashBoxSvc portssvc.CashBoxSvcFacade, logger *slog.Logger) *Worker {
	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPostCashTransaction, handlePostCashTransaction(cashBoxSvc, logger))

	return &Worker{server: srv, mux: mux, logger: logger}
}

func handlePostCashTransaction(cashBoxSvc portssvc.CashBoxSvcFacade, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PostCashTransactionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("malformed posting task payload", slog.Any("error", err))
			return asynq.SkipRetry
		}
		err := cashBoxSvc.RetryPosting(ctx, payload.TransactionID)
		if err != nil {
			// The transaction may have been deleted while the task waited.
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Info("posting retry skipped, transaction gone",
					slog.Int64("transaction_id", payload.TransactionID))
				return nil
			}
			logger.Warn("posting retry failed",
				slog.Int64("transaction_id", payload.TransactionID),
				slog.Any("error", err))
			return err
		}
		logger.Info("posting retry succeeded", slog.Int64("transaction_id", payload.TransactionID))
		return nil
	}
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
