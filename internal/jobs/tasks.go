package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue all posting retries go to.
	QueueDefault = "default"
	// TaskPostCashTransaction retries the ledger posting of a cash transaction.
	TaskPostCashTransaction = "journal:post_cash_txn"
)

// PostCashTransactionPayload identifies the transaction to post.
type PostCashTransactionPayload struct {
	TransactionID int64 `json:"transactionID"`
}

// NewPostCashTransactionTask constructs the Asynq task for a posting retry.
func NewPostCashTransactionTask(transactionID int64) (*asynq.Task, error) {
	data, err := json.Marshal(PostCashTransactionPayload{TransactionID: transactionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostCashTransaction, data), nil
}
