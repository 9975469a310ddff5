package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSettlementReconcile = "settlement:reconcile"

type ReconcilePayload struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// ReconcileScheduler enqueues one reconciliation pass for a transaction.
// Retry cadence and attempt caps are the scheduler's concern; the pass
// itself stays idempotent.
type ReconcileScheduler interface {
	Schedule(ctx context.Context, kind, id string, delay time.Duration) error
}

type asynqScheduler struct {
	client *asynq.Client
}

func NewReconcileScheduler(client *asynq.Client) ReconcileScheduler {
	return &asynqScheduler{client: client}
}

func (s *asynqScheduler) Schedule(ctx context.Context, kind, id string, delay time.Duration) error {
	if s.client == nil {
		return nil
	}
	payload, err := json.Marshal(ReconcilePayload{Kind: kind, ID: id})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeSettlementReconcile, payload)
	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(delay),
		asynq.MaxRetry(10),
		asynq.Timeout(30*time.Second),
		asynq.Queue("settlement"),
	)
	return err
}
