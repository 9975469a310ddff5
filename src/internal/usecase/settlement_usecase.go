package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/payment"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"
)

// Notifier sends best-effort notification events. Failures are logged and
// never fail or roll back a settlement.
type Notifier interface {
	SendSupportReceived(event *model.SupportReceivedEvent) error
	SendWithdrawalSettled(event *model.WithdrawalSettledEvent) error
}

// SettlementUseCase is the single authority that moves a transaction to a
// terminal state and mutates the ledger. The webhook handler, the
// status-refresh endpoints and the polling task all converge on
// ApplyGatewayState, so every trigger settles identically.
type SettlementUseCase struct {
	Log              log.Log
	WalletRepo       repository.WalletStore
	SupportRepo      repository.SupportStore
	WithdrawalRepo   repository.WithdrawalStore
	Gateway          payment.Client
	Notifier         Notifier
	WebhookChallenge string
	StaleAfter       time.Duration
}

func NewSettlementUseCase(
	logger log.Log,
	walletRepo repository.WalletStore,
	supportRepo repository.SupportStore,
	withdrawalRepo repository.WithdrawalStore,
	gatewayClient payment.Client,
	notifier Notifier,
	webhookChallenge string,
	staleAfter time.Duration,
) *SettlementUseCase {
	return &SettlementUseCase{
		Log:              logger,
		WalletRepo:       walletRepo,
		SupportRepo:      supportRepo,
		WithdrawalRepo:   withdrawalRepo,
		Gateway:          gatewayClient,
		Notifier:         notifier,
		WebhookChallenge: webhookChallenge,
		StaleAfter:       staleAfter,
	}
}

// ApplyGatewayState applies one observed gateway state to one transaction.
// It is idempotent: a record already terminal is left untouched and the
// duplicate delivery is logged and ignored. Returns the record's status
// after the call and whether this call changed it.
func (c *SettlementUseCase) ApplyGatewayState(ctx context.Context, kind, id, gwState, trackingID, failReason string) (string, bool, error) {
	switch kind {
	case entity.RefKindSupport:
		return c.applySupport(ctx, id, gwState, failReason)
	case entity.RefKindWithdrawal:
		return c.applyWithdrawal(ctx, id, gwState, trackingID, failReason)
	default:
		return "", false, fmt.Errorf("unknown reference kind %q", kind)
	}
}

func (c *SettlementUseCase) applySupport(ctx context.Context, id, gwState, failReason string) (string, bool, error) {
	tx, err := c.SupportRepo.FindByID(ctx, id)
	if err != nil {
		return "", false, err
	}
	if entity.IsTerminalStatus(tx.Status) {
		c.Log.Info("settlement", "duplicate delivery for settled support transaction, ignored", "applySupport", id)
		return tx.Status, false, nil
	}

	switch gwState {
	case payment.StatePending:
		return tx.Status, false, nil

	case payment.StateProcessing:
		if !entity.CanTransition(tx.Status, entity.StatusProcessing) {
			return tx.Status, false, nil
		}
		ok, err := c.SupportRepo.MarkProcessing(ctx, id)
		if err != nil {
			return tx.Status, false, err
		}
		if ok {
			return entity.StatusProcessing, true, nil
		}
		return tx.Status, false, nil

	case payment.StateComplete:
		// the COMPLETED transition and the credit commit together; an
		// error here means the row is still open and a retry will settle
		ok, err := c.WalletRepo.SettleSupportCompletion(ctx, tx)
		if err != nil {
			c.Log.Error("settlement", fmt.Sprintf("completion settlement failed: %v", err), "applySupport", id)
			return tx.Status, false, err
		}
		if !ok {
			// another trigger won the terminal transition
			c.Log.Info("settlement", "lost completion race, ignored", "applySupport", id)
			return entity.StatusCompleted, false, nil
		}
		c.notifySupportCompleted(tx)
		return entity.StatusCompleted, true, nil

	case payment.StateFailed:
		ok, err := c.SupportRepo.Fail(ctx, id, failReason)
		if err != nil {
			return tx.Status, false, err
		}
		if !ok {
			return entity.StatusFailed, false, nil
		}
		return entity.StatusFailed, true, nil

	default:
		c.Log.Warn("settlement", fmt.Sprintf("unrecognized gateway state %q, ignored", gwState), "applySupport", id)
		return tx.Status, false, nil
	}
}

func (c *SettlementUseCase) applyWithdrawal(ctx context.Context, id, gwState, trackingID, failReason string) (string, bool, error) {
	w, err := c.WithdrawalRepo.FindByID(ctx, id)
	if err != nil {
		return "", false, err
	}
	if entity.IsTerminalStatus(w.Status) {
		c.Log.Info("settlement", "duplicate delivery for settled withdrawal, ignored", "applyWithdrawal", id)
		return w.Status, false, nil
	}
	if trackingID == "" {
		trackingID = w.TrackingID
	}

	switch gwState {
	case payment.StatePending:
		return w.Status, false, nil

	case payment.StateProcessing:
		if !entity.CanTransition(w.Status, entity.StatusProcessing) {
			return w.Status, false, nil
		}
		ok, err := c.WithdrawalRepo.MarkProcessing(ctx, id, trackingID)
		if err != nil {
			return w.Status, false, err
		}
		if ok {
			return entity.StatusProcessing, true, nil
		}
		return w.Status, false, nil

	case payment.StateComplete:
		// the debit already happened at reservation, completion is
		// bookkeeping only
		ok, err := c.WithdrawalRepo.Complete(ctx, id)
		if err != nil {
			return w.Status, false, err
		}
		if !ok {
			c.Log.Info("settlement", "lost completion race, ignored", "applyWithdrawal", id)
			return entity.StatusCompleted, false, nil
		}
		c.notifyWithdrawalSettled(w, entity.StatusCompleted, "")
		return entity.StatusCompleted, true, nil

	case payment.StateFailed:
		// the FAILED transition and the refund commit together, for
		// exactly one caller
		ok, err := c.WalletRepo.SettleWithdrawalFailure(ctx, w, failReason)
		if err != nil {
			c.Log.Error("settlement", fmt.Sprintf("failure settlement failed: %v", err), "applyWithdrawal", id)
			return w.Status, false, err
		}
		if !ok {
			return entity.StatusFailed, false, nil
		}
		c.notifyWithdrawalSettled(w, entity.StatusFailed, failReason)
		return entity.StatusFailed, true, nil

	default:
		c.Log.Warn("settlement", fmt.Sprintf("unrecognized gateway state %q, ignored", gwState), "applyWithdrawal", id)
		return w.Status, false, nil
	}
}

// Reconcile is one polling pass: query the gateway for a still-open
// transaction and apply whatever it reports. Safe to call any number of
// times, from the refresh endpoints or the background task.
func (c *SettlementUseCase) Reconcile(ctx context.Context, kind, id string) (string, string, error) {
	var status, trackingID string
	var createdAt time.Time

	switch kind {
	case entity.RefKindSupport:
		tx, err := c.SupportRepo.FindByID(ctx, id)
		if err != nil {
			return "", "", err
		}
		status, trackingID, createdAt = tx.Status, tx.TrackingID, tx.CreatedAt
	case entity.RefKindWithdrawal:
		w, err := c.WithdrawalRepo.FindByID(ctx, id)
		if err != nil {
			return "", "", err
		}
		status, trackingID, createdAt = w.Status, w.TrackingID, w.CreatedAt
	default:
		return "", "", fmt.Errorf("unknown reference kind %q", kind)
	}

	if entity.IsTerminalStatus(status) {
		return status, "", nil
	}

	if trackingID == "" {
		// initiation never produced a tracking id; once the record is
		// stale there is nothing left to wait for
		if time.Since(createdAt) > c.StaleAfter {
			status, _, err := c.ApplyGatewayState(ctx, kind, id, payment.StateFailed, "", "no gateway acknowledgement")
			return status, payment.StateFailed, err
		}
		return status, "", nil
	}

	res, err := c.Gateway.QueryStatus(ctx, trackingID)
	if err != nil {
		return status, "", err
	}
	status, _, err = c.ApplyGatewayState(ctx, kind, id, res.State, res.TrackingID, res.FailedReason)
	return status, res.State, err
}

// HandleReconcileTask adapts Reconcile to asynq. Returning an error while
// the record is still open makes asynq retry with its own backoff, which
// is the whole polling policy.
func (c *SettlementUseCase) HandleReconcileTask(ctx context.Context, t *asynq.Task) error {
	var payload ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad reconcile payload: %v: %w", err, asynq.SkipRetry)
	}

	status, _, err := c.Reconcile(ctx, payload.Kind, payload.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("record %s-%s not found: %w", payload.Kind, payload.ID, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	if !entity.IsTerminalStatus(status) {
		return fmt.Errorf("transaction %s-%s still %s", payload.Kind, payload.ID, status)
	}
	return nil
}

// HandleWebhook verifies the shared challenge, resolves the transaction
// from the api_ref and applies the reported state. Any processing failure
// after the challenge check still acknowledges the delivery, so the
// gateway does not retry forever; the polling fallback converges later.
func (c *SettlementUseCase) HandleWebhook(ctx context.Context, request *model.GatewayWebhookRequest) utils.Result {
	var result utils.Result

	if subtle.ConstantTimeCompare([]byte(request.Challenge), []byte(c.WebhookChallenge)) != 1 {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "invalid webhook challenge"
		result.Error = errObj
		c.Log.Error("settlement", errObj.Message, "HandleWebhook", request.Reference())
		return result
	}

	kind, id, ok := entity.ParseAPIRef(request.APIRef)
	if !ok {
		c.Log.Warn("settlement", "webhook with unrecognized api_ref, acknowledged and ignored", "HandleWebhook", request.APIRef)
		result.Data = model.WebhookAck{Received: true}
		return result
	}

	status, changed, err := c.ApplyGatewayState(ctx, kind, id, request.State, request.Reference(), request.FailedReason)
	if err != nil {
		c.Log.Error("settlement", fmt.Sprintf("webhook processing error: %v", err), "HandleWebhook", request.APIRef)
	} else if changed {
		c.Log.Info("settlement", fmt.Sprintf("webhook settled %s as %s", request.APIRef, status), "HandleWebhook", request.Reference())
	}

	result.Data = model.WebhookAck{Received: true}
	return result
}

func (c *SettlementUseCase) notifySupportCompleted(tx *entity.SupportTransaction) {
	if c.Notifier == nil {
		return
	}
	wallet, err := c.WalletRepo.FindByID(context.Background(), tx.WalletID)
	authorID := ""
	if err == nil {
		authorID = wallet.AuthorID
	}
	event := &model.SupportReceivedEvent{
		EventID:       uuid.NewString(),
		TransactionID: tx.ID,
		WalletID:      tx.WalletID,
		AuthorID:      authorID,
		SupporterName: tx.SupporterName,
		Message:       tx.Message,
		Amount:        tx.Amount,
		NetAmount:     tx.NetAmount,
	}
	if err := c.Notifier.SendSupportReceived(event); err != nil {
		c.Log.Error("settlement", fmt.Sprintf("support notification failed: %v", err), "notify", tx.ID)
	}
}

func (c *SettlementUseCase) notifyWithdrawalSettled(w *entity.WithdrawalRequest, status, failReason string) {
	if c.Notifier == nil {
		return
	}
	event := &model.WithdrawalSettledEvent{
		EventID:      uuid.NewString(),
		WithdrawalID: w.ID,
		WalletID:     w.WalletID,
		Method:       w.Method,
		Amount:       w.Amount,
		Status:       status,
		FailedReason: failReason,
	}
	if err := c.Notifier.SendWithdrawalSettled(event); err != nil {
		c.Log.Error("settlement", fmt.Sprintf("withdrawal notification failed: %v", err), "notify", w.ID)
	}
}
