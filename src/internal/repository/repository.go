package repository

import (
	"context"
	"errors"

	"wallet-service/src/internal/entity"
)

var ErrNotFound = errors.New("record not found")

// WalletStore owns every balance mutation. The wallet row is the
// serialization boundary: each mutating statement is a single conditional
// UPDATE, so two racing callers cannot both pass the same balance check.
// The Settle methods pair a terminal status transition with its balance
// mutation inside one database transaction, so neither can land alone.
type WalletStore interface {
	FindByID(ctx context.Context, id string) (*entity.Wallet, error)
	FindByAuthorID(ctx context.Context, authorID string) (*entity.Wallet, error)
	FindOrCreate(ctx context.Context, authorID string) (*entity.Wallet, error)
	SettleSupportCompletion(ctx context.Context, tx *entity.SupportTransaction) (bool, error)
	SettleWithdrawalFailure(ctx context.Context, w *entity.WithdrawalRequest, reason string) (bool, error)
	ReserveForWithdrawal(ctx context.Context, walletID string, amount, dailyLimit int64) (bool, error)
	RefundFailedWithdrawal(ctx context.Context, walletID string, amount int64) error
}

// SupportStore persists credit-side entries. MarkProcessing and Fail are
// compare-and-set transitions: they return false when the row already
// moved on, which is the idempotency guard for settlement. Completion
// lives on WalletStore because it must commit together with the credit.
type SupportStore interface {
	Insert(ctx context.Context, tx *entity.SupportTransaction) error
	FindByID(ctx context.Context, id string) (*entity.SupportTransaction, error)
	SetTracking(ctx context.Context, id, trackingID string) error
	MarkProcessing(ctx context.Context, id string) (bool, error)
	Fail(ctx context.Context, id, reason string) (bool, error)
	ListRecentByWallet(ctx context.Context, walletID string, limit int) ([]entity.SupportTransaction, error)
}

// WithdrawalStore persists debit-side entries with the same CAS guards.
// Failure lives on WalletStore because it must commit with the refund.
type WithdrawalStore interface {
	Insert(ctx context.Context, w *entity.WithdrawalRequest) error
	FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error)
	MarkProcessing(ctx context.Context, id, trackingID string) (bool, error)
	Complete(ctx context.Context, id string) (bool, error)
	ListRecentByWallet(ctx context.Context, walletID string, limit int) ([]entity.WithdrawalRequest, error)
}
