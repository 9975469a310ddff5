package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"
)

type WithdrawalRepository struct {
	DB mysql.DBInterface
}

func NewWithdrawalRepository(db mysql.DBInterface) *WithdrawalRepository {
	return &WithdrawalRepository{
		DB: db,
	}
}

const withdrawalColumns = `
	id, wallet_id, amount, method, phone, paybill_number, account_ref,
	till_number, bank_code, bank_account, api_ref, tracking_id,
	status, failed_reason, created_at, completed_at`

func (r *WithdrawalRepository) Insert(ctx context.Context, w *entity.WithdrawalRequest) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO withdrawal_requests (
			id, wallet_id, amount, method, phone, paybill_number, account_ref,
			till_number, bank_code, bank_account, api_ref, tracking_id,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	_, err = db.ExecContext(ctx, query,
		w.ID, w.WalletID, w.Amount, w.Method, w.Phone, w.PaybillNumber, w.AccountRef,
		w.TillNumber, w.BankCode, w.BankAccount, w.APIRef, w.TrackingID,
		w.Status)
	return err
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var w entity.WithdrawalRequest
	query := `SELECT` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = ?`
	err = db.GetContext(ctx, &w, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// MarkProcessing records the gateway acknowledgement: tracking id assigned
// and status moved off PENDING.
func (r *WithdrawalRepository) MarkProcessing(ctx context.Context, id, trackingID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `UPDATE withdrawal_requests SET status = ?, tracking_id = ? WHERE id = ? AND status = ?`
	res, err := db.ExecContext(ctx, query, entity.StatusProcessing, trackingID, id, entity.StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Complete is bookkeeping only: the debit happened at reservation time.
// Failure goes through WalletRepository.SettleWithdrawalFailure so the
// transition commits with the refund.
func (r *WithdrawalRepository) Complete(ctx context.Context, id string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE withdrawal_requests SET status = ?, completed_at = NOW()
		WHERE id = ? AND status IN (?, ?)`
	res, err := db.ExecContext(ctx, query, entity.StatusCompleted, id, entity.StatusPending, entity.StatusProcessing)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *WithdrawalRepository) ListRecentByWallet(ctx context.Context, walletID string, limit int) ([]entity.WithdrawalRequest, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var ws []entity.WithdrawalRequest
	query := `SELECT` + withdrawalColumns + ` FROM withdrawal_requests WHERE wallet_id = ? ORDER BY created_at DESC LIMIT ?`
	if err := db.SelectContext(ctx, &ws, query, walletID, limit); err != nil {
		return nil, err
	}
	return ws, nil
}
