package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"
)

type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{
		DB: db,
	}
}

const walletColumns = `
	id, author_id, status, current_balance, available_balance,
	total_received, total_withdrawn, platform_fee_total,
	supporters_count, transactions_count, daily_withdrawn_amount,
	last_withdrawal_date, created_at, updated_at`

func (r *WalletRepository) FindByID(ctx context.Context, id string) (*entity.Wallet, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var wallet entity.Wallet
	query := `SELECT` + walletColumns + ` FROM wallets WHERE id = ?`
	err = db.GetContext(ctx, &wallet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *WalletRepository) FindByAuthorID(ctx context.Context, authorID string) (*entity.Wallet, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var wallet entity.Wallet
	query := `SELECT` + walletColumns + ` FROM wallets WHERE author_id = ?`
	err = db.GetContext(ctx, &wallet, query, authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// FindOrCreate lazily opens an ACTIVE wallet for the author. The insert is
// racing-safe: author_id is unique, losers of the race fall through to the
// select.
func (r *WalletRepository) FindOrCreate(ctx context.Context, authorID string) (*entity.Wallet, error) {
	wallet, err := r.FindByAuthorID(ctx, authorID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT IGNORE INTO wallets (id, author_id, status, created_at)
		VALUES (?, ?, ?, NOW())`
	if _, err := db.ExecContext(ctx, query, uuid.NewString(), authorID, entity.WalletStatusActive); err != nil {
		return nil, err
	}
	return r.FindByAuthorID(ctx, authorID)
}

// SettleSupportCompletion moves the transaction to COMPLETED and credits
// the wallet inside one database transaction. The status clause still
// matches at most one caller, and a credit error rolls the transition
// back, so the row stays open for the next retry instead of stranding the
// money. Returns false when the row was already terminal.
func (r *WalletRepository) SettleSupportCompletion(ctx context.Context, tx *entity.SupportTransaction) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	dbTx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer dbTx.Rollback()

	casQuery := `
		UPDATE support_transactions SET status = ?, completed_at = NOW()
		WHERE id = ? AND status IN (?, ?)`
	res, err := dbTx.ExecContext(ctx, casQuery, entity.StatusCompleted, tx.ID, entity.StatusPending, entity.StatusProcessing)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	creditQuery := `
		UPDATE wallets SET
			current_balance = current_balance + ?,
			available_balance = available_balance + ?,
			total_received = total_received + ?,
			platform_fee_total = platform_fee_total + ?,
			supporters_count = supporters_count + 1,
			transactions_count = transactions_count + 1,
			updated_at = NOW()
		WHERE id = ?`
	res, err = dbTx.ExecContext(ctx, creditQuery, tx.NetAmount, tx.NetAmount, tx.NetAmount, tx.PlatformFee, tx.WalletID)
	if err != nil {
		return false, err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, ErrNotFound
	}
	return true, dbTx.Commit()
}

// SettleWithdrawalFailure moves the withdrawal to FAILED and refunds the
// reservation inside one database transaction, with the same rollback
// semantics as SettleSupportCompletion.
func (r *WalletRepository) SettleWithdrawalFailure(ctx context.Context, w *entity.WithdrawalRequest, reason string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	dbTx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer dbTx.Rollback()

	casQuery := `
		UPDATE withdrawal_requests SET status = ?, failed_reason = ?, completed_at = NOW()
		WHERE id = ? AND status IN (?, ?)`
	res, err := dbTx.ExecContext(ctx, casQuery, entity.StatusFailed, reason, w.ID, entity.StatusPending, entity.StatusProcessing)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	refundQuery := `
		UPDATE wallets SET
			current_balance = current_balance + ?,
			available_balance = available_balance + ?,
			total_withdrawn = total_withdrawn - ?,
			updated_at = NOW()
		WHERE id = ?`
	res, err = dbTx.ExecContext(ctx, refundQuery, w.Amount, w.Amount, w.Amount, w.WalletID)
	if err != nil {
		return false, err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, ErrNotFound
	}
	return true, dbTx.Commit()
}

// ReserveForWithdrawal is the single atomic check-and-decrement: available
// balance, ACTIVE status and the daily cap are all conditions of one
// UPDATE, and the daily counter resets in place when the last withdrawal
// was on an earlier calendar day. Returns false when no row qualified.
func (r *WalletRepository) ReserveForWithdrawal(ctx context.Context, walletID string, amount, dailyLimit int64) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE wallets SET
			daily_withdrawn_amount = IF(last_withdrawal_date IS NULL OR DATE(last_withdrawal_date) < CURDATE(), ?, daily_withdrawn_amount + ?),
			last_withdrawal_date = NOW(),
			current_balance = current_balance - ?,
			available_balance = available_balance - ?,
			total_withdrawn = total_withdrawn + ?,
			updated_at = NOW()
		WHERE id = ?
			AND status = ?
			AND available_balance >= ?
			AND IF(last_withdrawal_date IS NULL OR DATE(last_withdrawal_date) < CURDATE(), 0, daily_withdrawn_amount) + ? <= ?`
	res, err := db.ExecContext(ctx, query,
		amount, amount, amount, amount, amount,
		walletID, entity.WalletStatusActive, amount, amount, dailyLimit)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// RefundFailedWithdrawal releases a reservation that never produced a
// withdrawal row, so there is no status transition to pair it with.
func (r *WalletRepository) RefundFailedWithdrawal(ctx context.Context, walletID string, amount int64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		UPDATE wallets SET
			current_balance = current_balance + ?,
			available_balance = available_balance + ?,
			total_withdrawn = total_withdrawn - ?,
			updated_at = NOW()
		WHERE id = ?`
	res, err := db.ExecContext(ctx, query, amount, amount, amount, walletID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
