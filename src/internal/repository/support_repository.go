package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"
)

type SupportRepository struct {
	DB mysql.DBInterface
}

func NewSupportRepository(db mysql.DBInterface) *SupportRepository {
	return &SupportRepository{
		DB: db,
	}
}

const supportColumns = `
	id, wallet_id, supporter_id, supporter_name, message, blog_post_id,
	amount, platform_fee, net_amount, payment_method, api_ref, tracking_id,
	status, failed_reason, created_at, completed_at`

func (r *SupportRepository) Insert(ctx context.Context, tx *entity.SupportTransaction) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO support_transactions (
			id, wallet_id, supporter_id, supporter_name, message, blog_post_id,
			amount, platform_fee, net_amount, payment_method, api_ref, tracking_id,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	_, err = db.ExecContext(ctx, query,
		tx.ID, tx.WalletID, tx.SupporterID, tx.SupporterName, tx.Message, tx.BlogPostID,
		tx.Amount, tx.PlatformFee, tx.NetAmount, tx.PaymentMethod, tx.APIRef, tx.TrackingID,
		tx.Status)
	return err
}

func (r *SupportRepository) FindByID(ctx context.Context, id string) (*entity.SupportTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var tx entity.SupportTransaction
	query := `SELECT` + supportColumns + ` FROM support_transactions WHERE id = ?`
	err = db.GetContext(ctx, &tx, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *SupportRepository) SetTracking(ctx context.Context, id, trackingID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE support_transactions SET tracking_id = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, trackingID, id)
	return err
}

func (r *SupportRepository) MarkProcessing(ctx context.Context, id string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `UPDATE support_transactions SET status = ? WHERE id = ? AND status = ?`
	res, err := db.ExecContext(ctx, query, entity.StatusProcessing, id, entity.StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Fail is the terminal compare-and-set. A duplicate webhook or poll
// matches zero rows and reports false. Completion goes through
// WalletRepository.SettleSupportCompletion so it commits with the credit.
func (r *SupportRepository) Fail(ctx context.Context, id, reason string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE support_transactions SET status = ?, failed_reason = ?, completed_at = NOW()
		WHERE id = ? AND status IN (?, ?)`
	res, err := db.ExecContext(ctx, query, entity.StatusFailed, reason, id, entity.StatusPending, entity.StatusProcessing)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *SupportRepository) ListRecentByWallet(ctx context.Context, walletID string, limit int) ([]entity.SupportTransaction, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var txs []entity.SupportTransaction
	query := `SELECT` + supportColumns + ` FROM support_transactions WHERE wallet_id = ? ORDER BY created_at DESC LIMIT ?`
	if err := db.SelectContext(ctx, &txs, query, walletID, limit); err != nil {
		return nil, err
	}
	return txs, nil
}
