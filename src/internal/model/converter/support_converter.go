package converter

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
)

// SupportToStatusResponse maps a support transaction to its caller-visible
// view. The internal PROCESSING state is shown as PENDING for supporters;
// withdrawals keep the distinction (see WithdrawalToResponse).
func SupportToStatusResponse(tx *entity.SupportTransaction) *model.SupportStatusResponse {
	status := tx.Status
	if status == entity.StatusProcessing {
		status = entity.StatusPending
	}
	return &model.SupportStatusResponse{
		TransactionID: tx.ID,
		Status:        status,
		Amount:        tx.Amount,
		PaymentMethod: tx.PaymentMethod,
		CreatedAt:     tx.CreatedAt,
		CompletedAt:   tx.CompletedAt,
	}
}
