package converter

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
)

func WithdrawalToResponse(w *entity.WithdrawalRequest) *model.WithdrawalResponse {
	destination := ""
	if dest := w.Destination(); dest != nil {
		destination = dest.Label()
	}
	return &model.WithdrawalResponse{
		ID:          w.ID,
		Amount:      w.Amount,
		Method:      w.Method,
		Destination: destination,
		Status:      w.Status,
		TrackingID:  w.TrackingID,
		CreatedAt:   w.CreatedAt,
		CompletedAt: w.CompletedAt,
	}
}

func WalletToSummary(wallet *entity.Wallet, support []entity.SupportTransaction, withdrawals []entity.WithdrawalRequest) *model.WalletSummaryResponse {
	summary := &model.WalletSummaryResponse{
		ID:                   wallet.ID,
		Status:               wallet.Status,
		CurrentBalance:       wallet.CurrentBalance,
		AvailableBalance:     wallet.AvailableBalance,
		TotalReceived:        wallet.TotalReceived,
		TotalWithdrawn:       wallet.TotalWithdrawn,
		PlatformFeeTotal:     wallet.PlatformFeeTotal,
		SupportersCount:      wallet.SupportersCount,
		TransactionsCount:    wallet.TransactionsCount,
		DailyWithdrawnAmount: wallet.DailyWithdrawnAmount,
		LastWithdrawalDate:   wallet.LastWithdrawalDate,
		RecentSupport:        make([]model.SupportStatusResponse, 0, len(support)),
		RecentWithdrawals:    make([]model.WithdrawalResponse, 0, len(withdrawals)),
	}
	for i := range support {
		summary.RecentSupport = append(summary.RecentSupport, *SupportToStatusResponse(&support[i]))
	}
	for i := range withdrawals {
		summary.RecentWithdrawals = append(summary.RecentWithdrawals, *WithdrawalToResponse(&withdrawals[i]))
	}
	return summary
}
