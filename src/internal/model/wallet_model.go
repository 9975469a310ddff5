package model

import "time"

type GetWalletRequest struct {
	AuthorID string `json:"-" validate:"required,max=100"`
}

type WalletSummaryResponse struct {
	ID                   string                  `json:"id"`
	Status               string                  `json:"status"`
	CurrentBalance       int64                   `json:"currentBalance"`
	AvailableBalance     int64                   `json:"availableBalance"`
	TotalReceived        int64                   `json:"totalReceived"`
	TotalWithdrawn       int64                   `json:"totalWithdrawn"`
	PlatformFeeTotal     int64                   `json:"platformFeeTotal"`
	SupportersCount      int64                   `json:"supportersCount"`
	TransactionsCount    int64                   `json:"transactionsCount"`
	DailyWithdrawnAmount int64                   `json:"dailyWithdrawnAmount"`
	LastWithdrawalDate   *time.Time              `json:"lastWithdrawalDate,omitempty"`
	RecentSupport        []SupportStatusResponse `json:"recentSupport"`
	RecentWithdrawals    []WithdrawalResponse    `json:"recentWithdrawals"`
}
