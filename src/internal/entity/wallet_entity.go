package entity

import "time"

const (
	WalletStatusActive    = "ACTIVE"
	WalletStatusSuspended = "SUSPENDED"
	WalletStatusClosed    = "CLOSED"
)

// Wallet is the per-author balance record. All amounts are minor units
// (cents) of the single operating currency. Balance columns are mutated
// only by WalletRepository; AvailableBalance never exceeds CurrentBalance.
type Wallet struct {
	ID                   string     `db:"id" json:"id"`
	AuthorID             string     `db:"author_id" json:"authorId"`
	Status               string     `db:"status" json:"status"`
	CurrentBalance       int64      `db:"current_balance" json:"currentBalance"`
	AvailableBalance     int64      `db:"available_balance" json:"availableBalance"`
	TotalReceived        int64      `db:"total_received" json:"totalReceived"`
	TotalWithdrawn       int64      `db:"total_withdrawn" json:"totalWithdrawn"`
	PlatformFeeTotal     int64      `db:"platform_fee_total" json:"platformFeeTotal"`
	SupportersCount      int64      `db:"supporters_count" json:"supportersCount"`
	TransactionsCount    int64      `db:"transactions_count" json:"transactionsCount"`
	DailyWithdrawnAmount int64      `db:"daily_withdrawn_amount" json:"dailyWithdrawnAmount"`
	LastWithdrawalDate   *time.Time `db:"last_withdrawal_date" json:"lastWithdrawalDate,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt            *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}
