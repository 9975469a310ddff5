package entity

import "time"

const (
	WithdrawalMethodMobilePush      = "MOBILE_PUSH_PAYOUT"
	WithdrawalMethodBusinessPaybill = "BUSINESS_PAYBILL_PAYOUT"
	WithdrawalMethodBusinessTill    = "BUSINESS_TILL_PAYOUT"
	WithdrawalMethodBank            = "BANK_PAYOUT"
)

// WithdrawalRequest is the debit-side ledger entry. The wallet is debited
// at creation (optimistic reservation) and refunded only on the first
// transition into FAILED.
type WithdrawalRequest struct {
	ID            string     `db:"id" json:"id"`
	WalletID      string     `db:"wallet_id" json:"walletId"`
	Amount        int64      `db:"amount" json:"amount"`
	Method        string     `db:"method" json:"method"`
	Phone         string     `db:"phone" json:"phone,omitempty"`
	PaybillNumber string     `db:"paybill_number" json:"paybillNumber,omitempty"`
	AccountRef    string     `db:"account_ref" json:"accountRef,omitempty"`
	TillNumber    string     `db:"till_number" json:"tillNumber,omitempty"`
	BankCode      string     `db:"bank_code" json:"bankCode,omitempty"`
	BankAccount   string     `db:"bank_account" json:"bankAccount,omitempty"`
	APIRef        string     `db:"api_ref" json:"apiRef"`
	TrackingID    string     `db:"tracking_id" json:"trackingId"`
	Status        string     `db:"status" json:"status"`
	FailedReason  string     `db:"failed_reason" json:"failedReason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// Destination rebuilds the typed payout destination from the flat columns.
func (w *WithdrawalRequest) Destination() PayoutDestination {
	switch w.Method {
	case WithdrawalMethodMobilePush:
		return MobileDestination{Phone: w.Phone}
	case WithdrawalMethodBusinessPaybill:
		return PaybillDestination{Paybill: w.PaybillNumber, AccountRef: w.AccountRef}
	case WithdrawalMethodBusinessTill:
		return TillDestination{Till: w.TillNumber}
	case WithdrawalMethodBank:
		return BankDestination{BankCode: w.BankCode, Account: w.BankAccount}
	default:
		return nil
	}
}

// ApplyDestination flattens a typed destination into the request columns.
func (w *WithdrawalRequest) ApplyDestination(dest PayoutDestination) {
	w.Method = dest.Method()
	switch d := dest.(type) {
	case MobileDestination:
		w.Phone = d.Phone
	case PaybillDestination:
		w.PaybillNumber = d.Paybill
		w.AccountRef = d.AccountRef
	case TillDestination:
		w.TillNumber = d.Till
	case BankDestination:
		w.BankCode = d.BankCode
		w.BankAccount = d.Account
	}
}
