package entity

import "time"

const (
	PaymentMethodPushPayment    = "PUSH_PAYMENT"
	PaymentMethodHostedCheckout = "HOSTED_CHECKOUT"
)

// SupportTransaction is the credit-side ledger entry: a reader's tip to an
// author. NetAmount = Amount - PlatformFee, and the wallet is credited with
// NetAmount exactly once, on the transition into COMPLETED.
type SupportTransaction struct {
	ID            string     `db:"id" json:"id"`
	WalletID      string     `db:"wallet_id" json:"walletId"`
	SupporterID   *string    `db:"supporter_id" json:"supporterId,omitempty"`
	SupporterName string     `db:"supporter_name" json:"supporterName"`
	Message       string     `db:"message" json:"message"`
	BlogPostID    *string    `db:"blog_post_id" json:"blogPostId,omitempty"`
	Amount        int64      `db:"amount" json:"amount"`
	PlatformFee   int64      `db:"platform_fee" json:"platformFee"`
	NetAmount     int64      `db:"net_amount" json:"netAmount"`
	PaymentMethod string     `db:"payment_method" json:"paymentMethod"`
	APIRef        string     `db:"api_ref" json:"apiRef"`
	TrackingID    string     `db:"tracking_id" json:"trackingId"`
	Status        string     `db:"status" json:"status"`
	FailedReason  string     `db:"failed_reason" json:"failedReason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}
