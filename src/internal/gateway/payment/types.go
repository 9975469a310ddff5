package payment

import "fmt"

// Gateway transaction states as reported by the processor. COMPLETE and
// FAILED are terminal; everything else is still in flight.
const (
	StatePending    = "PENDING"
	StateProcessing = "PROCESSING"
	StateComplete   = "COMPLETE"
	StateFailed     = "FAILED"
)

// GatewayError is any non-2xx answer from the processor. Transient errors
// (timeouts, 5xx) may be retried by the orchestration layer; this package
// never retries on its own.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *GatewayError) Transient() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

type CollectionPushRequest struct {
	FirstName   string `json:"first_name"`
	Email       string `json:"email,omitempty"`
	Amount      int64  `json:"amount"`
	PhoneNumber string `json:"phone_number"`
	APIRef      string `json:"api_ref"`
	WalletID    string `json:"wallet_id"`
}

type CollectionCheckoutRequest struct {
	FirstName   string `json:"first_name"`
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	APIRef      string `json:"api_ref"`
	RedirectURL string `json:"redirect_url"`
	WalletID    string `json:"wallet_id"`
}

type CollectionResponse struct {
	TrackingID string `json:"tracking_id"`
	InvoiceID  string `json:"invoice_id"`
	State      string `json:"state"`
}

type CheckoutResponse struct {
	TrackingID string `json:"tracking_id"`
	CheckoutID string `json:"checkout_id"`
	URL        string `json:"url"`
}

type MobilePayoutRequest struct {
	Name             string `json:"name"`
	PhoneNumber      string `json:"account"`
	Amount           int64  `json:"amount"`
	Narrative        string `json:"narrative"`
	RequiresApproval bool   `json:"-"`
}

// PayoutTransaction is one line of a business or bank payout batch. For
// paybill payouts AccountReference carries the payer reference; for till
// payouts it is empty. For bank payouts AccountType names the bank code.
type PayoutTransaction struct {
	Name             string `json:"name"`
	Account          string `json:"account"`
	AccountType      string `json:"account_type,omitempty"`
	AccountReference string `json:"account_reference,omitempty"`
	BankCode         string `json:"bank_code,omitempty"`
	Amount           int64  `json:"amount"`
	Narrative        string `json:"narrative"`
}

type BusinessPayoutRequest struct {
	Transactions     []PayoutTransaction `json:"transactions"`
	RequiresApproval bool                `json:"-"`
}

type BankPayoutRequest struct {
	Transactions     []PayoutTransaction `json:"transactions"`
	RequiresApproval bool                `json:"-"`
}

type PayoutResponse struct {
	TrackingID string `json:"tracking_id"`
	State      string `json:"state"`
}

type StatusTransaction struct {
	Request string `json:"request"`
	State   string `json:"status"`
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

type StatusResponse struct {
	TrackingID   string              `json:"tracking_id"`
	State        string              `json:"state"`
	APIRef       string              `json:"api_ref"`
	FailedReason string              `json:"failed_reason"`
	FailedCode   string              `json:"failed_code"`
	Transactions []StatusTransaction `json:"transactions"`
}
