package model

type Event interface {
	GetId() string
}

// SupportReceivedEvent is published once, on the first transition of a
// support transaction into COMPLETED. Consumers send the author email/push
// notifications; delivery failures never touch the financial state.
type SupportReceivedEvent struct {
	EventID       string `json:"event_id"`
	TransactionID string `json:"transaction_id"`
	WalletID      string `json:"wallet_id"`
	AuthorID      string `json:"author_id"`
	SupporterName string `json:"supporter_name"`
	Message       string `json:"message,omitempty"`
	Amount        int64  `json:"amount"`
	NetAmount     int64  `json:"net_amount"`
}

// WithdrawalSettledEvent is published when a withdrawal reaches a terminal
// state, success or failure.
type WithdrawalSettledEvent struct {
	EventID      string `json:"event_id"`
	WithdrawalID string `json:"withdrawal_id"`
	WalletID     string `json:"wallet_id"`
	Method       string `json:"method"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	FailedReason string `json:"failed_reason,omitempty"`
}

func (e *SupportReceivedEvent) GetId() string {
	return e.EventID
}

func (e *WithdrawalSettledEvent) GetId() string {
	return e.EventID
}
