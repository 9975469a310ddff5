package model

import (
	"fmt"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/fees"
)

type CreateWithdrawalRequest struct {
	AuthorID      string `json:"-" validate:"required,max=100"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Method        string `json:"method" validate:"required,oneof=MOBILE_PUSH_PAYOUT BUSINESS_PAYBILL_PAYOUT BUSINESS_TILL_PAYOUT BANK_PAYOUT"`
	PhoneNumber   string `json:"phoneNumber" validate:"omitempty,max=20"`
	PaybillNumber string `json:"paybillNumber" validate:"omitempty,max=20"`
	AccountRef    string `json:"accountRef" validate:"omitempty,max=50"`
	TillNumber    string `json:"tillNumber" validate:"omitempty,max=20"`
	BankCode      string `json:"bankCode" validate:"omitempty,max=20"`
	BankAccount   string `json:"bankAccount" validate:"omitempty,max=50"`
}

// Destination builds the payout-rail variant for the requested method,
// so the per-rail required fields are enforced in one place.
func (r *CreateWithdrawalRequest) Destination(countryCode string) (entity.PayoutDestination, error) {
	var dest entity.PayoutDestination
	switch r.Method {
	case entity.WithdrawalMethodMobilePush:
		dest = entity.MobileDestination{Phone: fees.NormalizePhone(r.PhoneNumber, countryCode)}
	case entity.WithdrawalMethodBusinessPaybill:
		dest = entity.PaybillDestination{Paybill: r.PaybillNumber, AccountRef: r.AccountRef}
	case entity.WithdrawalMethodBusinessTill:
		dest = entity.TillDestination{Till: r.TillNumber}
	case entity.WithdrawalMethodBank:
		dest = entity.BankDestination{BankCode: r.BankCode, Account: r.BankAccount}
	}
	if dest == nil {
		return nil, fmt.Errorf("unsupported withdrawal method %q", r.Method)
	}
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	return dest, nil
}

type WithdrawalResponse struct {
	ID          string     `json:"id"`
	Amount      int64      `json:"amount"`
	Method      string     `json:"method"`
	Destination string     `json:"destination"`
	Status      string     `json:"status"`
	TrackingID  string     `json:"trackingId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type RefreshWithdrawalRequest struct {
	AuthorID     string `json:"-" validate:"required,max=100"`
	WithdrawalID string `json:"withdrawalId" validate:"required,max=100"`
}

type RefreshWithdrawalResponse struct {
	Status     string `json:"status"`
	StatusCode string `json:"statusCode"`
	Reference  string `json:"reference"`
}
