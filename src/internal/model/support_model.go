package model

import "time"

type CreateSupportRequest struct {
	AuthorID      string `json:"-" validate:"required,max=100"`
	SupporterID   string `json:"-"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=PUSH_PAYMENT HOSTED_CHECKOUT"`
	PhoneNumber   string `json:"phoneNumber" validate:"omitempty,max=20"`
	Email         string `json:"email" validate:"omitempty,email,max=100"`
	Name          string `json:"name" validate:"omitempty,max=100"`
	Message       string `json:"message" validate:"omitempty,max=500"`
	IsAnonymous   bool   `json:"isAnonymous"`
	BlogPostID    string `json:"blogPostId" validate:"omitempty,max=100"`
	RedirectURL   string `json:"redirectUrl" validate:"omitempty,url,max=300"`
}

type CreateSupportResponse struct {
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
	CheckoutURL   string `json:"checkoutUrl,omitempty"`
}

type SupportStatusRequest struct {
	TransactionID string `json:"transactionId" validate:"required,max=100"`
}

// SupportStatusResponse is the caller-visible view of a support
// transaction; the converter folds PROCESSING into PENDING here.
type SupportStatusResponse struct {
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}
