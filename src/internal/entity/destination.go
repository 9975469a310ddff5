package entity

import "fmt"

// PayoutDestination is a closed set of payout-rail variants. Each variant
// carries only the fields its rail requires, so a bank payout cannot exist
// without a bank code and account.
type PayoutDestination interface {
	Method() string
	Provider() string
	Label() string
	Validate() error
}

type MobileDestination struct {
	Phone string
}

func (d MobileDestination) Method() string   { return WithdrawalMethodMobilePush }
func (d MobileDestination) Provider() string { return "mobile-money" }
func (d MobileDestination) Label() string    { return d.Phone }
func (d MobileDestination) Validate() error {
	if d.Phone == "" {
		return fmt.Errorf("mobile payout requires a phone number")
	}
	return nil
}

type PaybillDestination struct {
	Paybill    string
	AccountRef string
}

func (d PaybillDestination) Method() string   { return WithdrawalMethodBusinessPaybill }
func (d PaybillDestination) Provider() string { return "business-b2b" }
func (d PaybillDestination) Label() string {
	return fmt.Sprintf("paybill %s (%s)", d.Paybill, d.AccountRef)
}
func (d PaybillDestination) Validate() error {
	if d.Paybill == "" || d.AccountRef == "" {
		return fmt.Errorf("paybill payout requires a paybill number and account reference")
	}
	return nil
}

type TillDestination struct {
	Till string
}

func (d TillDestination) Method() string   { return WithdrawalMethodBusinessTill }
func (d TillDestination) Provider() string { return "business-b2b" }
func (d TillDestination) Label() string    { return fmt.Sprintf("till %s", d.Till) }
func (d TillDestination) Validate() error {
	if d.Till == "" {
		return fmt.Errorf("till payout requires a till number")
	}
	return nil
}

type BankDestination struct {
	BankCode string
	Account  string
}

func (d BankDestination) Method() string   { return WithdrawalMethodBank }
func (d BankDestination) Provider() string { return "bank-transfer" }
func (d BankDestination) Label() string {
	return fmt.Sprintf("bank %s acc %s", d.BankCode, d.Account)
}
func (d BankDestination) Validate() error {
	if d.BankCode == "" || d.Account == "" {
		return fmt.Errorf("bank payout requires a bank code and account number")
	}
	return nil
}
