package fees

import (
	"errors"
	"time"
)

var (
	ErrBelowMinimum       = errors.New("amount is below the minimum")
	ErrAboveMaximum       = errors.New("amount exceeds the maximum")
	ErrInsufficientFunds  = errors.New("amount exceeds available balance")
	ErrDailyLimitExceeded = errors.New("amount exceeds the remaining daily limit")
)

// Limits carries the configured amount rules. All amounts are minor units;
// the platform fee is expressed in basis points of the gross amount.
type Limits struct {
	FeePercentBps            int64
	MinSupportAmount         int64
	MaxSupportAmount         int64
	MinWithdrawalAmount      int64
	MinBankWithdrawalAmount  int64
	DailyWithdrawalLimit     int64
}

type Breakdown struct {
	Gross       int64
	PlatformFee int64
	Net         int64
}

// Calculate splits a gross amount into platform fee and net credit.
// Rounding is half-up on the fee so PlatformFee + Net == Gross always.
func (l Limits) Calculate(gross int64) Breakdown {
	fee := (gross*l.FeePercentBps + 5000) / 10000
	return Breakdown{
		Gross:       gross,
		PlatformFee: fee,
		Net:         gross - fee,
	}
}

func (l Limits) ValidateSupportAmount(amount int64) error {
	if amount < l.MinSupportAmount {
		return ErrBelowMinimum
	}
	if amount > l.MaxSupportAmount {
		return ErrAboveMaximum
	}
	return nil
}

// ValidateWithdrawalAmount checks an amount against the rail minimum, the
// available balance, and the remaining daily allowance. dailyWithdrawn must
// already be the effective value for today (see EffectiveDailyWithdrawn).
func (l Limits) ValidateWithdrawalAmount(amount, available, dailyWithdrawn int64, bank bool) error {
	min := l.MinWithdrawalAmount
	if bank {
		min = l.MinBankWithdrawalAmount
	}
	if amount < min {
		return ErrBelowMinimum
	}
	if amount > available {
		return ErrInsufficientFunds
	}
	if dailyWithdrawn+amount > l.DailyWithdrawalLimit {
		return ErrDailyLimitExceeded
	}
	return nil
}

// EffectiveDailyWithdrawn resets the running daily total to zero the first
// time a withdrawal is attempted on a later calendar day than the last one.
func EffectiveDailyWithdrawn(dailyWithdrawn int64, lastWithdrawal *time.Time, now time.Time) int64 {
	if lastWithdrawal == nil {
		return 0
	}
	ly, lm, ld := lastWithdrawal.Date()
	ny, nm, nd := now.Date()
	if ly != ny || lm != nm || ld != nd {
		return 0
	}
	return dailyWithdrawn
}
