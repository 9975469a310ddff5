package fees

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimits() Limits {
	return Limits{
		FeePercentBps:           500,
		MinSupportAmount:        1000,
		MaxSupportAmount:        15000000,
		MinWithdrawalAmount:     10000,
		MinBankWithdrawalAmount: 20000,
		DailyWithdrawalLimit:    30000000,
	}
}

func Test_Calculate(t *testing.T) {
	t.Run("ok, five percent of a round amount", func(t *testing.T) {
		b := testLimits().Calculate(10000)
		assert.Equal(t, int64(10000), b.Gross)
		assert.Equal(t, int64(500), b.PlatformFee)
		assert.Equal(t, int64(9500), b.Net)
	})

	t.Run("ok, fee rounds half up", func(t *testing.T) {
		// 1010 * 5% = 50.5, rounds to 51
		b := testLimits().Calculate(1010)
		assert.Equal(t, int64(51), b.PlatformFee)
		assert.Equal(t, int64(959), b.Net)

		// 1009 * 5% = 50.45, rounds to 50
		b = testLimits().Calculate(1009)
		assert.Equal(t, int64(50), b.PlatformFee)
	})

	t.Run("ok, fee plus net always equals gross", func(t *testing.T) {
		l := testLimits()
		for gross := int64(1); gross <= 50000; gross++ {
			b := l.Calculate(gross)
			require.Equal(t, gross, b.PlatformFee+b.Net, "gross %d", gross)
			require.GreaterOrEqual(t, b.PlatformFee, int64(0), "gross %d", gross)
			require.GreaterOrEqual(t, b.Net, int64(0), "gross %d", gross)
		}
	})

	t.Run("ok, zero fee rate keeps the full amount", func(t *testing.T) {
		l := testLimits()
		l.FeePercentBps = 0
		b := l.Calculate(12345)
		assert.Equal(t, int64(0), b.PlatformFee)
		assert.Equal(t, int64(12345), b.Net)
	})
}

func Test_ValidateSupportAmount(t *testing.T) {
	l := testLimits()

	assert.NoError(t, l.ValidateSupportAmount(1000))
	assert.NoError(t, l.ValidateSupportAmount(15000000))
	assert.ErrorIs(t, l.ValidateSupportAmount(999), ErrBelowMinimum)
	assert.ErrorIs(t, l.ValidateSupportAmount(15000001), ErrAboveMaximum)
}

func Test_ValidateWithdrawalAmount(t *testing.T) {
	l := testLimits()

	t.Run("ok, within every bound", func(t *testing.T) {
		assert.NoError(t, l.ValidateWithdrawalAmount(10000, 50000, 0, false))
	})

	t.Run("fail, below rail minimum", func(t *testing.T) {
		assert.ErrorIs(t, l.ValidateWithdrawalAmount(9999, 50000, 0, false), ErrBelowMinimum)
	})

	t.Run("fail, bank rail has a higher minimum", func(t *testing.T) {
		assert.ErrorIs(t, l.ValidateWithdrawalAmount(15000, 50000, 0, true), ErrBelowMinimum)
		assert.NoError(t, l.ValidateWithdrawalAmount(20000, 50000, 0, true))
	})

	t.Run("fail, exceeds available balance", func(t *testing.T) {
		assert.ErrorIs(t, l.ValidateWithdrawalAmount(50001, 50000, 0, false), ErrInsufficientFunds)
	})

	t.Run("fail, exceeds the remaining daily allowance", func(t *testing.T) {
		err := l.ValidateWithdrawalAmount(10000, 99999999, 29995000, false)
		assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	})

	t.Run("ok, exactly the remaining daily allowance", func(t *testing.T) {
		assert.NoError(t, l.ValidateWithdrawalAmount(10000, 99999999, 29990000, false))
	})
}

func Test_EffectiveDailyWithdrawn(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("ok, never withdrew", func(t *testing.T) {
		assert.Equal(t, int64(0), EffectiveDailyWithdrawn(5000, nil, now))
	})

	t.Run("ok, last withdrawal earlier today counts", func(t *testing.T) {
		last := time.Date(2025, 6, 15, 0, 30, 0, 0, time.UTC)
		assert.Equal(t, int64(5000), EffectiveDailyWithdrawn(5000, &last, now))
	})

	t.Run("ok, last withdrawal yesterday resets", func(t *testing.T) {
		last := time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, int64(0), EffectiveDailyWithdrawn(5000, &last, now))
	})
}

func Test_NormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+254700086852", "254700086852"},
		{"254700086852", "254700086852"},
		{"0700086852", "254700086852"},
		{"700086852", "254700086852"},
		{" +254 700 086 852 ", "254700086852"},
		{"12025550123", "12025550123"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePhone(c.in, "254"), "input %q", c.in)
	}
}
