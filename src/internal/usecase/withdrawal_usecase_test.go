package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/fees"
	"wallet-service/src/internal/gateway/payment"
	"wallet-service/src/internal/model"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
)

type withdrawalFixture struct {
	uc          *WithdrawalUseCase
	wallets     *fakeWalletStore
	withdrawals *fakeWithdrawalStore
	gateway     *fakeGateway
	scheduler   *fakeScheduler
}

func newWithdrawalFixture() *withdrawalFixture {
	f := &withdrawalFixture{
		wallets:     newFakeWalletStore(),
		withdrawals: newFakeWithdrawalStore(),
		gateway:     &fakeGateway{},
		scheduler:   &fakeScheduler{},
	}
	limits := fees.Limits{
		FeePercentBps:           500,
		MinWithdrawalAmount:     10000,
		MinBankWithdrawalAmount: 20000,
		DailyWithdrawalLimit:    30000000,
	}
	supports := newFakeSupportStore()
	f.wallets.supports = supports
	f.wallets.withdrawals = f.withdrawals
	settlement := NewSettlementUseCase(
		log.Log{}, f.wallets, supports, f.withdrawals,
		f.gateway, nil, testChallenge, 2*time.Minute,
	)
	f.uc = NewWithdrawalUseCase(
		log.Log{}, validator.New(), f.wallets, f.withdrawals,
		f.gateway, settlement, f.scheduler, limits, testConfig(),
	)
	return f
}

func (f *withdrawalFixture) seedWallet(available int64) *entity.Wallet {
	wallet := &entity.Wallet{
		ID:               "w-1",
		AuthorID:         "author-1",
		Status:           entity.WalletStatusActive,
		CurrentBalance:   available,
		AvailableBalance: available,
	}
	f.wallets.add(wallet)
	return wallet
}

func mobileRequest(amount int64) *model.CreateWithdrawalRequest {
	return &model.CreateWithdrawalRequest{
		AuthorID:    "author-1",
		Amount:      amount,
		Method:      entity.WithdrawalMethodMobilePush,
		PhoneNumber: "0700086852",
	}
}

func Test_WithdrawalCreate(t *testing.T) {
	t.Run("ok, mobile payout debits and submits", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(100000)

		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.NoError(t, result.Error)

		response := result.Data.(*model.WithdrawalResponse)
		assert.Equal(t, entity.StatusProcessing, response.Status)
		assert.Equal(t, "trk-payout-1", response.TrackingID)
		assert.Equal(t, "254700086852", response.Destination)

		got := f.wallets.get(wallet.ID)
		assert.Equal(t, int64(60000), got.AvailableBalance)
		assert.Equal(t, int64(40000), got.TotalWithdrawn)
		assert.Equal(t, int64(40000), got.DailyWithdrawnAmount)

		require.Len(t, f.gateway.mobileCalls, 1)
		assert.Equal(t, "254700086852", f.gateway.mobileCalls[0].PhoneNumber)
		assert.Equal(t, 1, f.scheduler.count())
	})

	t.Run("ok, paybill payout carries the account reference", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.seedWallet(100000)

		result := f.uc.Create(context.Background(), &model.CreateWithdrawalRequest{
			AuthorID:      "author-1",
			Amount:        40000,
			Method:        entity.WithdrawalMethodBusinessPaybill,
			PaybillNumber: "247247",
			AccountRef:    "AUTHOR-1",
		})
		require.NoError(t, result.Error)

		require.Len(t, f.gateway.businessCalls, 1)
		tx := f.gateway.businessCalls[0].Transactions[0]
		assert.Equal(t, "247247", tx.Account)
		assert.Equal(t, "PayBill", tx.AccountType)
		assert.Equal(t, "AUTHOR-1", tx.AccountReference)
	})

	t.Run("ok, till payout has no account reference", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.seedWallet(100000)

		result := f.uc.Create(context.Background(), &model.CreateWithdrawalRequest{
			AuthorID:   "author-1",
			Amount:     40000,
			Method:     entity.WithdrawalMethodBusinessTill,
			TillNumber: "832909",
		})
		require.NoError(t, result.Error)

		require.Len(t, f.gateway.businessCalls, 1)
		tx := f.gateway.businessCalls[0].Transactions[0]
		assert.Equal(t, "832909", tx.Account)
		assert.Equal(t, "TillNumber", tx.AccountType)
		assert.Empty(t, tx.AccountReference)
	})

	t.Run("ok, bank payout routes by bank code", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.seedWallet(100000)

		result := f.uc.Create(context.Background(), &model.CreateWithdrawalRequest{
			AuthorID:    "author-1",
			Amount:      40000,
			Method:      entity.WithdrawalMethodBank,
			BankCode:    "068",
			BankAccount: "0100555",
		})
		require.NoError(t, result.Error)

		require.Len(t, f.gateway.bankCalls, 1)
		tx := f.gateway.bankCalls[0].Transactions[0]
		assert.Equal(t, "0100555", tx.Account)
		assert.Equal(t, "068", tx.BankCode)
	})

	t.Run("fail, insufficient funds", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.seedWallet(30000)

		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.Error(t, result.Error)
		ce := result.Error.(httpError.CommonError)
		assert.Equal(t, 400, ce.ResponseCode)
		assert.Equal(t, "INSUFFICIENT_FUNDS", ce.Code)
		assert.Empty(t, f.gateway.mobileCalls)
	})

	t.Run("fail, below the bank minimum", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.seedWallet(100000)

		result := f.uc.Create(context.Background(), &model.CreateWithdrawalRequest{
			AuthorID:    "author-1",
			Amount:      15000,
			Method:      entity.WithdrawalMethodBank,
			BankCode:    "068",
			BankAccount: "0100555",
		})
		require.Error(t, result.Error)
		assert.Equal(t, 400, result.Error.(httpError.CommonError).ResponseCode)
	})

	t.Run("fail, daily limit", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(90000000)
		now := time.Now()
		f.wallets.mu.Lock()
		f.wallets.wallets[wallet.ID].DailyWithdrawnAmount = 29990000
		f.wallets.wallets[wallet.ID].LastWithdrawalDate = &now
		f.wallets.mu.Unlock()

		result := f.uc.Create(context.Background(), mobileRequest(20000))
		require.Error(t, result.Error)
		ce := result.Error.(httpError.CommonError)
		assert.Equal(t, "DAILY_LIMIT_EXCEEDED", ce.Code)
	})

	t.Run("ok, daily total resets on a new calendar day", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(90000000)
		yesterday := time.Now().Add(-26 * time.Hour)
		f.wallets.mu.Lock()
		f.wallets.wallets[wallet.ID].DailyWithdrawnAmount = 29990000
		f.wallets.wallets[wallet.ID].LastWithdrawalDate = &yesterday
		f.wallets.mu.Unlock()

		result := f.uc.Create(context.Background(), mobileRequest(20000))
		require.NoError(t, result.Error)
		assert.Equal(t, int64(20000), f.wallets.get(wallet.ID).DailyWithdrawnAmount)
	})

	t.Run("fail, missing rail fields", func(t *testing.T) {
		f := newWithdrawalFixture()
		f.seedWallet(100000)

		result := f.uc.Create(context.Background(), &model.CreateWithdrawalRequest{
			AuthorID: "author-1",
			Amount:   40000,
			Method:   entity.WithdrawalMethodBusinessPaybill,
		})
		require.Error(t, result.Error)
		assert.Equal(t, 400, result.Error.(httpError.CommonError).ResponseCode)
	})

	t.Run("fail, no wallet for author", func(t *testing.T) {
		f := newWithdrawalFixture()

		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.Error(t, result.Error)
		assert.Equal(t, 404, result.Error.(httpError.CommonError).ResponseCode)
	})

	t.Run("fail, suspended wallet", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(100000)
		f.wallets.mu.Lock()
		f.wallets.wallets[wallet.ID].Status = entity.WalletStatusSuspended
		f.wallets.mu.Unlock()

		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.Error(t, result.Error)
		assert.Equal(t, 409, result.Error.(httpError.CommonError).ResponseCode)
	})

	t.Run("fail, gateway rejection refunds the reservation", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(100000)
		f.gateway.payoutErr = &payment.GatewayError{StatusCode: 400, Code: "INVALID_ACCOUNT", Message: "unknown account"}

		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.Error(t, result.Error)
		assert.Equal(t, 400, result.Error.(httpError.CommonError).ResponseCode)

		got := f.wallets.get(wallet.ID)
		assert.Equal(t, int64(100000), got.AvailableBalance)
		assert.Equal(t, int64(0), got.TotalWithdrawn)
		assert.Equal(t, 1, f.wallets.refundCalls)

		for _, w := range f.withdrawals.ws {
			assert.Equal(t, entity.StatusFailed, w.Status)
		}
	})

	t.Run("fail, gateway outage keeps the reservation", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(100000)
		f.gateway.payoutErr = &payment.GatewayError{StatusCode: 0, Code: "NETWORK", Message: "timeout"}

		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.Error(t, result.Error)
		assert.Equal(t, 502, result.Error.(httpError.CommonError).ResponseCode)

		// still debited, the reconciler decides
		got := f.wallets.get(wallet.ID)
		assert.Equal(t, int64(60000), got.AvailableBalance)
		assert.Equal(t, 0, f.wallets.refundCalls)
		assert.Equal(t, 1, f.scheduler.count())
	})

	t.Run("ok, concurrent withdrawals cannot overdraw", func(t *testing.T) {
		f := newWithdrawalFixture()
		wallet := f.seedWallet(100000)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = f.uc.Create(context.Background(), mobileRequest(70000)).Error
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range results {
			if err != nil {
				failures++
				assert.Equal(t, "INSUFFICIENT_FUNDS", err.(httpError.CommonError).Code)
			}
		}
		assert.Equal(t, 1, failures)
		assert.Equal(t, int64(30000), f.wallets.get(wallet.ID).AvailableBalance)
	})
}

func Test_WithdrawalRefresh(t *testing.T) {
	seed := func(f *withdrawalFixture) *entity.WithdrawalRequest {
		f.seedWallet(100000)
		result := f.uc.Create(context.Background(), mobileRequest(40000))
		require.NoError(t, result.Error)
		id := result.Data.(*model.WithdrawalResponse).ID
		w := f.withdrawals.get(id)
		return &w
	}

	t.Run("ok, applies the gateway verdict", func(t *testing.T) {
		f := newWithdrawalFixture()
		w := seed(f)
		f.gateway.statusRes = &payment.StatusResponse{State: payment.StateComplete}

		result := f.uc.Refresh(context.Background(), &model.RefreshWithdrawalRequest{
			AuthorID:     "author-1",
			WithdrawalID: w.ID,
		})
		require.NoError(t, result.Error)

		response := result.Data.(*model.RefreshWithdrawalResponse)
		assert.Equal(t, entity.StatusCompleted, response.Status)
		assert.Equal(t, payment.StateComplete, response.StatusCode)
		assert.Equal(t, w.APIRef, response.Reference)
	})

	t.Run("fail, foreign withdrawal is forbidden", func(t *testing.T) {
		f := newWithdrawalFixture()
		w := seed(f)

		result := f.uc.Refresh(context.Background(), &model.RefreshWithdrawalRequest{
			AuthorID:     "someone-else",
			WithdrawalID: w.ID,
		})
		require.Error(t, result.Error)
		assert.Equal(t, 403, result.Error.(httpError.CommonError).ResponseCode)
	})

	t.Run("fail, unknown withdrawal", func(t *testing.T) {
		f := newWithdrawalFixture()
		result := f.uc.Refresh(context.Background(), &model.RefreshWithdrawalRequest{
			AuthorID:     "author-1",
			WithdrawalID: "missing",
		})
		require.Error(t, result.Error)
		assert.Equal(t, 404, result.Error.(httpError.CommonError).ResponseCode)
	})
}
