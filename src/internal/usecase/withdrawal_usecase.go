package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/fees"
	"wallet-service/src/internal/gateway/payment"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"
)

type WithdrawalUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	WalletRepo     repository.WalletStore
	WithdrawalRepo repository.WithdrawalStore
	Gateway        payment.Client
	Settlement     *SettlementUseCase
	Scheduler      ReconcileScheduler
	Limits         fees.Limits
	CountryCode    string
	StaleAfter     time.Duration
}

func NewWithdrawalUseCase(
	logger log.Log,
	validate *validator.Validate,
	walletRepo repository.WalletStore,
	withdrawalRepo repository.WithdrawalStore,
	gatewayClient payment.Client,
	settlement *SettlementUseCase,
	scheduler ReconcileScheduler,
	limits fees.Limits,
	cfg *viper.Viper,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		Log:            logger,
		Validate:       validate,
		WalletRepo:     walletRepo,
		WithdrawalRepo: withdrawalRepo,
		Gateway:        gatewayClient,
		Settlement:     settlement,
		Scheduler:      scheduler,
		Limits:         limits,
		CountryCode:    cfg.GetString("payment.country_code"),
		StaleAfter:     time.Duration(cfg.GetInt("settlement.stale_after_seconds")) * time.Second,
	}
}

// Create reserves the amount on the wallet first (optimistic debit), then
// submits the payout to the gateway. A synchronous gateway rejection fails
// the request and refunds immediately; anything slower is settled by the
// reconciler.
func (c *WithdrawalUseCase) Create(ctx context.Context, request *model.CreateWithdrawalRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", err.Error(), "Create-validation", utils.ConvertString(request))
		return result
	}

	dest, err := request.Destination(c.CountryCode)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	wallet, err := c.WalletRepo.FindByAuthorID(ctx, request.AuthorID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = "wallet not found for author"
		result.Error = errObj
		return result
	}
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if wallet.Status != entity.WalletStatusActive {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("wallet is %s", wallet.Status)
		result.Error = errObj
		return result
	}

	dailyWithdrawn := fees.EffectiveDailyWithdrawn(wallet.DailyWithdrawnAmount, wallet.LastWithdrawalDate, time.Now())
	isBank := request.Method == entity.WithdrawalMethodBank
	if err := c.Limits.ValidateWithdrawalAmount(request.Amount, wallet.AvailableBalance, dailyWithdrawn, isBank); err != nil {
		result.Error = c.amountError(err)
		return result
	}

	reserved, err := c.WalletRepo.ReserveForWithdrawal(ctx, wallet.ID, request.Amount, c.Limits.DailyWithdrawalLimit)
	if err != nil {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("reservation failed: %v", err), "Create", wallet.ID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if !reserved {
		// lost the race or the limits moved between the pre-check and
		// the atomic update; re-read to tell the caller which rule hit
		result.Error = c.classifyReservationFailure(ctx, wallet.ID, request.Amount)
		return result
	}

	withdrawal := &entity.WithdrawalRequest{
		ID:       uuid.NewString(),
		WalletID: wallet.ID,
		Amount:   request.Amount,
		Status:   entity.StatusPending,
	}
	withdrawal.ApplyDestination(dest)
	withdrawal.APIRef = entity.BuildAPIRef(entity.RefKindWithdrawal, withdrawal.ID)

	if err := c.WithdrawalRepo.Insert(ctx, withdrawal); err != nil {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("insert failed: %v", err), "Create", withdrawal.ID)
		// no row was written, so the reservation is released directly
		if rerr := c.WalletRepo.RefundFailedWithdrawal(ctx, wallet.ID, request.Amount); rerr != nil {
			c.Log.Error("withdrawal-usecase", fmt.Sprintf("reservation release failed: %v", rerr), "Create", wallet.ID)
		}
		result.Error = httpError.NewInternalServerError()
		return result
	}

	res, gwErr := c.initiatePayout(ctx, withdrawal, dest)
	if gwErr != nil {
		return c.failInitiation(ctx, withdrawal, gwErr)
	}

	if ok, err := c.WithdrawalRepo.MarkProcessing(ctx, withdrawal.ID, res.TrackingID); err != nil || !ok {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("processing transition failed: %v", err), "Create", withdrawal.ID)
	} else {
		withdrawal.Status = entity.StatusProcessing
		withdrawal.TrackingID = res.TrackingID
	}

	if err := c.Scheduler.Schedule(ctx, entity.RefKindWithdrawal, withdrawal.ID, c.StaleAfter); err != nil {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("reconcile scheduling failed: %v", err), "Create", withdrawal.ID)
	}

	result.Data = converter.WithdrawalToResponse(withdrawal)
	return result
}

func (c *WithdrawalUseCase) initiatePayout(ctx context.Context, w *entity.WithdrawalRequest, dest entity.PayoutDestination) (*payment.PayoutResponse, error) {
	narrative := fmt.Sprintf("author withdrawal %s", w.ID)

	switch d := dest.(type) {
	case entity.MobileDestination:
		return c.Gateway.InitiatePayoutMobile(ctx, payment.MobilePayoutRequest{
			Name:        "Author",
			PhoneNumber: d.Phone,
			Amount:      w.Amount,
			Narrative:   narrative,
		})
	case entity.PaybillDestination:
		return c.Gateway.InitiatePayoutBusiness(ctx, payment.BusinessPayoutRequest{
			Transactions: []payment.PayoutTransaction{{
				Name:             "Author",
				Account:          d.Paybill,
				AccountType:      "PayBill",
				AccountReference: d.AccountRef,
				Amount:           w.Amount,
				Narrative:        narrative,
			}},
		})
	case entity.TillDestination:
		return c.Gateway.InitiatePayoutBusiness(ctx, payment.BusinessPayoutRequest{
			Transactions: []payment.PayoutTransaction{{
				Name:        "Author",
				Account:     d.Till,
				AccountType: "TillNumber",
				Amount:      w.Amount,
				Narrative:   narrative,
			}},
		})
	case entity.BankDestination:
		return c.Gateway.InitiatePayoutBank(ctx, payment.BankPayoutRequest{
			Transactions: []payment.PayoutTransaction{{
				Name:      "Author",
				Account:   d.Account,
				BankCode:  d.BankCode,
				Amount:    w.Amount,
				Narrative: narrative,
			}},
		})
	default:
		return nil, fmt.Errorf("unsupported payout destination %T", dest)
	}
}

// failInitiation handles a synchronous gateway failure after the wallet
// was already debited. A rejection refunds through the FAILED transition;
// a transient failure keeps the reservation and defers to the reconciler.
func (c *WithdrawalUseCase) failInitiation(ctx context.Context, w *entity.WithdrawalRequest, gwErr error) utils.Result {
	var result utils.Result

	var ge *payment.GatewayError
	if errors.As(gwErr, &ge) && !ge.Transient() {
		if _, _, err := c.Settlement.ApplyGatewayState(ctx, entity.RefKindWithdrawal, w.ID, payment.StateFailed, "", ge.Message); err != nil {
			c.Log.Error("withdrawal-usecase", fmt.Sprintf("fail transition error: %v", err), "failInitiation", w.ID)
		}
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("payout rejected: %s", ge.Message)
		result.Error = errObj
		return result
	}

	if err := c.Scheduler.Schedule(ctx, entity.RefKindWithdrawal, w.ID, c.StaleAfter); err != nil {
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("reconcile scheduling failed: %v", err), "failInitiation", w.ID)
	}
	c.Log.Error("withdrawal-usecase", fmt.Sprintf("gateway unavailable: %v", gwErr), "failInitiation", w.ID)
	errObj := httpError.NewBadGateway()
	errObj.Message = "payout gateway unavailable, the withdrawal will be reconciled"
	result.Error = errObj
	return result
}

func (c *WithdrawalUseCase) amountError(err error) error {
	switch {
	case errors.Is(err, fees.ErrInsufficientFunds):
		return httpError.NewInsufficientFunds()
	case errors.Is(err, fees.ErrDailyLimitExceeded):
		return httpError.NewDailyLimitExceeded()
	default:
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("invalid withdrawal amount: %v", err)
		return errObj
	}
}

func (c *WithdrawalUseCase) classifyReservationFailure(ctx context.Context, walletID string, amount int64) error {
	wallet, err := c.WalletRepo.FindByID(ctx, walletID)
	if err != nil {
		return httpError.NewInsufficientFunds()
	}
	if wallet.AvailableBalance < amount {
		return httpError.NewInsufficientFunds()
	}
	dailyWithdrawn := fees.EffectiveDailyWithdrawn(wallet.DailyWithdrawnAmount, wallet.LastWithdrawalDate, time.Now())
	if dailyWithdrawn+amount > c.Limits.DailyWithdrawalLimit {
		return httpError.NewDailyLimitExceeded()
	}
	errObj := httpError.NewConflict()
	errObj.Message = "withdrawal could not be reserved, please retry"
	return errObj
}

// Refresh queries the gateway for a withdrawal still in flight and applies
// the identical settlement transition the webhook would.
func (c *WithdrawalUseCase) Refresh(ctx context.Context, request *model.RefreshWithdrawalRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	withdrawal, err := c.WithdrawalRepo.FindByID(ctx, request.WithdrawalID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("withdrawal %s not found", request.WithdrawalID)
		result.Error = errObj
		return result
	}
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		return result
	}

	wallet, err := c.WalletRepo.FindByID(ctx, withdrawal.WalletID)
	if err != nil || wallet.AuthorID != request.AuthorID {
		errObj := httpError.NewForbidden()
		errObj.Message = "withdrawal does not belong to the caller"
		result.Error = errObj
		return result
	}

	status, gwState, err := c.Settlement.Reconcile(ctx, entity.RefKindWithdrawal, withdrawal.ID)
	if err != nil {
		c.Log.Warn("withdrawal-usecase", fmt.Sprintf("reconcile pass failed: %v", err), "Refresh", withdrawal.ID)
		var ge *payment.GatewayError
		if errors.As(err, &ge) && ge.Transient() {
			errObj := httpError.NewBadGateway()
			errObj.Message = "gateway status check unavailable"
			result.Error = errObj
			return result
		}
	}
	if status == "" {
		status = withdrawal.Status
	}

	result.Data = &model.RefreshWithdrawalResponse{
		Status:     status,
		StatusCode: gwState,
		Reference:  withdrawal.APIRef,
	}
	return result
}
