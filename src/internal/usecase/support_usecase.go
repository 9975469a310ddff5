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

const (
	maxNameLen    = 100
	maxMessageLen = 500
)

type SupportUseCase struct {
	Log         log.Log
	Validate    *validator.Validate
	WalletRepo  repository.WalletStore
	SupportRepo repository.SupportStore
	Gateway     payment.Client
	Settlement  *SettlementUseCase
	Scheduler   ReconcileScheduler
	Limits      fees.Limits
	CountryCode string
	Currency    string
	RedirectURL string
	StaleAfter  time.Duration
}

func NewSupportUseCase(
	logger log.Log,
	validate *validator.Validate,
	walletRepo repository.WalletStore,
	supportRepo repository.SupportStore,
	gatewayClient payment.Client,
	settlement *SettlementUseCase,
	scheduler ReconcileScheduler,
	limits fees.Limits,
	cfg *viper.Viper,
) *SupportUseCase {
	return &SupportUseCase{
		Log:         logger,
		Validate:    validate,
		WalletRepo:  walletRepo,
		SupportRepo: supportRepo,
		Gateway:     gatewayClient,
		Settlement:  settlement,
		Scheduler:   scheduler,
		Limits:      limits,
		CountryCode: cfg.GetString("payment.country_code"),
		Currency:    cfg.GetString("payment.currency"),
		RedirectURL: cfg.GetString("payment.checkout_redirect_url"),
		StaleAfter:  time.Duration(cfg.GetInt("settlement.stale_after_seconds")) * time.Second,
	}
}

// Create validates and persists a support transaction, then initiates the
// matching collection on the gateway. The record stays PENDING until the
// settlement reconciler observes a terminal gateway state.
func (c *SupportUseCase) Create(ctx context.Context, request *model.CreateSupportRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("support-usecase", err.Error(), "Create-validation", utils.ConvertString(request))
		return result
	}

	if err := c.Limits.ValidateSupportAmount(request.Amount); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("invalid support amount: %v", err)
		result.Error = errObj
		return result
	}

	if request.PaymentMethod == entity.PaymentMethodPushPayment && request.PhoneNumber == "" {
		errObj := httpError.NewBadRequest()
		errObj.Message = "phoneNumber is required for push payment"
		result.Error = errObj
		return result
	}
	if request.PaymentMethod == entity.PaymentMethodHostedCheckout && request.Email == "" {
		errObj := httpError.NewBadRequest()
		errObj.Message = "email is required for hosted checkout"
		result.Error = errObj
		return result
	}

	wallet, err := c.WalletRepo.FindOrCreate(ctx, request.AuthorID)
	if err != nil {
		c.Log.Error("support-usecase", fmt.Sprintf("wallet lookup failed: %v", err), "Create", request.AuthorID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	if wallet.Status == entity.WalletStatusClosed {
		errObj := httpError.NewConflict()
		errObj.Message = "author wallet is closed"
		result.Error = errObj
		return result
	}

	supporterName := utils.SanitizeText(request.Name, maxNameLen)
	if request.IsAnonymous || supporterName == "" {
		supporterName = "Anonymous"
	}

	breakdown := c.Limits.Calculate(request.Amount)
	tx := &entity.SupportTransaction{
		ID:            uuid.NewString(),
		WalletID:      wallet.ID,
		SupporterName: supporterName,
		Message:       utils.SanitizeText(request.Message, maxMessageLen),
		Amount:        breakdown.Gross,
		PlatformFee:   breakdown.PlatformFee,
		NetAmount:     breakdown.Net,
		PaymentMethod: request.PaymentMethod,
		Status:        entity.StatusPending,
	}
	tx.APIRef = entity.BuildAPIRef(entity.RefKindSupport, tx.ID)
	if request.SupporterID != "" {
		supporterID := request.SupporterID
		tx.SupporterID = &supporterID
	}
	if request.BlogPostID != "" {
		blogPostID := request.BlogPostID
		tx.BlogPostID = &blogPostID
	}

	if err := c.SupportRepo.Insert(ctx, tx); err != nil {
		c.Log.Error("support-usecase", fmt.Sprintf("insert failed: %v", err), "Create", tx.ID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	response := &model.CreateSupportResponse{
		PaymentMethod: request.PaymentMethod,
		TransactionID: tx.ID,
	}

	var trackingID string
	switch request.PaymentMethod {
	case entity.PaymentMethodPushPayment:
		res, gwErr := c.Gateway.InitiateCollectionPush(ctx, payment.CollectionPushRequest{
			FirstName:   supporterName,
			Email:       request.Email,
			Amount:      tx.Amount,
			PhoneNumber: fees.NormalizePhone(request.PhoneNumber, c.CountryCode),
			APIRef:      tx.APIRef,
			WalletID:    wallet.ID,
		})
		if gwErr != nil {
			return c.failInitiation(ctx, tx, gwErr)
		}
		trackingID = res.TrackingID

	case entity.PaymentMethodHostedCheckout:
		redirectURL := request.RedirectURL
		if redirectURL == "" {
			redirectURL = c.RedirectURL
		}
		res, gwErr := c.Gateway.InitiateCollectionCheckout(ctx, payment.CollectionCheckoutRequest{
			FirstName:   supporterName,
			Email:       request.Email,
			Amount:      tx.Amount,
			Currency:    c.Currency,
			APIRef:      tx.APIRef,
			RedirectURL: redirectURL,
			WalletID:    wallet.ID,
		})
		if gwErr != nil {
			return c.failInitiation(ctx, tx, gwErr)
		}
		trackingID = res.TrackingID
		response.CheckoutURL = res.URL
	}

	if trackingID != "" {
		if err := c.SupportRepo.SetTracking(ctx, tx.ID, trackingID); err != nil {
			c.Log.Error("support-usecase", fmt.Sprintf("tracking update failed: %v", err), "Create", tx.ID)
		}
	}

	if err := c.Scheduler.Schedule(ctx, entity.RefKindSupport, tx.ID, c.StaleAfter); err != nil {
		c.Log.Error("support-usecase", fmt.Sprintf("reconcile scheduling failed: %v", err), "Create", tx.ID)
	}

	result.Data = response
	return result
}

// failInitiation maps a synchronous gateway failure. A rejection (4xx)
// fails the transaction immediately; a transient failure leaves it PENDING
// for the polling fallback to resolve.
func (c *SupportUseCase) failInitiation(ctx context.Context, tx *entity.SupportTransaction, gwErr error) utils.Result {
	var result utils.Result

	var ge *payment.GatewayError
	if errors.As(gwErr, &ge) && !ge.Transient() {
		if _, err := c.SupportRepo.Fail(ctx, tx.ID, ge.Message); err != nil {
			c.Log.Error("support-usecase", fmt.Sprintf("fail transition error: %v", err), "failInitiation", tx.ID)
		}
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("payment rejected: %s", ge.Message)
		result.Error = errObj
		return result
	}

	if err := c.Scheduler.Schedule(ctx, entity.RefKindSupport, tx.ID, c.StaleAfter); err != nil {
		c.Log.Error("support-usecase", fmt.Sprintf("reconcile scheduling failed: %v", err), "failInitiation", tx.ID)
	}
	c.Log.Error("support-usecase", fmt.Sprintf("gateway unavailable: %v", gwErr), "failInitiation", tx.ID)
	errObj := httpError.NewBadGateway()
	errObj.Message = "payment gateway unavailable, the transaction will be reconciled"
	result.Error = errObj
	return result
}

// Status is the supporter-facing polling fallback: reconcile once if the
// transaction is still open, then report the caller-visible status.
func (c *SupportUseCase) Status(ctx context.Context, request *model.SupportStatusRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	tx, err := c.SupportRepo.FindByID(ctx, request.TransactionID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("transaction %s not found", request.TransactionID)
		result.Error = errObj
		return result
	}
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		return result
	}

	if !entity.IsTerminalStatus(tx.Status) {
		if _, _, err := c.Settlement.Reconcile(ctx, entity.RefKindSupport, tx.ID); err != nil {
			c.Log.Warn("support-usecase", fmt.Sprintf("reconcile pass failed: %v", err), "Status", tx.ID)
		}
		if refreshed, err := c.SupportRepo.FindByID(ctx, tx.ID); err == nil {
			tx = refreshed
		}
	}

	result.Data = converter.SupportToStatusResponse(tx)
	return result
}
