package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"
)

const (
	walletSummaryCacheTTL = 30 * time.Second
	recentEntriesLimit    = 10
)

type WalletUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	WalletRepo     repository.WalletStore
	SupportRepo    repository.SupportStore
	WithdrawalRepo repository.WithdrawalStore
	Redis          redis.UniversalClient
}

func NewWalletUseCase(
	logger log.Log,
	validate *validator.Validate,
	walletRepo repository.WalletStore,
	supportRepo repository.SupportStore,
	withdrawalRepo repository.WithdrawalStore,
	redisClient redis.UniversalClient,
) *WalletUseCase {
	return &WalletUseCase{
		Log:            logger,
		Validate:       validate,
		WalletRepo:     walletRepo,
		SupportRepo:    supportRepo,
		WithdrawalRepo: withdrawalRepo,
		Redis:          redisClient,
	}
}

// GetSummary returns the dashboard view of the author's wallet with the
// most recent entries on both sides of the ledger. Cached briefly; balance
// correctness always comes from the ledger rows, the cache only shields
// the dashboard from hammering the database.
func (c *WalletUseCase) GetSummary(ctx context.Context, request *model.GetWalletRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	cacheKey := fmt.Sprintf("WALLET:SUMMARY:%s", request.AuthorID)
	if c.Redis != nil {
		if cached, err := c.Redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var summary model.WalletSummaryResponse
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				result.Data = &summary
				return result
			}
		}
	}

	wallet, err := c.WalletRepo.FindByAuthorID(ctx, request.AuthorID)
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = "wallet not found for author"
		result.Error = errObj
		return result
	}
	if err != nil {
		c.Log.Error("wallet-usecase", fmt.Sprintf("wallet lookup failed: %v", err), "GetSummary", request.AuthorID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	support, err := c.SupportRepo.ListRecentByWallet(ctx, wallet.ID, recentEntriesLimit)
	if err != nil {
		c.Log.Error("wallet-usecase", fmt.Sprintf("support list failed: %v", err), "GetSummary", wallet.ID)
		result.Error = httpError.NewInternalServerError()
		return result
	}
	withdrawals, err := c.WithdrawalRepo.ListRecentByWallet(ctx, wallet.ID, recentEntriesLimit)
	if err != nil {
		c.Log.Error("wallet-usecase", fmt.Sprintf("withdrawal list failed: %v", err), "GetSummary", wallet.ID)
		result.Error = httpError.NewInternalServerError()
		return result
	}

	summary := converter.WalletToSummary(wallet, support, withdrawals)

	if c.Redis != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := c.Redis.Set(ctx, cacheKey, payload, walletSummaryCacheTTL).Err(); err != nil {
				c.Log.Warn("wallet-usecase", fmt.Sprintf("summary cache write failed: %v", err), "GetSummary", cacheKey)
			}
		}
	}

	result.Data = summary
	return result
}
