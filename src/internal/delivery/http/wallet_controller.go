package http

import (
	"github.com/gofiber/fiber/v2"

	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"
)

type WalletController struct {
	Log               log.Log
	WalletUseCase     *usecase.WalletUseCase
	WithdrawalUseCase *usecase.WithdrawalUseCase
}

func NewWalletController(walletUseCase *usecase.WalletUseCase, withdrawalUseCase *usecase.WithdrawalUseCase, logger log.Log) *WalletController {
	return &WalletController{
		Log:               logger,
		WalletUseCase:     walletUseCase,
		WithdrawalUseCase: withdrawalUseCase,
	}
}

func (c *WalletController) GetWallet(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.GetWalletRequest{
		AuthorID: auth.UserID,
	}
	result := c.WalletUseCase.GetSummary(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Summary", fiber.StatusOK, ctx)
}

func (c *WalletController) CreateWithdrawal(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateWithdrawalRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WalletController.CreateWithdrawal", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.AuthorID = auth.UserID

	result := c.WithdrawalUseCase.Create(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal Submitted", fiber.StatusCreated, ctx)
}

func (c *WalletController) RefreshWithdrawal(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.RefreshWithdrawalRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WalletController.RefreshWithdrawal", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.AuthorID = auth.UserID

	result := c.WithdrawalUseCase.Refresh(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Withdrawal Status", fiber.StatusOK, ctx)
}
