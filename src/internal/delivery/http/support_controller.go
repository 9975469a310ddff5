package http

import (
	"github.com/gofiber/fiber/v2"

	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"
)

type SupportController struct {
	Log     log.Log
	UseCase *usecase.SupportUseCase
}

func NewSupportController(useCase *usecase.SupportUseCase, logger log.Log) *SupportController {
	return &SupportController{
		Log:     logger,
		UseCase: useCase,
	}
}

// CreateSupport handles the public support endpoint. The supporter may be
// anonymous; an authenticated session only attaches the supporter id.
func (c *SupportController) CreateSupport(ctx *fiber.Ctx) error {
	request := new(model.CreateSupportRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("SupportController.CreateSupport", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.AuthorID = ctx.Params("authorId")

	result := c.UseCase.Create(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Support Initiated", fiber.StatusCreated, ctx)
}

func (c *SupportController) SupportStatus(ctx *fiber.Ctx) error {
	request := &model.SupportStatusRequest{
		TransactionID: ctx.Params("transactionId"),
	}

	result := c.UseCase.Status(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Support Status", fiber.StatusOK, ctx)
}
