package http

import (
	"github.com/gofiber/fiber/v2"

	"wallet-service/src/internal/model"
	"wallet-service/src/internal/usecase"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"
)

type WebhookController struct {
	Log     log.Log
	UseCase *usecase.SettlementUseCase
}

func NewWebhookController(useCase *usecase.SettlementUseCase, logger log.Log) *WebhookController {
	return &WebhookController{
		Log:     logger,
		UseCase: useCase,
	}
}

// HandleGatewayWebhook acknowledges every delivery with 200 so the
// gateway stops retrying; the only exception is a failed challenge check,
// which gets 401. Internal processing errors are the reconciler's problem.
func (c *WebhookController) HandleGatewayWebhook(ctx *fiber.Ctx) error {
	request := new(model.GatewayWebhookRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WebhookController.HandleGatewayWebhook", "Failed to parse webhook body", "error", err.Error())
		return ctx.Status(fiber.StatusOK).JSON(model.WebhookAck{Received: true})
	}

	result := c.UseCase.HandleWebhook(ctx.Context(), request)
	if result.Error != nil {
		if ce, ok := result.Error.(httpError.CommonError); ok && ce.ResponseCode == fiber.StatusUnauthorized {
			return utils.ResponseError(result.Error, ctx)
		}
		return ctx.Status(fiber.StatusOK).JSON(model.WebhookAck{Received: true})
	}

	return ctx.Status(fiber.StatusOK).JSON(result.Data)
}
