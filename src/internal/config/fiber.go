package config

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"wallet-service/src/pkg/utils"
)

func NewFiber(config *viper.Viper) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		ErrorHandler: newErrorHandler(),
		Prefork:      config.GetBool("web.prefork"),
	})

	return app
}

func newErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return utils.ResponseError(err, ctx)
	}
}
