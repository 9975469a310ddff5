package route

import (
	"github.com/gofiber/fiber/v2"

	"wallet-service/src/internal/delivery/http"
	"wallet-service/src/internal/delivery/http/middleware"
)

type RouteConfig struct {
	App                 *fiber.App
	SupportController   *http.SupportController
	WalletController    *http.WalletController
	WebhookController   *http.WebhookController
	AuthMiddleware      fiber.Handler
	RateLimitMiddleware fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupPublicRoute()
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupPublicRoute() {
	c.App.Post("/support/webhook", c.WebhookController.HandleGatewayWebhook)
	c.App.Get("/support/:transactionId/status", c.SupportController.SupportStatus)
	c.App.Post("/support/:authorId", c.RateLimitMiddleware, c.SupportController.CreateSupport)
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)
	c.App.Get("/author/wallet", c.WalletController.GetWallet)
	c.App.Post("/author/wallet/withdraw", c.WalletController.CreateWithdrawal)
	c.App.Patch("/author/wallet/withdraw", c.WalletController.RefreshWithdrawal)
}
