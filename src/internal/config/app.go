package config

import (
	"time"

	"wallet-service/src/internal/delivery/http"
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/delivery/http/route"
	"wallet-service/src/internal/fees"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/gateway/payment"
	"wallet-service/src/internal/repository"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "wallet-service/src/pkg/kafka/confluent"
	"wallet-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	walletRepository := repository.NewWalletRepository(config.DB)
	supportRepository := repository.NewSupportRepository(config.DB)
	withdrawalRepository := repository.NewWithdrawalRepository(config.DB)
	notificationProducer := messaging.NewNotificationProducer(config.Producer, config.Log)

	gatewayClient := NewPaymentGateway(config.Config, config.Log)
	limits := NewLimits(config.Config)
	staleAfter := time.Duration(config.Config.GetInt("settlement.stale_after_seconds")) * time.Second
	scheduler := usecase.NewReconcileScheduler(config.AsynqClient)

	// setup use cases
	settlementUseCase := usecase.NewSettlementUseCase(
		config.Log,
		walletRepository,
		supportRepository,
		withdrawalRepository,
		gatewayClient,
		notificationProducer,
		config.Config.GetString("gateway.webhook_challenge"),
		staleAfter,
	)

	supportUseCase := usecase.NewSupportUseCase(
		config.Log,
		config.Validate,
		walletRepository,
		supportRepository,
		gatewayClient,
		settlementUseCase,
		scheduler,
		limits,
		config.Config,
	)

	withdrawalUseCase := usecase.NewWithdrawalUseCase(
		config.Log,
		config.Validate,
		walletRepository,
		withdrawalRepository,
		gatewayClient,
		settlementUseCase,
		scheduler,
		limits,
		config.Config,
	)

	walletUseCase := usecase.NewWalletUseCase(
		config.Log,
		config.Validate,
		walletRepository,
		supportRepository,
		withdrawalRepository,
		config.Redis,
	)

	// setup controller
	supportController := http.NewSupportController(supportUseCase, config.Log)
	walletController := http.NewWalletController(walletUseCase, withdrawalUseCase, config.Log)
	webhookController := http.NewWebhookController(settlementUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)
	rateLimitMiddleware := middleware.RateLimit(
		middleware.NewRedisCounter(config.Redis),
		config.Config.GetInt64("ratelimit.support_per_minute"),
		time.Minute,
	)
	config.Async.HandleFunc(usecase.TypeSettlementReconcile, settlementUseCase.HandleReconcileTask)
	routeConfig := route.RouteConfig{
		App:                 config.App,
		SupportController:   supportController,
		WalletController:    walletController,
		WebhookController:   webhookController,
		AuthMiddleware:      authMiddleware,
		RateLimitMiddleware: rateLimitMiddleware,
	}
	routeConfig.Setup()
}

func NewPaymentGateway(v *viper.Viper, logger log.Log) payment.Client {
	timeout := time.Duration(v.GetInt("gateway.timeout_seconds")) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return payment.NewClient(
		v.GetString("gateway.base_url"),
		v.GetString("gateway.secret_key"),
		v.GetString("payment.currency"),
		timeout,
		logger,
	)
}

func NewLimits(v *viper.Viper) fees.Limits {
	return fees.Limits{
		FeePercentBps:           v.GetInt64("payment.fee_percent_bps"),
		MinSupportAmount:        v.GetInt64("payment.min_support_amount"),
		MaxSupportAmount:        v.GetInt64("payment.max_support_amount"),
		MinWithdrawalAmount:     v.GetInt64("payment.min_withdrawal_amount"),
		MinBankWithdrawalAmount: v.GetInt64("payment.min_bank_withdrawal_amount"),
		DailyWithdrawalLimit:    v.GetInt64("payment.daily_withdrawal_limit"),
	}
}
