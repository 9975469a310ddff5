package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hibiken/asynq"

	"wallet-service/src/internal/config"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"
)

func main() {

	viperConfig := config.NewViper()
	viperConfig.SetDefault("log.level", "DEBUG")
	viperConfig.SetDefault("app.name", "WALLET_SERVICE")
	viperConfig.SetDefault("web.port", 8080)
	viperConfig.SetDefault("payment.currency", "KES")
	viperConfig.SetDefault("payment.country_code", "254")
	viperConfig.SetDefault("payment.fee_percent_bps", 500)
	viperConfig.SetDefault("payment.min_support_amount", 1000)
	viperConfig.SetDefault("payment.max_support_amount", 15000000)
	viperConfig.SetDefault("payment.min_withdrawal_amount", 10000)
	viperConfig.SetDefault("payment.min_bank_withdrawal_amount", 20000)
	viperConfig.SetDefault("payment.daily_withdrawal_limit", 30000000)
	viperConfig.SetDefault("settlement.stale_after_seconds", 120)
	viperConfig.SetDefault("settlement.worker_concurrency", 5)
	viperConfig.SetDefault("ratelimit.support_per_minute", 10)
	log.InitLogger(viperConfig)
	config.NewKafkaConfig(viperConfig)
	logger := log.GetLogger()
	config.LoadRedisConfig(viperConfig)
	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, logger)
	validate := config.NewValidator(viperConfig)
	asynqClient := config.NewAsynqClient(viperConfig)
	asynqServer := config.NewAsynqServer(viperConfig)
	mux := asynq.NewServeMux()
	app := config.NewFiber(viperConfig)
	config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		AsynqClient: asynqClient,
		Async:       mux,
	})

	go func() {
		if err := asynqServer.Run(mux); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start %s worker: %v", usecase.TypeSettlementReconcile, err), "main", "")
		}
	}()

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	go func() {
		<-quit
		logger.Info("main", "Server wallet-service is shutting down...", "gracefull", "")

		_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		asynqServer.Shutdown()
		if err := app.Shutdown(); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		close(done)
	}()

	webPort := viperConfig.GetInt("web.port")
	if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
	}

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "gracefull", "")
}
