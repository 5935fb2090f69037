package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"humansonly/internal/config"
	"humansonly/internal/logging"
	"humansonly/internal/pkg"
	"humansonly/internal/repository/mysql"
	"humansonly/internal/repository/redis"
	"humansonly/internal/router"
	"humansonly/internal/service"
)

func main() {
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pkg.SetSecrets(cfg.AccessSecret, cfg.RefreshSecret)

	if err = mysql.InitDB(cfg.MySQLDSN); err != nil {
		logger.Fatal("mysql init failed", zap.Error(err))
	}
	if err = mysql.AutoMigrate(mysql.DB); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	if err = redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer redis.Close()

	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		logger.Fatal("kafka init failed", zap.Error(err))
	}
	defer producer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 后台任务：outbox投递 + 计数对账
	relayer := service.NewOutboxRelayer(mysql.DB, service.KafkaSender(producer), logger)
	go relayer.Run(ctx)

	reconciler := service.NewCounterReconciler(mysql.DB, logger)
	go reconciler.Run(ctx)

	smtpCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	r := router.InitRouter(mysql.DB, smtpCfg)

	srv := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: r,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		os.Exit(1)
	}
}
