package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/avkhn/notify-pipeline/internal/breaker"
	"github.com/avkhn/notify-pipeline/internal/clients/template"
	"github.com/avkhn/notify-pipeline/internal/config"
	"github.com/avkhn/notify-pipeline/internal/model"
	"github.com/avkhn/notify-pipeline/internal/provider"
	"github.com/avkhn/notify-pipeline/internal/rabbitmq/handlers/delivery"
	"github.com/avkhn/notify-pipeline/internal/rabbitmq/queue"
	"github.com/avkhn/notify-pipeline/internal/status"
	"github.com/avkhn/notify-pipeline/internal/worker"
	"github.com/avkhn/notify-pipeline/pkg/email"
	"github.com/avkhn/notify-pipeline/pkg/push"
)

const clientTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()

	connStrategy := retry.Strategy{
		Attempts: cfg.RabbitMQ.Retries,
		Delay:    cfg.RabbitMQ.Pause,
	}

	conn, err := queue.Connect(cfg.RabbitMQ.URL(), connStrategy)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	q, err := queue.New(conn)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to set up queue topology")
	}

	emailConsumer, err := queue.NewConsumer(conn, queue.EmailQueue, cfg.Workers.Prefetch)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create email consumer")
	}

	pushConsumer, err := queue.NewConsumer(conn, queue.PushQueue, cfg.Workers.Prefetch)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create push consumer")
	}

	smtpPort, err := strconv.Atoi(cfg.Email.SMTPPort)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to parse email smtp port")
	}

	emailClient := email.NewClient(
		cfg.Email.SMTPHost,
		smtpPort,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
		cfg.Breaker.Timeout,
	)
	pushClient := push.NewClient(cfg.Push.URL, cfg.Push.ServerKey)

	providers := map[string]delivery.Provider{
		model.TypeEmail: provider.NewEmail(emailClient),
		model.TypePush:  provider.NewPush(pushClient),
	}

	breakerCfg := breaker.Config{
		Timeout:        cfg.Breaker.Timeout,
		ErrorThreshold: cfg.Breaker.ErrorThreshold,
		ResetTimeout:   cfg.Breaker.ResetTimeout,
		Window:         cfg.Breaker.Window,
		MinRequests:    cfg.Breaker.MinRequests,
	}

	breakers := map[string]*breaker.Breaker{
		model.TypeEmail: breaker.New(model.TypeEmail, breakerCfg),
		model.TypePush:  breaker.New(model.TypePush, breakerCfg),
	}

	templates := template.NewClient(cfg.Services.TemplateURL, clientTimeout)
	reporter := status.NewReporter(cfg.Services.GatewayURL, clientTimeout)

	handler := delivery.NewHandler(q, templates, reporter, providers, breakers, delivery.Config{
		MaxRetries: cfg.Delivery.MaxRetries,
		BaseDelay:  cfg.Delivery.BaseDelay,
		JitterMax:  cfg.Delivery.JitterMax,
		Strategy:   cfg.Retry,
	})

	pool := worker.NewPool(handler, emailConsumer, pushConsumer)
	pool.Run(ctx, cfg.Workers.Count)

	zlog.Logger.Info().Msg("shutdown signal received")

	// Let pending requeue timers settle their messages before the channels close.
	handler.Drain()
	reporter.Wait()

	if err := emailConsumer.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close email consumer")
	}

	if err := pushConsumer.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close push consumer")
	}

	if err := q.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
	}

	if err := conn.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
	}
}
