// despesas-api serves the dashboard API: the amortized ledger and the
// current billing cycle summary. When an event bus is configured it
// also consumes expense events to keep the summary cache fresh.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"despesas/internal/amqp"
	"despesas/internal/config"
	"despesas/internal/core"
	apphttp "despesas/internal/http"
	"despesas/internal/log"
	"despesas/internal/services"
	"despesas/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(slog.LevelInfo, log.ComponentApp)
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	schedule := core.Schedule{
		OldResetDay:   cfg.OldResetDay,
		NewResetDay:   cfg.NewResetDay,
		ChangeDate:    cfg.CycleChangeDate,
		TransitionEnd: cfg.TransitionEndDate,
	}

	repo, err := storage.New(cfg.SQLiteDBPath, logger.WithComponent(log.ComponentStorage))
	if err != nil {
		logger.Error("failed to open storage", log.FieldError, err)
		os.Exit(1)
	}
	defer repo.Close()

	reports := services.NewReportService(repo, schedule, logger.WithComponent(log.ComponentReport))
	server := apphttp.NewServer(":"+cfg.Port, reports, repo, schedule, cfg.SummaryCacheTTL, logger.WithComponent(log.ComponentHTTP))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx)
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Warn("event bus unavailable, summary cache will expire by TTL only", log.FieldError, err)
		} else {
			defer client.Close()
			g.Go(func() error {
				err := client.Consume(ctx, func(evt *amqp.ExpenseEvent) error {
					server.InvalidateSummary()
					return nil
				})
				if ctx.Err() != nil {
					return nil
				}
				return err
			})
		}
	}

	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
