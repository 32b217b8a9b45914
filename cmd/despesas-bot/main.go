// despesas-bot is the Telegram front end: it records expenses sent by
// the authorized user and answers the query commands.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"despesas/internal/amqp"
	"despesas/internal/bot"
	"despesas/internal/config"
	"despesas/internal/core"
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
	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_BOT_TOKEN is required")
		os.Exit(1)
	}

	tax, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		logger.Error("failed to load taxonomy", log.FieldError, err)
		os.Exit(1)
	}

	taxonomy := core.NewTaxonomy(tax.Methods, tax.Tags, tax.Categories)
	parser := core.NewParser(taxonomy, core.NewTitleCaser(tax.Connectives))
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

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Warn("event bus unavailable, continuing without it", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	expenses := services.NewExpenseService(repo, publisher, logger.WithComponent(log.ComponentApp))
	reports := services.NewReportService(repo, schedule, logger.WithComponent(log.ComponentReport))

	handler := bot.NewHandler(expenses, reports, parser, taxonomy, cfg.AllowedUserID, logger.WithComponent(log.ComponentBot))
	b, err := bot.New(cfg.TelegramToken, handler, logger.WithComponent(log.ComponentBot))
	if err != nil {
		logger.Error("failed to start telegram bot", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		b.Stop()
	}()

	logger.Info("bot started", log.FieldUserID, cfg.AllowedUserID)
	b.Start()
	logger.Info("bot stopped")
}
