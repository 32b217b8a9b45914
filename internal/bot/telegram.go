package bot

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"despesas/internal/log"
)

// Bot binds the handlers to a Telegram long-polling connection.
type Bot struct {
	bot     *tele.Bot
	handler *Handler
	logger  *log.Logger
}

func New(token string, handler *Handler, logger *log.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	bot := &Bot{bot: b, handler: handler, logger: logger}
	bot.route()
	return bot, nil
}

func (b *Bot) route() {
	b.bot.Use(b.authorize)

	b.bot.Handle("/help", func(c tele.Context) error {
		return send(c, b.handler.Help())
	})
	b.bot.Handle("/health", func(c tele.Context) error {
		return send(c, b.handler.Health(context.Background()))
	})
	b.bot.Handle("/undo", func(c tele.Context) error {
		return send(c, b.handler.Undo(context.Background()))
	})
	b.bot.Handle("/last", func(c tele.Context) error {
		return send(c, b.handler.Recent(context.Background()))
	})
	b.bot.Handle("/balance", func(c tele.Context) error {
		return send(c, b.handler.Balance(context.Background()))
	})
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		return send(c, b.handler.Entry(context.Background(), c.Text()))
	})
}

// authorize rejects every sender except the configured user.
func (b *Bot) authorize(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil || !b.handler.Authorized(sender.ID) {
			var id int64
			if sender != nil {
				id = sender.ID
			}
			b.logger.Warn("unauthorized access attempt", log.FieldUserID, id)
			return send(c, b.handler.Unauthorized())
		}
		return next(c)
	}
}

func send(c tele.Context, r Reply) error {
	if r.Mode != "" {
		return c.Send(r.Text, tele.ParseMode(r.Mode))
	}
	return c.Send(r.Text)
}

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("telegram bot polling")
	b.bot.Start()
}

// Stop halts the poller.
func (b *Bot) Stop() {
	b.bot.Stop()
}
