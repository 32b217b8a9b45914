// Package services holds the application services sitting between the
// transports (bot, HTTP) and the core rules.
package services

import (
	"context"

	"despesas/internal/core"
	"despesas/internal/log"
)

// ExpenseStore is the slice of the storage layer the expense service
// needs.
type ExpenseStore interface {
	Add(ctx context.Context, e core.Expense) (int64, error)
	DeleteLast(ctx context.Context) (int64, error)
	LastN(ctx context.Context, n int) ([]core.Expense, error)
	Ping(ctx context.Context) error
}

// EventPublisher announces expense changes to interested consumers.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, id int64) error
	PublishExpenseDeleted(ctx context.Context, id int64) error
}

// ExpenseService records and removes expenses. Event publishing is
// best effort: a broker outage never fails the user's operation.
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher // nil when no broker is configured
	logger    *log.Logger
}

func NewExpenseService(store ExpenseStore, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher, logger: logger}
}

// Create persists the expense and returns its ID.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (int64, error) {
	id, err := s.store.Add(ctx, e)
	if err != nil {
		return 0, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseCreated(ctx, id); err != nil {
			s.logger.Warn("failed to publish created event", log.FieldExpenseID, id, log.FieldError, err)
		}
	}
	return id, nil
}

// UndoLast removes the most recently recorded expense and returns its
// ID. Returns the storage layer's empty sentinel when nothing exists.
func (s *ExpenseService) UndoLast(ctx context.Context) (int64, error) {
	id, err := s.store.DeleteLast(ctx)
	if err != nil {
		return 0, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseDeleted(ctx, id); err != nil {
			s.logger.Warn("failed to publish deleted event", log.FieldExpenseID, id, log.FieldError, err)
		}
	}
	return id, nil
}

// Recent returns up to n expenses, newest first.
func (s *ExpenseService) Recent(ctx context.Context, n int) ([]core.Expense, error) {
	return s.store.LastN(ctx, n)
}

// HealthCheck verifies the storage backend is reachable.
func (s *ExpenseService) HealthCheck(ctx context.Context) error {
	return s.store.Ping(ctx)
}
