package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"despesas/internal/core"
	"despesas/internal/log"
)

type fakeStore struct {
	expenses []core.Expense
	nextID   int64
	pingErr  error
}

func (f *fakeStore) Add(_ context.Context, e core.Expense) (int64, error) {
	f.nextID++
	e.ID = f.nextID
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	f.expenses = append(f.expenses, e)
	return e.ID, nil
}

func (f *fakeStore) DeleteLast(_ context.Context) (int64, error) {
	if len(f.expenses) == 0 {
		return 0, errors.New("no expenses stored")
	}
	last := f.expenses[len(f.expenses)-1]
	f.expenses = f.expenses[:len(f.expenses)-1]
	return last.ID, nil
}

func (f *fakeStore) LastN(_ context.Context, n int) ([]core.Expense, error) {
	var out []core.Expense
	for i := len(f.expenses) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.expenses[i])
	}
	return out, nil
}

func (f *fakeStore) All(_ context.Context) ([]core.Expense, error) {
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.pingErr }

type fakePublisher struct {
	created []int64
	deleted []int64
	err     error
}

func (f *fakePublisher) PublishExpenseCreated(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, id)
	return nil
}

func (f *fakePublisher) PublishExpenseDeleted(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func testLogger() *log.Logger {
	return log.New(slog.LevelError, log.ComponentApp)
}

func expense(amount string) core.Expense {
	return core.Expense{
		Amount:      decimal.RequireFromString(amount),
		Description: "Mercado",
		Method:      "Pix",
		Tag:         "Gastos de Casa",
		Category:    "Mercado",
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub, testLogger())

	id, err := svc.Create(context.Background(), expense("50.00"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 1 {
		t.Errorf("expected id 1, got %d", id)
	}
	if len(pub.created) != 1 || pub.created[0] != 1 {
		t.Errorf("expected created event for id 1, got %v", pub.created)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(store, pub, testLogger())

	if _, err := svc.Create(context.Background(), expense("50.00")); err != nil {
		t.Fatalf("create should not fail on publish error: %v", err)
	}
	if len(store.expenses) != 1 {
		t.Errorf("expected expense to be stored anyway")
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil, testLogger())

	if _, err := svc.Create(context.Background(), expense("50.00")); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestUndoLast(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub, testLogger())

	first, _ := svc.Create(context.Background(), expense("10.00"))
	second, _ := svc.Create(context.Background(), expense("20.00"))

	id, err := svc.UndoLast(context.Background())
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if id != second {
		t.Errorf("undid %d, expected %d", id, second)
	}
	if len(store.expenses) != 1 || store.expenses[0].ID != first {
		t.Errorf("expected only the first expense to remain")
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != second {
		t.Errorf("expected deleted event for %d, got %v", second, pub.deleted)
	}
}

func TestUndoLastEmpty(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil, testLogger())

	if _, err := svc.UndoLast(context.Background()); err == nil {
		t.Fatal("expected error on empty store")
	}
}

func TestRecent(t *testing.T) {
	store := &fakeStore{}
	svc := NewExpenseService(store, nil, testLogger())

	for _, amount := range []string{"1.00", "2.00", "3.00"} {
		if _, err := svc.Create(context.Background(), expense(amount)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	recent, err := svc.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(recent))
	}
	if !recent[0].Amount.Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("expected newest first, got %s", recent[0].Amount)
	}
}

func TestHealthCheck(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil, testLogger())
	if err := svc.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	svc = NewExpenseService(&fakeStore{pingErr: errors.New("gone")}, nil, testLogger())
	if err := svc.HealthCheck(context.Background()); err == nil {
		t.Error("expected ping error to surface")
	}
}
