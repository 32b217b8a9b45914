// Package storage persists expenses in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"despesas/internal/core"
	"despesas/internal/log"
)

// ErrEmpty is returned when an operation needs at least one stored
// expense and the table is empty.
var ErrEmpty = errors.New("no expenses stored")

// Repository wraps the SQLite database holding all expenses. Amounts
// are stored as integer cents to avoid floating point drift.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

// New opens (creating if necessary) the database at dbPath and applies
// pending migrations.
func New(dbPath string, logger *log.Logger) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database ready", "path", dbPath)
	return &Repository{db: db, logger: logger}, nil
}

// Add inserts an expense and returns its generated ID. A zero
// timestamp is replaced with the current UTC time.
func (r *Repository) Add(ctx context.Context, e core.Expense) (int64, error) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var installments sql.NullInt64
	if e.Installments > 0 {
		installments = sql.NullInt64{Int64: int64(e.Installments), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (expense_ts, amount_cents, description, method, tag, category, installments)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339Nano), toCents(e.Amount), e.Description, e.Method, e.Tag, e.Category, installments,
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read generated id: %w", err)
	}
	r.logger.Info("expense stored", "id", id, "amount", e.Amount.StringFixed(2))
	return id, nil
}

// DeleteLast removes the most recently inserted expense and returns
// its ID. Returns ErrEmpty when the table has no rows.
func (r *Repository) DeleteLast(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM expenses ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrEmpty
	}
	if err != nil {
		return 0, fmt.Errorf("find last expense: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("delete expense %d: %w", id, err)
	}
	r.logger.Info("expense deleted", "id", id)
	return id, nil
}

// LastN returns up to n expenses, newest first.
func (r *Repository) LastN(ctx context.Context, n int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, expense_ts, amount_cents, description, method, tag, category, installments
		FROM expenses ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// All returns every stored expense, oldest first.
func (r *Repository) All(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, expense_ts, amount_cents, description, method, tag, category, installments
		FROM expenses ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// Ping verifies the database connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		var (
			e            core.Expense
			ts           string
			cents        int64
			installments sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &ts, &cents, &e.Description, &e.Method, &e.Tag, &e.Category, &installments); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		e.Timestamp = parsed
		e.Amount = fromCents(cents)
		if installments.Valid {
			e.Installments = int(installments.Int64)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
