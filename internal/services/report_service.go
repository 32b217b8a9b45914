package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"despesas/internal/core"
	"despesas/internal/log"
)

// ReportStore is the slice of the storage layer the report service
// needs.
type ReportStore interface {
	All(ctx context.Context) ([]core.Expense, error)
}

// LedgerEntry is one line of the amortized ledger: an installment share
// (or a whole single-payment expense) placed on its billing date.
type LedgerEntry struct {
	SourceID    int64           `json:"source_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Method      string          `json:"method"`
	Tag         string          `json:"tag"`
	Category    string          `json:"category"`
}

// CycleSummary reports how much was spent in the billing cycle
// containing the reference date, up to that date.
type CycleSummary struct {
	Cycle core.Cycle      `json:"cycle"`
	AsOf  time.Time       `json:"as_of"`
	Spent decimal.Decimal `json:"spent"`
}

// ReportService derives ledgers and totals from stored expenses. All
// installment expansion happens here, on read; the storage layer only
// ever sees the original purchases.
type ReportService struct {
	store    ReportStore
	schedule core.Schedule
	logger   *log.Logger
}

func NewReportService(store ReportStore, schedule core.Schedule, logger *log.Logger) *ReportService {
	return &ReportService{store: store, schedule: schedule, logger: logger}
}

// Ledger returns the amortized entries dated inside [start, end], both
// inclusive at date granularity, newest first.
func (s *ReportService) Ledger(ctx context.Context, start, end time.Time) ([]LedgerEntry, error) {
	expenses, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	window := core.Cycle{Start: start, End: end}
	var entries []LedgerEntry
	for _, e := range expenses {
		for _, p := range s.schedule.Amortize(e) {
			if !window.Contains(p.Date) {
				continue
			}
			entries = append(entries, LedgerEntry{
				SourceID:    p.SourceID,
				Date:        p.Date,
				Amount:      p.Amount,
				Description: describePlacement(e.Description, p),
				Method:      e.Method,
				Tag:         e.Tag,
				Category:    e.Category,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].SourceID > entries[j].SourceID
	})
	return entries, nil
}

// TotalSpent sums the amortized entries dated inside [start, end].
func (s *ReportService) TotalSpent(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	entries, err := s.Ledger(ctx, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}
	return total, nil
}

// Summary resolves the billing cycle containing today and totals what
// was spent from the cycle start through today.
func (s *ReportService) Summary(ctx context.Context, today time.Time) (CycleSummary, error) {
	current, _ := s.schedule.CurrentAndPrevious(today)

	spent, err := s.TotalSpent(ctx, current.Start, today)
	if err != nil {
		return CycleSummary{}, err
	}
	return CycleSummary{Cycle: current, AsOf: core.DateOnly(today), Spent: spent}, nil
}

// describePlacement appends the "(k/n)" marker to installment shares.
func describePlacement(description string, p core.Placement) string {
	if p.Count <= 1 {
		return description
	}
	return fmt.Sprintf("%s (%d/%d)", description, p.Number, p.Count)
}
