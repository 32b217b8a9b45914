package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amortize expands an expense into its installment placements: one entry
// per installment, strictly increasing in date, first one on the purchase
// date itself. A non-installment expense yields a single placement.
//
// Each installment after the first carries amount/count rounded half-up to
// 2 digits; the first absorbs the rounding remainder, so the placements
// always sum back to the original amount exactly.
//
// Dates advance one calendar month at a time, except that a placement
// inside the transition cycle moves straight to the day after its end —
// that is where the next cycle starts under the new regime. Time of day is
// preserved throughout.
func (s Schedule) Amortize(e Expense) []Placement {
	count := e.InstallmentCount()
	if count == 1 {
		return []Placement{{
			SourceID: e.ID,
			Date:     e.Timestamp,
			Amount:   e.Amount,
			Number:   1,
			Count:    1,
		}}
	}

	share := e.Amount.DivRound(decimal.NewFromInt(int64(count)), 2)
	first := e.Amount.Sub(share.Mul(decimal.NewFromInt(int64(count - 1))))

	placements := make([]Placement, 0, count)
	date := e.Timestamp
	for k := 1; k <= count; k++ {
		amount := share
		if k == 1 {
			amount = first
		}
		placements = append(placements, Placement{
			SourceID: e.ID,
			Date:     date,
			Amount:   amount,
			Number:   k,
			Count:    count,
		})
		date = s.nextPlacement(date)
	}
	return placements
}

// nextPlacement returns the date of the installment following one placed at
// prev.
func (s Schedule) nextPlacement(prev time.Time) time.Time {
	if s.inTransition(DateOnly(prev)) {
		next := DateOnly(s.TransitionEnd).AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(),
			prev.Hour(), prev.Minute(), prev.Second(), prev.Nanosecond(), prev.Location())
	}
	return AddMonthsClamped(prev, 1)
}
