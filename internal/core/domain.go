package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrorKind separates structural problems (wrong field count) from semantic
// ones (a field that parsed but failed validation). Callers branch on the
// kind; the message itself is shown to the user as-is.
type ErrorKind int

const (
	KindFormat ErrorKind = iota + 1
	KindValidation
)

// Error carries a user-facing message in Portuguese together with its kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func formatErrf(format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Message: fmt.Sprintf(format, args...)}
}

func validationErrf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// IsFormat reports whether err is a core parse error of kind Format.
func IsFormat(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindFormat
}

// IsValidation reports whether err is a core parse error of kind Validation.
func IsValidation(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindValidation
}

// Expense is the canonical record produced by the message parser. ID and
// Timestamp stay zero until the storage layer assigns them; the record is
// immutable afterwards.
type Expense struct {
	ID           int64
	Timestamp    time.Time
	Amount       decimal.Decimal // non-negative, 2 fractional digits
	Description  string
	Method       string
	Tag          string
	Category     string
	Installments int // 0 means "not an installment purchase"
}

// InstallmentCount returns the effective number of installments. An absent
// installment field is equivalent to a single installment.
func (e Expense) InstallmentCount() int {
	if e.Installments <= 1 {
		return 1
	}
	return e.Installments
}

// Cycle is one billing period, both ends inclusive.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the cycle, at date granularity.
func (c Cycle) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(c.Start)) && !day.After(DateOnly(c.End))
}

// Placement is one amortized share of a purchase. Derived, never persisted.
type Placement struct {
	SourceID int64
	Date     time.Time
	Amount   decimal.Decimal
	Number   int
	Count    int
}

// DateOnly truncates t to midnight UTC, keeping only the calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
