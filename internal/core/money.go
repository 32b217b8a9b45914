// Package core implements the expense normalization and billing-cycle
// engine: message parsing, canonical value mapping, cycle resolution and
// installment amortization. Everything here is a pure function over
// immutable inputs and is safe for concurrent use.
package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyPrefixRe = regexp.MustCompile(`^[Rr]\$\s?`)
	thousandsRe      = regexp.MustCompile(`\d+\.\d{3},\d{1,2}$`)
)

// ParseBRL parses a Brazilian-formatted amount ("1.234,56", "1234,56",
// "R$ 35,50", "50") into a decimal quantized to 2 fractional digits.
//
// The sign is normalized away: the returned value is always >= 0 and the
// second result reports whether the original token was negative. Fractions
// beyond the second digit round half-up ("1,005" -> 1.01).
func ParseBRL(s string) (decimal.Decimal, bool, error) {
	text := strings.TrimSpace(s)
	text = currencyPrefixRe.ReplaceAllString(text, "")

	switch {
	case thousandsRe.MatchString(text):
		// "1.234,56": period is a thousands separator
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	case strings.Contains(text, ",") && !strings.Contains(text, "."):
		// "1234,56": comma is the sole decimal separator
		text = strings.ReplaceAll(text, ",", ".")
	}

	v, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false, validationErrf("Valor inválido: '%s'", s)
	}

	return v.Abs().Round(2), v.IsNegative(), nil
}

// FormatBRL renders a value as "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	fixed := v.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return "R$ " + sign + b.String() + "," + fracPart
}
