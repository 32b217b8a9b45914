package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	formatErr := formatErrf("estrutura errada")
	validationErr := validationErrf("campo inválido")

	if !IsFormat(formatErr) || IsValidation(formatErr) {
		t.Fatalf("format error misclassified")
	}
	if !IsValidation(validationErr) || IsFormat(validationErr) {
		t.Fatalf("validation error misclassified")
	}
	if IsFormat(errors.New("other")) || IsValidation(nil) {
		t.Fatalf("foreign errors must not match")
	}

	// kind survives wrapping
	wrapped := fmt.Errorf("parse: %w", validationErr)
	if !IsValidation(wrapped) {
		t.Fatalf("wrapped error lost its kind")
	}
}

func TestInstallmentCount(t *testing.T) {
	cases := []struct {
		installments int
		want         int
	}{
		{0, 1},
		{1, 1},
		{3, 3},
	}
	for _, tc := range cases {
		e := Expense{Installments: tc.installments}
		if got := e.InstallmentCount(); got != tc.want {
			t.Fatalf("installments=%d: expected %d, got %d", tc.installments, tc.want, got)
		}
	}
}

func TestCycleContains(t *testing.T) {
	c := Cycle{Start: date(2025, 8, 4), End: date(2025, 9, 3)}

	if !c.Contains(date(2025, 8, 4)) || !c.Contains(date(2025, 9, 3)) {
		t.Fatalf("boundaries must be inclusive")
	}
	if c.Contains(date(2025, 8, 3)) || c.Contains(date(2025, 9, 4)) {
		t.Fatalf("days outside the cycle must not match")
	}
}
