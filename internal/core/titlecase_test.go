package core

import "testing"

func TestTitleize(t *testing.T) {
	caser := testCaser()

	cases := []struct {
		in  string
		out string
	}{
		{"uber", "Uber"},
		{"gastos de casa", "Gastos de Casa"},
		{"cartão de crédito", "Cartão de Crédito"},
		{"de casa", "De Casa"}, // first word wins over connective rule
		{"pré-pago", "Pré-Pago"},
		{"UBER DE CASA", "Uber de Casa"},
		{"conta  de   luz", "Conta  de   Luz"}, // separators preserved verbatim
		{"", ""},
		{"   ", ""},
		{"a", "A"},
	}
	for _, tc := range cases {
		if got := caser.Titleize(tc.in); got != tc.out {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestTitleizeAlternateConnectives(t *testing.T) {
	caser := NewTitleCaser([]string{"von"})
	if got := caser.Titleize("ludwig von mises"); got != "Ludwig von Mises" {
		t.Fatalf("expected injected connectives to apply, got %q", got)
	}
	if got := caser.Titleize("gastos de casa"); got != "Gastos De Casa" {
		t.Fatalf("default connectives must not leak in, got %q", got)
	}
}
