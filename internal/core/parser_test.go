package core

import (
	"fmt"
	"strings"
	"testing"
)

func newTestParser() *Parser {
	return NewParser(testTaxonomy(), testCaser())
}

func TestParseValidMessage(t *testing.T) {
	p := newTestParser()

	e, err := p.Parse("35,50 - Uber - Pix - Gastos Pessoais - Transporte")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount.StringFixed(2) != "35.50" {
		t.Fatalf("amount: expected 35.50, got %s", e.Amount)
	}
	if e.Description != "Uber" {
		t.Fatalf("description: expected Uber, got %q", e.Description)
	}
	if e.Method != "Pix" || e.Tag != "Gastos Pessoais" || e.Category != "Transporte" {
		t.Fatalf("unexpected canonical fields: %+v", e)
	}
	if e.Installments != 0 {
		t.Fatalf("installments: expected 0, got %d", e.Installments)
	}
	if e.ID != 0 || !e.Timestamp.IsZero() {
		t.Fatalf("id and timestamp must be unset at parse time")
	}
}

func TestParseWithInstallments(t *testing.T) {
	p := newTestParser()

	e, err := p.Parse("300,00 - Netflix - Cartão de Crédito - Gastos Pessoais - Assinatura - 12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount.StringFixed(2) != "300.00" || e.Installments != 12 {
		t.Fatalf("expected 300.00 in 12x, got %s in %dx", e.Amount, e.Installments)
	}
	if e.Method != "Cartão de Crédito" || e.Category != "Assinatura" {
		t.Fatalf("unexpected canonical fields: %+v", e)
	}
}

func TestParseTitleCasesDescription(t *testing.T) {
	p := newTestParser()

	e, err := p.Parse("50,00 - uber de casa - pix - gastos pessoais - transporte")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Description != "Uber de Casa" {
		t.Fatalf("expected Uber de Casa, got %q", e.Description)
	}
}

func TestParseSeparators(t *testing.T) {
	p := newTestParser()

	for _, sep := range []string{"-", ";", "|", ",", "--", "---"} {
		msg := fmt.Sprintf("35,50 %s Uber %s Pix %s Gastos Pessoais %s Transporte", sep, sep, sep, sep)
		e, err := p.Parse(msg)
		if err != nil {
			t.Fatalf("separator %q: unexpected error %v", sep, err)
		}
		if e.Amount.StringFixed(2) != "35.50" || e.Description != "Uber" {
			t.Fatalf("separator %q: unexpected result %+v", sep, e)
		}
	}
}

func TestParseCommaBeforeDigitIsNotASeparator(t *testing.T) {
	p := newTestParser()

	e, err := p.Parse("1,50, Pão, Pix, Gastos de Casa, Mercado")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Amount.StringFixed(2) != "1.50" {
		t.Fatalf("expected 1.50, got %s", e.Amount)
	}
	if e.Description != "Pão" {
		t.Fatalf("expected Pão, got %q", e.Description)
	}
}

func TestParseTooFewFields(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("35,50 - Uber - Pix")
	if err == nil || !IsFormat(err) {
		t.Fatalf("expected format error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Valor - Descrição - Método - Tag - Categoria") {
		t.Fatalf("error must name the expected layout, got %q", err.Error())
	}
}

func TestParseEmptyDescription(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("35,50 -  - Pix - Gastos Pessoais - Transporte")
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "descrição não pode estar vazia") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseInstallmentEdgeCases(t *testing.T) {
	p := newTestParser()

	t.Run("blank field means none", func(t *testing.T) {
		for _, tail := range []string{" ", "    "} {
			e, err := p.Parse("50,00 - Compra - Pix - Gastos Pessoais - Outros -" + tail)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Installments != 0 {
				t.Fatalf("expected no installments, got %d", e.Installments)
			}
		}
	})

	t.Run("non numeric", func(t *testing.T) {
		for _, tok := range []string{"abc", "-5", "3.5", "3,5"} {
			_, err := p.Parse("100,00 - Compra - Pix - Gastos Pessoais - Outros - " + tok)
			if err == nil || !IsValidation(err) {
				t.Fatalf("%q: expected validation error, got %v", tok, err)
			}
			if !strings.Contains(err.Error(), "Parcelas deve ser um número inteiro") {
				t.Fatalf("%q: unexpected message %q", tok, err.Error())
			}
		}
	})

	t.Run("zero rejected", func(t *testing.T) {
		_, err := p.Parse("100,00 - Compra - Pix - Gastos Pessoais - Outros - 0")
		if err == nil || !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "maior que zero") {
			t.Fatalf("unexpected message %q", err.Error())
		}
	})

	t.Run("one accepted", func(t *testing.T) {
		e, err := p.Parse("100,00 - Compra - Pix - Gastos Pessoais - Outros - 1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Installments != 1 {
			t.Fatalf("expected 1, got %d", e.Installments)
		}
	})
}

func TestParseUnknownEnumValues(t *testing.T) {
	p := newTestParser()

	cases := []struct {
		msg  string
		want string
	}{
		{"35,50 - Uber - Bitcoin - Gastos Pessoais - Transporte", "Método inválido"},
		{"35,50 - Uber - Pix - Trabalho - Transporte", "Tag inválida"},
		{"35,50 - Uber - Pix - Gastos Pessoais - Investimentos", "Categoria inválida"},
	}
	for _, tc := range cases {
		_, err := p.Parse(tc.msg)
		if err == nil || !IsValidation(err) {
			t.Fatalf("%q: expected validation error, got %v", tc.msg, err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%q: expected message containing %q, got %q", tc.msg, tc.want, err.Error())
		}
	}
}

func TestParseInvalidAmount(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("abc - Uber - Pix - Gastos Pessoais - Transporte")
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Valor inválido") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseNegativeAmount(t *testing.T) {
	p := newTestParser()

	t.Run("refund without installments is absolute", func(t *testing.T) {
		e, err := p.Parse("-50,00 - Estorno - Pix - Gastos Pessoais - Outros")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Amount.StringFixed(2) != "50.00" {
			t.Fatalf("expected 50.00, got %s", e.Amount)
		}
	})

	t.Run("refund cannot be split", func(t *testing.T) {
		_, err := p.Parse("-50,00 - Estorno - Pix - Gastos Pessoais - Outros - 3")
		if err == nil || !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "negativos") {
			t.Fatalf("unexpected message %q", err.Error())
		}
	})

	t.Run("refund with a single installment is fine", func(t *testing.T) {
		e, err := p.Parse("-50,00 - Estorno - Pix - Gastos Pessoais - Outros - 1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Installments != 1 {
			t.Fatalf("expected 1 installment, got %d", e.Installments)
		}
	})
}

func TestParseStopsSplittingAfterSixFields(t *testing.T) {
	p := newTestParser()

	// everything past the 5th delimiter lands in the installments field
	_, err := p.Parse("100,00 - Compra - Pix - Gastos Pessoais - Outros - 3 - extra")
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error for %q, got %v", "3 - extra", err)
	}
}

func TestParseKeepsSpecialCharacters(t *testing.T) {
	p := newTestParser()

	e, err := p.Parse("50,00 - Café ☕ @#$ - Pix - Gastos Pessoais - Alimentação")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(e.Description, "☕") || !strings.Contains(e.Description, "@#$") {
		t.Fatalf("description mangled: %q", e.Description)
	}
}
