package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference configuration used across the core tests. Mirrors the
// production taxonomy and the 2025 cycle change.

var (
	testMethods    = []string{"Pix", "Cartão de Crédito", "Cartão de Débito", "Boleto"}
	testTags       = []string{"Gastos Pessoais", "Gastos do Casal", "Gastos de Casa"}
	testCategories = []string{"Alimentação", "Assinatura", "Casa", "Educação", "Lazer", "Mercado", "Saúde", "Transporte", "Viagem", "Outros"}

	testConnectives = []string{
		"de", "da", "do", "das", "dos", "e", "em", "no", "na", "nos", "nas",
		"para", "por", "com", "ao", "a", "à", "às", "o", "os", "um", "uma", "umas", "uns",
	}
)

func testTaxonomy() *Taxonomy {
	return NewTaxonomy(testMethods, testTags, testCategories)
}

func testCaser() *TitleCaser {
	return NewTitleCaser(testConnectives)
}

func testSchedule() Schedule {
	return Schedule{
		OldResetDay:   4,
		NewResetDay:   17,
		ChangeDate:    date(2025, 10, 4),
		TransitionEnd: date(2025, 11, 16),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
