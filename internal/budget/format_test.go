package budget_test

import (
	"testing"

	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.002,00", budget.FormatBRL(1002))
	assert.Equal(t, "R$ 0,50", budget.FormatBRL(0.5))
	assert.Equal(t, "R$ 15.700,00", budget.FormatBRL(15700))
	assert.Equal(t, "-R$ 12,40", budget.FormatBRL(-12.4))
}

func TestFormatFixed2(t *testing.T) {
	assert.Equal(t, "850.00", budget.FormatFixed2(850))
	assert.Equal(t, "102.00", budget.FormatFixed2(850*(12.0/100)))
	assert.Equal(t, "66.54", budget.FormatFixed2(66.54166666666667))
	assert.Equal(t, "1.01", budget.FormatFixed2(1.005))
	assert.Equal(t, "-2.13", budget.FormatFixed2(-2.125))
}

func TestFormatPlain(t *testing.T) {
	assert.Equal(t, "85", budget.FormatPlain(85.00))
	assert.Equal(t, "0.35", budget.FormatPlain(0.35))
	assert.Equal(t, "12.5", budget.FormatPlain(12.5))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "orçamento_principal.csv", budget.FileName("Orçamento Principal", "csv"))
	assert.Equal(t, "coleção_verão_2026.xlsx", budget.FileName("Coleção Verão 2026", "xlsx"))
	assert.Equal(t, "orcamento.csv", budget.FileName("", "csv"))
}
