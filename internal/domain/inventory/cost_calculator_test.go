package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// (10 * 2 + 10 * 4) / 20 = 3
	got := inventory.CostCalculator(d("10"), d("2"), d("10"), d("4"))
	assert.True(t, got.Equal(d("3")), "got %s", got)

	// Sin stock previo el costo de entrada es el nuevo promedio.
	got = inventory.CostCalculator(d("0"), d("99"), d("5"), d("1.25"))
	assert.True(t, got.Equal(d("1.25")), "got %s", got)

	// Redondeo a 4 decimales: (1*1 + 2*2) / 3 = 1.6667
	got = inventory.CostCalculator(d("1"), d("1"), d("2"), d("2"))
	assert.True(t, got.Equal(d("1.6667")), "got %s", got)
}

func TestSumQuantities_SinErrorDeRedondeo(t *testing.T) {
	values := make([]decimal.Decimal, 0, 1000)
	for i := 0; i < 1000; i++ {
		values = append(values, d("0.1"))
	}
	assert.True(t, inventory.SumQuantities(values...).Equal(d("100")))
	assert.True(t, inventory.Normalize(d("1.23456")).Equal(d("1.2346")))
}
