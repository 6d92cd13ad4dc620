package inventory

import "github.com/shopspring/decimal"

// QuantityScale decimales de las columnas NUMERIC(18,4) de cantidades y dinero.
const QuantityScale int32 = 4

// Normalize redondea al scale persistido para que memoria y PostgreSQL coincidan.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// SumQuantities suma exacta, sin punto flotante.
func SumQuantities(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Positive indica d > 0.
func Positive(d decimal.Decimal) bool { return d.Sign() > 0 }
