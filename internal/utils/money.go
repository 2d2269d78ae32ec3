package utils

import (
	"github.com/shopspring/decimal"

	"github.com/example/invoicer/internal/models"
)

// InvoiceTotal computes sum(quantity*price) * (1 + tax/100) over the
// items, rounded to two decimal places. Decimal arithmetic keeps repeated
// cent amounts from drifting the way raw float math would.
func InvoiceTotal(items []models.InvoiceItem, taxPercentage float64) float64 {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	tax := decimal.NewFromFloat(taxPercentage).Div(decimal.NewFromInt(100))
	total := subtotal.Mul(decimal.NewFromInt(1).Add(tax))

	result, _ := total.Round(2).Float64()
	return result
}

// InvoiceSubtotal computes sum(quantity*price) rounded to two decimal places.
func InvoiceSubtotal(items []models.InvoiceItem) float64 {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	result, _ := subtotal.Round(2).Float64()
	return result
}
