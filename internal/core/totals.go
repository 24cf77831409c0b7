package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is the flat Thai VAT rate applied to documents and expenses.
var DefaultVATRate = decimal.NewFromInt(7)

var oneHundred = decimal.NewFromInt(100)

// DocumentTotals holds the monetary snapshot written onto a quotation or
// invoice header at creation time.
type DocumentTotals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxableAmount decimal.Decimal
	VATTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
}

// ComputeTotals derives the document totals from a validated line-item list
// and a flat VAT rate (percentage).
//
//	subtotal      = Σ quantity × price
//	discountTotal = Σ per-line discount (absolute amounts, not percentages)
//	taxableAmount = max(subtotal − discountTotal, 0)
//	vatTotal      = taxableAmount × rate/100
//	grandTotal    = taxableAmount + vatTotal
//
// The taxable base is clamped: a discount larger than the subtotal never
// produces negative VAT. All arithmetic is exact decimal; rounding to two
// places happens only at display time.
func ComputeTotals(items []LineItem, vatRate decimal.Decimal) DocumentTotals {
	var t DocumentTotals
	for _, li := range items {
		t.Subtotal = t.Subtotal.Add(li.Quantity.Mul(li.Price))
		t.DiscountTotal = t.DiscountTotal.Add(li.Discount)
	}

	t.TaxableAmount = t.Subtotal.Sub(t.DiscountTotal)
	if t.TaxableAmount.IsNegative() {
		t.TaxableAmount = decimal.Zero
	}

	t.VATTotal = t.TaxableAmount.Mul(vatRate).Div(oneHundred)
	t.GrandTotal = t.TaxableAmount.Add(t.VATTotal)
	return t
}

// ExpenseVATFromGross extracts the VAT portion of a VAT-inclusive amount:
//
//	vat = gross × rate / (100 + rate)
//
// This is the inverse of the invoice-side calculation, where VAT is added on
// top of a pre-tax base. The two formulas are not interchangeable: a 1500 THB
// receipt at 7% contains 98.13 of VAT, not 105.
func ExpenseVATFromGross(gross, vatRate decimal.Decimal) decimal.Decimal {
	return gross.Mul(vatRate).Div(oneHundred.Add(vatRate))
}

// ValidateItems runs construction-time validation over a document's line-item
// list. A document needs at least one line.
func ValidateItems(items []LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("document must have at least one line item")
	}
	for i, li := range items {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}
