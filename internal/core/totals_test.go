package core_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"micro-account/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name          string
		items         []core.LineItem
		vatRate       decimal.Decimal
		subtotal      string
		discountTotal string
		taxable       string
		vatTotal      string
		grandTotal    string
	}{
		{
			// 2 × 125000 with a 12500 discount at 7%.
			name: "single line with discount",
			items: []core.LineItem{
				{Description: "Server", Quantity: dec("2"), Price: dec("125000"), Discount: dec("12500"), VATRate: dec("7")},
			},
			vatRate:       dec("7"),
			subtotal:      "250000",
			discountTotal: "12500",
			taxable:       "237500",
			vatTotal:      "16625",
			grandTotal:    "254125",
		},
		{
			name: "multiple lines accumulate",
			items: []core.LineItem{
				{Description: "Install", Quantity: dec("1"), Price: dec("5000"), VATRate: dec("7")},
				{Description: "Cable", Quantity: dec("10"), Price: dec("150"), Discount: dec("100"), VATRate: dec("7")},
			},
			vatRate:       dec("7"),
			subtotal:      "6500",
			discountTotal: "100",
			taxable:       "6400",
			vatTotal:      "448",
			grandTotal:    "6848",
		},
		{
			// Discount exceeding the subtotal clamps the taxable base to zero
			// instead of producing negative VAT.
			name: "discount larger than subtotal clamps to zero",
			items: []core.LineItem{
				{Description: "Promo", Quantity: dec("1"), Price: dec("1000"), Discount: dec("1500"), VATRate: dec("7")},
			},
			vatRate:       dec("7"),
			subtotal:      "1000",
			discountTotal: "1500",
			taxable:       "0",
			vatTotal:      "0",
			grandTotal:    "0",
		},
		{
			name: "zero vat rate",
			items: []core.LineItem{
				{Description: "Export", Quantity: dec("3"), Price: dec("200"), VATRate: dec("0")},
			},
			vatRate:       dec("0"),
			subtotal:      "600",
			discountTotal: "0",
			taxable:       "600",
			vatTotal:      "0",
			grandTotal:    "600",
		},
		{
			// Fractional quantities stay exact: 1.5 × 33.33 = 49.995.
			name: "fractional quantity stays exact",
			items: []core.LineItem{
				{Description: "Bulk rice", Quantity: dec("1.5"), Price: dec("33.33"), VATRate: dec("7")},
			},
			vatRate:       dec("7"),
			subtotal:      "49.995",
			discountTotal: "0",
			taxable:       "49.995",
			vatTotal:      "3.49965",
			grandTotal:    "53.49465",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ComputeTotals(tt.items, tt.vatRate)

			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"subtotal", got.Subtotal, tt.subtotal},
				{"discount total", got.DiscountTotal, tt.discountTotal},
				{"taxable amount", got.TaxableAmount, tt.taxable},
				{"vat total", got.VATTotal, tt.vatTotal},
				{"grand total", got.GrandTotal, tt.grandTotal},
			}
			for _, c := range checks {
				if !c.got.Equal(dec(c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestExpenseVATFromGross(t *testing.T) {
	// A 1500 THB VAT-inclusive receipt at 7% contains 1500*7/107 of VAT,
	// not 1500*7/100. The wrong formula would give 105.
	got := core.ExpenseVATFromGross(dec("1500"), dec("7"))
	want := dec("1500").Mul(dec("7")).Div(dec("107"))
	if !got.Equal(want) {
		t.Errorf("vat from gross 1500 = %s, want %s", got, want)
	}
	if got.Equal(dec("105")) {
		t.Errorf("vat from gross used the exclusive formula: got %s", got)
	}
	// Sanity: rounds to 98.13 at two places.
	if r := got.Round(2); !r.Equal(dec("98.13")) {
		t.Errorf("vat from gross rounded = %s, want 98.13", r)
	}
}

func TestExpenseVATFromGross_RoundTrip(t *testing.T) {
	// Extracting VAT from (base + base*rate/100) must recover base*rate/100.
	base := dec("237500")
	rate := dec("7")
	gross := base.Add(base.Mul(rate).Div(dec("100")))

	got := core.ExpenseVATFromGross(gross, rate)
	want := base.Mul(rate).Div(dec("100"))
	if !got.Equal(want) {
		t.Errorf("round trip vat = %s, want %s", got, want)
	}
}

func TestValidateItems(t *testing.T) {
	valid := core.LineItem{Description: "Widget", Quantity: dec("1"), Price: dec("100"), VATRate: dec("7")}

	tests := []struct {
		name    string
		items   []core.LineItem
		wantErr string
	}{
		{"empty list", nil, "at least one line item"},
		{"valid single line", []core.LineItem{valid}, ""},
		{
			"missing description",
			[]core.LineItem{{Quantity: dec("1"), Price: dec("100")}},
			"description",
		},
		{
			"zero quantity",
			[]core.LineItem{{Description: "Widget", Quantity: dec("0"), Price: dec("100")}},
			"quantity",
		},
		{
			"negative price",
			[]core.LineItem{{Description: "Widget", Quantity: dec("1"), Price: dec("-5")}},
			"price",
		},
		{
			"negative discount",
			[]core.LineItem{{Description: "Widget", Quantity: dec("1"), Price: dec("100"), Discount: dec("-1")}},
			"discount",
		},
		{
			"vat rate above 100",
			[]core.LineItem{{Description: "Widget", Quantity: dec("1"), Price: dec("100"), VATRate: dec("101")}},
			"vat rate",
		},
		{
			"second line reported with its position",
			[]core.LineItem{valid, {Description: "", Quantity: dec("1"), Price: dec("1")}},
			"line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.ValidateItems(tt.items)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
