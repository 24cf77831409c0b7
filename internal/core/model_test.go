package core_test

import (
	"regexp"
	"testing"
	"time"

	"micro-account/internal/core"
)

func TestCanTransitionInvoice(t *testing.T) {
	tests := []struct {
		from, to core.InvoiceStatus
		want     bool
	}{
		{core.InvoiceDraft, core.InvoiceIssued, true},
		{core.InvoiceDraft, core.InvoiceCancelled, true},
		{core.InvoiceDraft, core.InvoicePaid, false},
		{core.InvoiceIssued, core.InvoicePaid, true},
		{core.InvoiceIssued, core.InvoiceOverdue, true},
		{core.InvoiceIssued, core.InvoiceCancelled, true},
		{core.InvoiceIssued, core.InvoiceDraft, false},
		{core.InvoiceOverdue, core.InvoicePaid, true},
		{core.InvoiceOverdue, core.InvoiceCancelled, true},
		// paid and cancelled are terminal
		{core.InvoicePaid, core.InvoiceIssued, false},
		{core.InvoicePaid, core.InvoiceCancelled, false},
		{core.InvoiceCancelled, core.InvoiceDraft, false},
		{core.InvoiceCancelled, core.InvoicePaid, false},
	}
	for _, tt := range tests {
		if got := core.CanTransitionInvoice(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionInvoice(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransitionQuotation(t *testing.T) {
	tests := []struct {
		from, to core.QuotationStatus
		want     bool
	}{
		{core.QuotationDraft, core.QuotationSent, true},
		{core.QuotationDraft, core.QuotationAccepted, false},
		{core.QuotationSent, core.QuotationAccepted, true},
		{core.QuotationSent, core.QuotationRejected, true},
		{core.QuotationSent, core.QuotationExpired, true},
		{core.QuotationSent, core.QuotationDraft, false},
		// invoiced is only reachable through conversion, never a plain update
		{core.QuotationSent, core.QuotationInvoiced, false},
		{core.QuotationAccepted, core.QuotationInvoiced, false},
		// terminal states
		{core.QuotationRejected, core.QuotationSent, false},
		{core.QuotationExpired, core.QuotationSent, false},
		{core.QuotationInvoiced, core.QuotationSent, false},
	}
	for _, tt := range tests {
		if got := core.CanTransitionQuotation(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionQuotation(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertibleQuotationStatus(t *testing.T) {
	convertible := map[core.QuotationStatus]bool{
		core.QuotationSent:     true,
		core.QuotationAccepted: true,
	}
	all := []core.QuotationStatus{
		core.QuotationDraft, core.QuotationSent, core.QuotationAccepted,
		core.QuotationRejected, core.QuotationInvoiced, core.QuotationExpired,
	}
	for _, s := range all {
		if got := core.ConvertibleQuotationStatus(s); got != convertible[s] {
			t.Errorf("ConvertibleQuotationStatus(%s) = %v, want %v", s, got, convertible[s])
		}
	}
}

func TestNewDocumentNumber(t *testing.T) {
	day := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	re := regexp.MustCompile(`^INV-20260829-\d{3}$`)
	for i := 0; i < 20; i++ {
		n := core.NewDocumentNumber(core.InvoicePrefix, day)
		if !re.MatchString(n) {
			t.Fatalf("invoice number %q does not match INV-20260829-NNN", n)
		}
	}

	if n := core.NewDocumentNumber(core.QuotationPrefix, day); n[:4] != "QUO-" {
		t.Errorf("quotation number %q does not carry the QUO prefix", n)
	}
}
