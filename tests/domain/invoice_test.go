package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veltra-services/fieldservice-api/internal/domain"
)

func TestInvoice_ComputedTotal(t *testing.T) {
	invoice := &domain.Invoice{
		Services: []domain.ServiceItem{
			{Name: "Labor", UnitPrice: 100, Quantity: 2},
			{Name: "Callout fee", UnitPrice: 50, Quantity: 1},
		},
		TaxPercentage: 25,
	}

	// (200 + 50 + 70 materials) * 1.25
	assert.InDelta(t, 400.0, invoice.ComputedTotal(70), 0.001)
}

func TestInvoice_ComputedTotal_NoTax(t *testing.T) {
	invoice := &domain.Invoice{
		Services: []domain.ServiceItem{
			{Name: "Inspection", UnitPrice: 41.60, Quantity: 1},
		},
	}
	assert.InDelta(t, 41.60, invoice.ComputedTotal(0), 0.001)
}

func TestInvoice_ComputedTotal_Empty(t *testing.T) {
	invoice := &domain.Invoice{TaxPercentage: 25}
	assert.Equal(t, 0.0, invoice.ComputedTotal(0))
}

func TestInvoice_ServicesSubtotal(t *testing.T) {
	invoice := &domain.Invoice{
		Services: []domain.ServiceItem{
			{Name: "Labor", UnitPrice: 80, Quantity: 3},
		},
	}
	assert.InDelta(t, 240.0, invoice.ServicesSubtotal(), 0.001)
}

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.InvoiceStatus
		expected bool
	}{
		{"paid is valid", domain.InvoiceStatusPaid, true},
		{"unpaid is valid", domain.InvoiceStatusUnpaid, true},
		{"invalid status", domain.InvoiceStatus("pending"), false},
		{"empty status", domain.InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}
