package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veltra-services/fieldservice-api/internal/domain"
)

func TestCustomer_LastName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		expected string
	}{
		{"two tokens", "Kari Nordmann", "Nordmann"},
		{"three tokens keep everything after the first", "Anne Marie Olsen", "Marie Olsen"},
		{"single token has no last name", "IKEA", ""},
		{"empty name", "", ""},
		{"surrounding whitespace trimmed", "  Ola Hansen  ", "Hansen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.Customer{Name: tt.fullName}
			assert.Equal(t, tt.expected, c.LastName())
		})
	}
}

func TestWorkOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.WorkOrderStatus
		expected bool
	}{
		{"open is valid", domain.WorkOrderStatusOpen, true},
		{"completed is valid", domain.WorkOrderStatusCompleted, true},
		{"incomplete is valid", domain.WorkOrderStatusIncomplete, true},
		{"cancelled is invalid", domain.WorkOrderStatus("cancelled"), false},
		{"empty is invalid", domain.WorkOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}
