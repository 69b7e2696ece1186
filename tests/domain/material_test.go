package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veltra-services/fieldservice-api/internal/domain"
)

func TestNewMaterial_Clamping(t *testing.T) {
	tests := []struct {
		name         string
		price        float64
		quantity     int
		wantPrice    float64
		wantQuantity int
	}{
		{"valid values pass through", 12.50, 3, 12.50, 3},
		{"zero price clamps to minimum", 0, 1, 0.01, 1},
		{"negative price clamps to minimum", -5, 1, 0.01, 1},
		{"zero quantity clamps to one", 10, 0, 10, 1},
		{"negative quantity clamps to one", 10, -4, 10, 1},
		{"both invalid clamp together", -1, 0, 0.01, 1},
		{"exact minimum price kept", 0.01, 1, 0.01, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.NewMaterial("Pipe", tt.price, tt.quantity)
			assert.Equal(t, tt.wantPrice, m.Price)
			assert.Equal(t, tt.wantQuantity, m.Quantity)
			assert.NotEqual(t, "", m.ID.String())
		})
	}
}

func TestWorkOrder_MaterialsTotal(t *testing.T) {
	w := &domain.WorkOrder{
		Materials: []domain.Material{
			{Name: "Pipe", Price: 10, Quantity: 2},
			{Name: "Sealant", Price: 5.50, Quantity: 1},
		},
	}
	assert.InDelta(t, 25.50, w.MaterialsTotal(), 0.001)

	empty := &domain.WorkOrder{}
	assert.Equal(t, 0.0, empty.MaterialsTotal())
}

func TestWorkOrder_MaterialsTotal_AllowsDuplicates(t *testing.T) {
	// Materials are value objects without row identity, duplicates both count
	w := &domain.WorkOrder{
		Materials: []domain.Material{
			{Name: "Pipe", Price: 10, Quantity: 1},
			{Name: "Pipe", Price: 10, Quantity: 1},
		},
	}
	assert.InDelta(t, 20.0, w.MaterialsTotal(), 0.001)
}
