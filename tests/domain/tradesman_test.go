package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"gorm.io/datatypes"
)

func TestTradesman_AddBadge(t *testing.T) {
	tradesman := &domain.Tradesman{Badges: []string{}}

	assert.True(t, tradesman.AddBadge("First Job"))
	assert.False(t, tradesman.AddBadge("First Job"), "duplicate badge must not be added twice")
	assert.True(t, tradesman.AddBadge("10 Jobs Streak"))
	assert.Equal(t, []string{"First Job", "10 Jobs Streak"}, tradesman.Badges)
}

func TestTradesman_HasBadge(t *testing.T) {
	tradesman := &domain.Tradesman{Badges: []string{"First Job"}}
	assert.True(t, tradesman.HasBadge("First Job"))
	assert.False(t, tradesman.HasBadge("10 Jobs Streak"))

	empty := &domain.Tradesman{}
	assert.False(t, empty.HasBadge("First Job"))
}

func TestWorkOrder_HasPhoto(t *testing.T) {
	encoded, err := json.Marshal([]string{"ab/cd/abcd.jpg", "ef/01/ef01.png"})
	require.NoError(t, err)

	w := &domain.WorkOrder{Photos: datatypes.JSON(encoded)}
	assert.True(t, w.HasPhoto("ab/cd/abcd.jpg"))
	assert.False(t, w.HasPhoto("zz/zz/zzzz.jpg"))

	none := &domain.WorkOrder{}
	assert.False(t, none.HasPhoto("ab/cd/abcd.jpg"))

	malformed := &domain.WorkOrder{Photos: datatypes.JSON([]byte("{not json"))}
	assert.False(t, malformed.HasPhoto("ab/cd/abcd.jpg"))
}

func TestInventoryItem_IsLowStock(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int16
		threshold int16
		expected  bool
	}{
		{"above threshold", 10, 5, false},
		{"at threshold", 5, 5, true},
		{"below threshold", 2, 5, true},
		{"zero threshold disables the check", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &domain.InventoryItem{Quantity: tt.quantity, LowThreshold: tt.threshold}
			assert.Equal(t, tt.expected, item.IsLowStock())
		})
	}
}
