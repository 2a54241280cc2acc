package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotedTotalCents(t *testing.T) {
	tests := []struct {
		name     string
		prices   []int32
		discount int32
		want     int32
	}{
		{"no discount", []int32{10000, 5000}, 0, 15000},
		{"ten percent off", []int32{10000, 5000}, 10, 13500},
		{"truncates to whole cents", []int32{9999}, 10, 8999},
		{"full discount", []int32{10000}, 100, 0},
		{"negative discount clamped", []int32{10000}, -5, 10000},
		{"discount above hundred clamped", []int32{10000}, 150, 0},
		{"no garments", nil, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuotedTotalCents(tt.prices, tt.discount))
		})
	}
}
