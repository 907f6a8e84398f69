package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePrice(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want float64
	}{
		{"no tags", []string{}, 19.99},
		{"nil tags", nil, 19.99},
		{"no matches", []string{"minimalist", "coffee"}, 19.99},
		{"premium and vintage", []string{"premium", "vintage"}, 34.99},
		{"one tag two groups", []string{"Premium Space"}, 36.99},
		{"one tag three groups", []string{"luxury retro galaxy"}, 41.99},
		{"same group twice", []string{"premium", "luxury"}, 39.99},
		{"case insensitive", []string{"VINTAGE"}, 24.99},
		{"substring match", []string{"spaceship", "retrowave"}, 31.99},
		{"space galaxy case", []string{"space", "galaxy", "phone case", "cosmic"}, 33.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePrice(tt.tags))
		})
	}
}

func TestComputePriceDeterministic(t *testing.T) {
	tags := []string{"retro", "galaxy", "luxury"}
	first := ComputePrice(tags)
	for range 10 {
		assert.Equal(t, first, ComputePrice(tags))
	}
}

func TestComputePriceOrderIndependent(t *testing.T) {
	assert.Equal(t,
		ComputePrice([]string{"premium", "vintage", "space"}),
		ComputePrice([]string{"space", "premium", "vintage"}),
	)
}
