package analysis

import (
	"math"
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculateICER(t *testing.T) {
	tests := []struct {
		name                             string
		costA, utilityA, costB, utilityB float64
		want                             float64
	}{
		{"basic", 100, 2, 150, 3, 50},
		{"same utility, cheaper", 100, 2, 80, 2, math.Inf(1)},
		{"B dominant gives negative ratio", 100, 2, 80, 3, -20},
		{"B worse and costlier gives negative ratio", 100, 3, 150, 2, -50},
		{"fractional", 0, 0, 1400, 6.2, 1400 / 6.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateICER(tt.costA, tt.utilityA, tt.costB, tt.utilityB)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateICER_IdenticalInputsAreInfinite(t *testing.T) {
	for _, pair := range [][2]float64{{0, 0}, {100, 2}, {-5, 7.25}, {1e9, -3}} {
		got := CalculateICER(pair[0], pair[1], pair[0], pair[1])
		assert.True(t, math.IsInf(got, 1), "ICER(%v) = %v", pair, got)
	}
}

func TestICER_Outcomes(t *testing.T) {
	a := domain.Outcome{Cost: 100, Utility: 2}
	b := domain.Outcome{Cost: 150, Utility: 3}
	assert.Equal(t, 50.0, ICER(a, b))
	assert.True(t, math.IsInf(ICER(a, a), 1))
}

func TestNetMonetaryBenefit(t *testing.T) {
	assert.Equal(t, 20000*1.5-5000, NetMonetaryBenefit(domain.Outcome{Cost: 5000, Utility: 1.5}, 20000))
	assert.Equal(t, -10.0, NetMonetaryBenefit(domain.Outcome{Cost: 10, Utility: 3}, 0))
}
