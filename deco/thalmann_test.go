package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThalmann_ClampsParameters(t *testing.T) {
	m := NewThalmann(ThalmannParams{
		MaxDCSRisk:         99,
		SafetyFactor:       0.01,
		GradientFactorLow:  150,
		GradientFactorHigh: 120,
	})
	assert.Equal(t, 10.0, m.maxDCSRisk)
	assert.Equal(t, 0.5, m.safetyFactor)
	low, high := m.GradientFactors()
	assert.Equal(t, 100.0, low)
	assert.Equal(t, 100.0, high)
}

func TestNewThalmann_LowAboveHighIsLoweredNotRejected(t *testing.T) {
	// Unlike the Buhlmann constructor, a crossed pair clamps silently.
	m := NewThalmann(ThalmannParams{GradientFactorLow: 95, GradientFactorHigh: 60})
	low, high := m.GradientFactors()
	assert.Equal(t, 60.0, high)
	assert.Equal(t, 60.0, low)
}

func TestNewThalmann_Defaults(t *testing.T) {
	m := NewThalmann(ThalmannParams{})
	assert.Equal(t, 3, m.CompartmentCount())
	low, high := m.GradientFactors()
	assert.Equal(t, 70.0, low)
	assert.Equal(t, 90.0, high)
	assert.Contains(t, m.Name(), "Thalmann")
}

func TestThalmann_IntermediateCompartmentIsPrimaryLinear(t *testing.T) {
	m := NewThalmann(ThalmannParams{})
	for n := 1; n <= 3; n++ {
		params, err := m.LinearParameters(n)
		require.NoError(t, err)
		assert.Equal(t, n == 2, params.PrimaryLinear, "compartment %d", n)
	}
}

func TestThalmann_ScaleBlendsFromHighToLow(t *testing.T) {
	m := NewThalmann(ThalmannParams{GradientFactorLow: 50, GradientFactorHigh: 100})
	assert.InDelta(t, 1.0, m.scaleAt(0), 1e-9)
	assert.InDelta(t, 0.75, m.scaleAt(15), 1e-9)
	assert.InDelta(t, 0.5, m.scaleAt(30), 1e-9)
	assert.InDelta(t, 0.5, m.scaleAt(60), 1e-9, "blend bottoms out at the reference depth")
}

func TestThalmann_DeepDiveDemandsStops(t *testing.T) {
	m := NewThalmann(ThalmannParams{})
	descend(m, 45, Air)
	m.UpdateTissueLoadings(35)

	assert.False(t, m.CanAscendDirectly())
	stops := m.DecompressionStops()
	require.NotEmpty(t, stops)
	for _, s := range stops {
		assert.GreaterOrEqual(t, s.Time, 1.0)
	}
}

func TestThalmann_SafetyFactorDeepensCeiling(t *testing.T) {
	relaxed := NewThalmann(ThalmannParams{})
	strict := NewThalmann(ThalmannParams{SafetyFactor: 1.8})
	for _, m := range []*Thalmann{relaxed, strict} {
		descend(m, 45, Air)
		m.UpdateTissueLoadings(35)
	}
	assert.Greater(t, strict.Ceiling(), relaxed.Ceiling())
}
