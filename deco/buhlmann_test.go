package deco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuhlmann_RejectsInvalidGradientFactors(t *testing.T) {
	cases := []struct {
		name      string
		low, high float64
	}{
		{"low above high", 90, 50},
		{"low negative", -5, 80},
		{"high above 100", 30, 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBuhlmann(tc.low, tc.high)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestBuhlmann_SetGradientFactors(t *testing.T) {
	m, err := NewBuhlmann(30, 85)
	require.NoError(t, err)

	require.NoError(t, m.SetGradientFactors(40, 90))
	low, high := m.GradientFactors()
	assert.Equal(t, 40.0, low)
	assert.Equal(t, 90.0, high)
	assert.Contains(t, m.Name(), "40/90")

	assert.ErrorIs(t, m.SetGradientFactors(95, 40), ErrInvalidParameter)
	// A rejected update must not change the active pair.
	low, high = m.GradientFactors()
	assert.Equal(t, 40.0, low)
	assert.Equal(t, 90.0, high)
}

// Scenario A: 40 m for 25 min on air with GF 30/85 demands stops.
func TestBuhlmann_DeepDiveDemandsStops(t *testing.T) {
	m, err := NewBuhlmann(30, 85)
	require.NoError(t, err)
	descend(m, 40, Air)
	m.UpdateTissueLoadings(25)

	assert.Greater(t, m.Ceiling(), 0.0)
	assert.False(t, m.CanAscendDirectly())

	stops := m.DecompressionStops()
	require.NotEmpty(t, stops)
	for i, s := range stops {
		assert.Zero(t, math.Mod(s.Depth, 3), "stop depths sit on the 3 m grid")
		assert.GreaterOrEqual(t, s.Time, 1.0, "every stop lasts at least a minute")
		if i > 0 {
			assert.Less(t, s.Depth, stops[i-1].Depth, "stops are ordered deepest first")
		}
	}
}

func TestBuhlmann_CombinedCoefficientsTrackLoadings(t *testing.T) {
	m, err := NewBuhlmann(30, 85)
	require.NoError(t, err)

	// On air the blend equals the pure-nitrogen coefficients.
	assert.InDelta(t, zhl16c[0].n2A, m.comps[0].a, 1e-9)
	assert.InDelta(t, zhl16c[0].n2B, m.comps[0].b, 1e-9)

	// Loading helium pulls the blend toward the helium coefficients.
	descend(m, 40, TMX2135)
	m.UpdateTissueLoadings(20)
	assert.Greater(t, m.comps[0].a, zhl16c[0].n2A)
	assert.Less(t, m.comps[0].b, zhl16c[0].n2B)
}

func TestBuhlmann_RiskZeroAtEquilibriumPositiveAfterExposure(t *testing.T) {
	m, err := NewBuhlmann(30, 85)
	require.NoError(t, err)
	assert.Zero(t, m.DCSRisk())

	descend(m, 30, Air)
	m.UpdateTissueLoadings(20)
	descend(m, 0, Air)
	risk := m.DCSRisk()
	assert.Greater(t, risk, 0.0)
	assert.LessOrEqual(t, risk, 100.0)
}

// At GF 100/100 the adjusted M-value collapses onto the unadjusted one, so the
// ceiling must equal the direct inversion of M = a*p + b per compartment.
func TestBuhlmann_CeilingMatchesUnadjustedInversionAtFullGradient(t *testing.T) {
	m, err := NewBuhlmann(100, 100)
	require.NoError(t, err)
	descend(m, 40, Air)
	m.UpdateTissueLoadings(25)

	maxP := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		if p := (TotalLoading(&ct.Compartment) - ct.b) / ct.a; p > maxP {
			maxP = p
		}
	}
	assert.InDelta(t, depthAtPressure(maxP), m.Ceiling(), 1e-9)
}

func TestBuhlmann_TighterGradientFactorsRaiseCeiling(t *testing.T) {
	loose, err := NewBuhlmann(80, 95)
	require.NoError(t, err)
	tight, err := NewBuhlmann(20, 60)
	require.NoError(t, err)

	for _, m := range []Model{loose, tight} {
		descend(m, 40, Air)
		m.UpdateTissueLoadings(25)
	}
	assert.Greater(t, tight.Ceiling(), loose.Ceiling(),
		"more conservative factors must demand a deeper ceiling")
}
