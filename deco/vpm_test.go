package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVPM_ConservatismValidation(t *testing.T) {
	for _, level := range []int{-1, 6, 42} {
		_, err := NewVPM(level)
		assert.ErrorIs(t, err, ErrInvalidParameter, "level %d", level)
	}
	for level := 0; level <= 5; level++ {
		m, err := NewVPM(level)
		require.NoError(t, err)
		assert.Contains(t, m.Name(), "VPM-B")
	}
}

func TestVPM_BubbleAccessorsValidateIndex(t *testing.T) {
	m, err := NewVPM(1)
	require.NoError(t, err)

	_, err = m.BubbleCount(0)
	assert.ErrorIs(t, err, ErrCompartmentIndex)
	_, err = m.CriticalRadius(17)
	assert.ErrorIs(t, err, ErrCompartmentIndex)

	count, err := m.BubbleCount(1)
	require.NoError(t, err)
	assert.Equal(t, vpmSeedBaseline, count, "fresh model sits at the baseline population")
}

func TestVPM_CrushingShrinksCriticalRadius(t *testing.T) {
	m, err := NewVPM(0)
	require.NoError(t, err)
	before, err := m.CriticalRadius(1)
	require.NoError(t, err)

	descend(m, 40, Air)
	m.UpdateTissueLoadings(2)

	after, err := m.CriticalRadius(1)
	require.NoError(t, err)
	assert.Less(t, after, before, "compression must shrink bubble nuclei")
}

func TestVPM_HigherConservatismWidensRadius(t *testing.T) {
	relaxed, err := NewVPM(0)
	require.NoError(t, err)
	strict, err := NewVPM(5)
	require.NoError(t, err)

	r0, err := relaxed.CriticalRadius(1)
	require.NoError(t, err)
	r5, err := strict.CriticalRadius(1)
	require.NoError(t, err)
	assert.Greater(t, r5, r0)
}

func TestVPM_SupersaturationGrowsBubbles(t *testing.T) {
	m, err := NewVPM(0)
	require.NoError(t, err)
	descend(m, 45, Air)
	m.UpdateTissueLoadings(30)
	// Surfacing hot: big supersaturation in fast compartments.
	descend(m, 0, Air)
	m.UpdateTissueLoadings(1)

	grew := false
	for n := 1; n <= m.CompartmentCount(); n++ {
		count, err := m.BubbleCount(n)
		require.NoError(t, err)
		if count > vpmSeedBaseline {
			grew = true
		}
	}
	assert.True(t, grew, "an aggressive ascent must grow bubble seeds somewhere")
	assert.Greater(t, m.DCSRisk(), 0.0)
}

func TestVPM_DeepDiveDemandsStops(t *testing.T) {
	m, err := NewVPM(2)
	require.NoError(t, err)
	descend(m, 40, Air)
	m.UpdateTissueLoadings(25)

	assert.False(t, m.CanAscendDirectly())
	stops := m.DecompressionStops()
	require.NotEmpty(t, stops)
	for _, s := range stops {
		assert.GreaterOrEqual(t, s.Time, 1.0)
	}
}
