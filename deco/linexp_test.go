package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeStep_UptakeIsAlwaysExponential(t *testing.T) {
	// Ambient 4 bar, inspired 3.16, loading 0.8: pure Haldane uptake.
	got := leStep(0.8, 3.16, 4.0, 10, 0.3, 0.6, false, 10)
	want := haldaneStep(0.8, 3.16, 10, 10)
	assert.InDelta(t, want, got, 1e-12)
}

func TestLeStep_ExponentialEliminationBelowCrossover(t *testing.T) {
	// Supersaturation 0.4 <= crossover 0.6: still exponential.
	got := leStep(1.4, 0.79, 1.0, 10, 0.3, 0.6, false, 5)
	want := haldaneStep(1.4, 0.79, 10, 5)
	assert.InDelta(t, want, got, 1e-12)
}

func TestLeStep_LinearEliminationAboveCrossover(t *testing.T) {
	old, amb, crossover, slope, halfTime := 2.2, 1.0, 0.6, 0.3, 10.0
	got := leStep(old, 0.79, amb, halfTime, slope, crossover, false, 2)

	rate := slope * (old - amb) / halfTime
	assert.InDelta(t, old-rate*2, got, 1e-12)
	// Linear elimination is slower than the exponential branch would be.
	assert.Greater(t, got, haldaneStep(old, 0.79, halfTime, 2))
}

func TestLeStep_CrossesOverToExponentialMidInterval(t *testing.T) {
	// The linear phase reaches the crossover loading after 5.56 min; the rest
	// of the interval runs exponentially from there, below the crossover.
	old, amb, crossover, slope, halfTime := 2.2, 1.0, 0.6, 0.9, 10.0
	rate := slope * (old - amb) / halfTime
	toFloor := (old - amb - crossover) / rate

	got := leStep(old, 0.79, amb, halfTime, slope, crossover, false, 10)
	want := haldaneStep(amb+crossover, 0.79, halfTime, 10-toFloor)
	assert.InDelta(t, want, got, 1e-12)
	assert.Less(t, got, amb+crossover)
}

func TestLeStep_PrimaryLinearEliminatesLinearlyAlways(t *testing.T) {
	// Supersaturation 0.2 is below the crossover, but the primary-linear
	// compartment ignores the crossover on elimination.
	old, amb, slope, halfTime := 1.2, 1.0, 0.45, 10.0
	got := leStep(old, 0.79, amb, halfTime, slope, 0.6, true, 2)
	rate := slope * (old - amb) / halfTime
	assert.InDelta(t, old-rate*2, got, 1e-12)
}

// Hold simulations on a linear-exponential model must advance loadings with
// the same step the live update runs.
func TestSimulateHold_MatchesLiveLinearExponentialKinetics(t *testing.T) {
	m := NewThalmann(ThalmannParams{})
	descend(m, 45, Air)
	m.UpdateTissueLoadings(35)

	n2, he := m.loadingsSnapshot()
	simN2, simHe := m.simulateHold(n2, he, 6, 10)

	descend(m, 6, Air)
	m.UpdateTissueLoadings(10)
	for i := range simN2 {
		ct, err := m.Compartment(i + 1)
		require.NoError(t, err)
		assert.InDelta(t, simN2[i], ct.N2Loading, 1e-12, "compartment %d", i+1)
		assert.InDelta(t, simHe[i], ct.HeLoading, 1e-12, "compartment %d", i+1)
	}
}
