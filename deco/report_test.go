package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProfile_NoStopDive(t *testing.T) {
	p := &Profile{Segments: []Segment{{Depth: 20, Time: 5}}}
	m, err := p.NewModel()
	require.NoError(t, err)

	plan, err := RunProfile(m, p)
	require.NoError(t, err)

	assert.Zero(t, plan.Ceiling)
	assert.Empty(t, plan.Stops)
	assert.Zero(t, plan.TotalStopTime())
	assert.InDelta(t, 20.0/9.0, plan.TTS, 0.1)
}

func TestRunProfile_DecompressionDive(t *testing.T) {
	low, high := 30.0, 85.0
	p := &Profile{
		Model:              "buhlmann",
		GradientFactorLow:  &low,
		GradientFactorHigh: &high,
		Segments:           []Segment{{Depth: 40, Time: 25}},
	}
	m, err := p.NewModel()
	require.NoError(t, err)

	plan, err := RunProfile(m, p)
	require.NoError(t, err)

	assert.Greater(t, plan.Ceiling, 0.0)
	assert.NotEmpty(t, plan.Consolidated)
	total := 0.0
	for _, s := range plan.Consolidated {
		total += s.Time
	}
	assert.InDelta(t, total, plan.TotalStopTime(), 1e-9)
	assert.GreaterOrEqual(t, plan.TTS, total)
}

func TestRunProfile_GasCarriesOverBetweenSegments(t *testing.T) {
	p := &Profile{Segments: []Segment{
		{Depth: 30, Time: 10, Gas: &GasMixConfig{O2: 0.32}},
		{Depth: 15, Time: 5}, // keeps EAN32
	}}
	m, err := p.NewModel()
	require.NoError(t, err)
	_, err = RunProfile(m, p)
	require.NoError(t, err)
	assert.Equal(t, EAN32, m.State().Gas)
}

func TestRunProfile_RejectsInvalidProfile(t *testing.T) {
	p := &Profile{}
	m := NewNMRI98(NMRI98Params{})
	_, err := RunProfile(m, p)
	assert.Error(t, err)
}

func TestCompareModels_AggregatesAllSixVariants(t *testing.T) {
	p := &Profile{Segments: []Segment{{Depth: 30, Time: 20}}}
	cmp, err := CompareModels(p)
	require.NoError(t, err)

	require.Len(t, cmp.Plans, 6)
	seen := map[string]bool{}
	sum := 0.0
	for _, plan := range cmp.Plans {
		seen[plan.Model] = true
		sum += plan.Risk
		assert.GreaterOrEqual(t, plan.Risk, 0.0, plan.Model)
		assert.LessOrEqual(t, plan.Risk, 100.0, plan.Model)
	}
	assert.Len(t, seen, 6, "every variant reports under its own name")
	assert.InDelta(t, sum/6, cmp.MeanRisk, 1e-9)
	assert.GreaterOrEqual(t, cmp.RiskStdDev, 0.0)
}
