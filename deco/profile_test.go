package deco

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dive.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfile_ParsesSegmentsAndParameters(t *testing.T) {
	path := writeProfile(t, `
model: buhlmann
gradient_factor_low: 35
gradient_factor_high: 80
segments:
  - depth: 40
    time: 25
  - depth: 20
    time: 5
    gas: {o2: 0.32}
`)
	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "buhlmann", p.Model)
	require.NotNil(t, p.GradientFactorLow)
	assert.Equal(t, 35.0, *p.GradientFactorLow)
	require.Len(t, p.Segments, 2)
	assert.Nil(t, p.Segments[0].Gas)
	require.NotNil(t, p.Segments[1].Gas)
	assert.Equal(t, 0.32, p.Segments[1].Gas.O2)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestProfile_ValidateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
	}{
		{"unknown model", Profile{Model: "haldane-9000", Segments: []Segment{{Depth: 10, Time: 5}}}},
		{"no segments", Profile{Model: "vpm"}},
		{"zero time", Profile{Segments: []Segment{{Depth: 10, Time: 0}}}},
		{"negative depth", Profile{Segments: []Segment{{Depth: -3, Time: 5}}}},
		{"bad gas", Profile{Segments: []Segment{{Depth: 10, Time: 5, Gas: &GasMixConfig{O2: 0.9, He: 0.4}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.profile.Validate())
		})
	}
}

func TestProfile_NewModelDispatch(t *testing.T) {
	cases := []struct {
		model string
		want  string
	}{
		{"buhlmann", "Buhlmann"},
		{"vpm", "VPM-B"},
		{"rgbm", "RGBM"},
		{"hills", "Hills"},
		{"nmri98", "NMRI98"},
		{"thalmann", "Thalmann"},
		{"", "Buhlmann"}, // empty defaults to buhlmann
	}
	for _, tc := range cases {
		p := &Profile{Model: tc.model, Segments: []Segment{{Depth: 10, Time: 5}}}
		m, err := p.NewModel()
		require.NoError(t, err, tc.model)
		assert.Contains(t, m.Name(), tc.want)
	}
}

func TestProfile_NewModelPropagatesConstructionErrors(t *testing.T) {
	low, high := 90.0, 50.0
	p := &Profile{
		Model:              "buhlmann",
		Segments:           []Segment{{Depth: 10, Time: 5}},
		GradientFactorLow:  &low,
		GradientFactorHigh: &high,
	}
	_, err := p.NewModel()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
