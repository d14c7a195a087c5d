package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNitrogenFraction_DerivedFromOxygenAndHelium(t *testing.T) {
	assert.InDelta(t, 0.79, NitrogenFraction(Air), 1e-9)
	assert.InDelta(t, 0.68, NitrogenFraction(EAN32), 1e-9)
	assert.InDelta(t, 0.44, NitrogenFraction(TMX2135), 1e-9)
}

func TestValidGasMix_Bounds(t *testing.T) {
	assert.True(t, ValidGasMix(Air))
	assert.True(t, ValidGasMix(GasMix{O2: 1}))
	assert.False(t, ValidGasMix(GasMix{O2: -0.1}))
	assert.False(t, ValidGasMix(GasMix{O2: 0.7, He: 0.4}))
}

func TestGasMix_String(t *testing.T) {
	assert.Equal(t, "air", Air.String())
	assert.Equal(t, "EAN32", EAN32.String())
	assert.Contains(t, TMX2135.String(), "TMX")
}

func TestAmbientPressureAt_PressureLaw(t *testing.T) {
	for _, depth := range []float64{0, 10, 20, 40, 100} {
		assert.InDelta(t, 1.013+0.1*depth, AmbientPressureAt(depth), 1e-3)
	}
}
