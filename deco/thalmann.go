package deco

import (
	"fmt"
	"math"
)

// thalmannGFRefDepth is where the gradient-factor blend bottoms out at its
// low value; between the surface and this depth the factor interpolates
// linearly.
const thalmannGFRefDepth = 30.0 // meters

// thalmannTable is the three-compartment parameter set. The intermediate
// compartment is the primary linear-kinetics compartment: it eliminates
// linearly whenever supersaturated.
var thalmannTable = []leRow{
	{"fast", 5, 2.5, 4, 2.60, 0.30, 0.80, 0, false},
	{"intermediate", 55, 20, 40, 1.75, 0.45, 0.55, 0, true},
	{"slow", 300, 110, 220, 1.40, 0.12, 0.35, 0, false},
}

// ThalmannParams are the recognized construction options. All fields are
// silently clamped; zero values take the defaults (max risk 3.5%, safety
// factor 1.0, gradient factors 70/90).
type ThalmannParams struct {
	MaxDCSRisk         float64 // percent, [1,10]
	SafetyFactor       float64 // [0.5,2.0]
	GradientFactorLow  float64 // [0,100]
	GradientFactorHigh float64 // [0,100]
}

// Thalmann is the three-compartment linear-exponential model with
// gradient-factor-shaped allowable margins.
type Thalmann struct {
	leBase
	maxDCSRisk   float64
	safetyFactor float64
	gfLow        float64
	gfHigh       float64
}

// NewThalmann constructs a Thalmann-style model. Out-of-range parameters are
// clamped, never rejected; a low factor above the high one is lowered to it.
func NewThalmann(p ThalmannParams) *Thalmann {
	if p.MaxDCSRisk == 0 {
		p.MaxDCSRisk = 3.5
	}
	if p.SafetyFactor == 0 {
		p.SafetyFactor = 1
	}
	if p.GradientFactorLow == 0 {
		p.GradientFactorLow = 70
	}
	if p.GradientFactorHigh == 0 {
		p.GradientFactorHigh = 90
	}
	m := &Thalmann{
		maxDCSRisk:   clamp(p.MaxDCSRisk, 1, 10),
		safetyFactor: clamp(p.SafetyFactor, 0.5, 2),
		gfLow:        clamp(p.GradientFactorLow, 0, 100),
		gfHigh:       clamp(p.GradientFactorHigh, 0, 100),
	}
	if m.gfLow > m.gfHigh {
		m.gfLow = m.gfHigh
	}
	m.core = newCore(m)
	m.initCompartments(thalmannTable)
	m.ResetToSurface()
	return m
}

func (m *Thalmann) Name() string {
	return fmt.Sprintf("Thalmann LE GF %.0f/%.0f sf%.2f", m.gfLow, m.gfHigh, m.safetyFactor)
}

// GradientFactors returns the active low/high pair.
func (m *Thalmann) GradientFactors() (low, high float64) {
	return m.gfLow, m.gfHigh
}

// scaleAt blends the gradient factor from high at the surface to low at the
// reference depth, then folds in the safety factor.
func (m *Thalmann) scaleAt(depth float64) float64 {
	frac := math.Min(math.Max(depth, 0)/thalmannGFRefDepth, 1)
	gf := m.gfHigh + (m.gfLow-m.gfHigh)*frac
	return gf / 100 / m.safetyFactor
}

func (m *Thalmann) UpdateTissueLoadings(minutes float64) {
	if len(m.comps) == 0 {
		m.initCompartments(thalmannTable)
		m.resetExtras()
	}
	m.updateLoadings(minutes)
}

func (m *Thalmann) tolerate(depth float64, n2, he []float64) bool {
	amb := AmbientPressureAt(depth)
	scale := m.scaleAt(depth)
	for i := range m.comps {
		if n2[i]+he[i] > amb+m.comps[i].allowedExcess(scale) {
			return false
		}
	}
	return true
}

// Ceiling uses the iterative kernel search; the depth-dependent gradient
// factor makes a direct inversion awkward.
func (m *Thalmann) Ceiling() float64 {
	return m.iterativeCeiling(m.tolerate)
}

func (m *Thalmann) DecompressionStops() []Stop {
	return m.searchStops(m.tolerate)
}

// DCSRisk squares the worst supersaturation ratio against the
// gradient-factor-shaped margin at current depth, scaled by the configured
// maximum risk.
func (m *Thalmann) DCSRisk() float64 {
	amb := m.state.AmbientPressure
	scale := m.scaleAt(m.state.Depth)
	worst := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		loading := TotalLoading(&ct.Compartment)
		if loading <= amb {
			continue
		}
		if ratio := (loading - amb) / ct.allowedExcess(scale); ratio > worst {
			worst = ratio
		}
	}
	return math.Min(100, m.maxDCSRisk*worst*worst)
}
