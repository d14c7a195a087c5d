package deco

import (
	"fmt"
	"math"
)

// NMRI98 oxygen weighting and parameter bounds. Oxygen excess counts at half
// weight toward the ceiling and 30% toward risk once a compartment's
// threshold is exceeded.
const (
	nmriO2CeilingWeight = 0.5
	nmriO2RiskWeight    = 0.3
	nmriConsShrink      = 0.05 // allowable-margin shrink per conservatism level
	maxNMRIConservatism = 5
)

// nmri98Table is the three-compartment parameter set: fast, intermediate,
// and slow tissues with per-gas half-times in minutes and pressures in bar.
var nmri98Table = []leRow{
	{"fast", 8, 3, 6, 2.50, 0.35, 0.90, 0.50, false},
	{"intermediate", 40, 15, 30, 1.85, 0.25, 0.60, 0.48, false},
	{"slow", 240, 90, 180, 1.45, 0.15, 0.40, 0.45, false},
}

// NMRI98Params are the recognized construction options. All numeric fields
// are silently clamped into their documented bounds; zero values take the
// defaults (conservatism 0, max risk 3.5%, safety factor 1.0).
type NMRI98Params struct {
	Conservatism         int     // [0,5]
	MaxDCSRisk           float64 // percent, [1,10]
	SafetyFactor         float64 // [0.5,2.0]
	EnableOxygenTracking bool
}

// NMRI98 is the three-compartment linear-exponential model with optional
// oxygen tracking.
type NMRI98 struct {
	leBase
	conservatism int
	maxDCSRisk   float64
	safetyFactor float64
}

// NewNMRI98 constructs an NMRI98-style model. Unlike the Bühlmann and RGBM
// constructors this one never fails: out-of-range parameters are clamped.
func NewNMRI98(p NMRI98Params) *NMRI98 {
	if p.MaxDCSRisk == 0 {
		p.MaxDCSRisk = 3.5
	}
	if p.SafetyFactor == 0 {
		p.SafetyFactor = 1
	}
	m := &NMRI98{
		conservatism: int(clamp(float64(p.Conservatism), 0, maxNMRIConservatism)),
		maxDCSRisk:   clamp(p.MaxDCSRisk, 1, 10),
		safetyFactor: clamp(p.SafetyFactor, 0.5, 2),
	}
	m.trackO2 = p.EnableOxygenTracking
	m.core = newCore(m)
	m.initCompartments(nmri98Table)
	m.ResetToSurface()
	return m
}

func (m *NMRI98) Name() string {
	name := fmt.Sprintf("NMRI98 LE c%d sf%.2f", m.conservatism, m.safetyFactor)
	if m.trackO2 {
		name += " +O2"
	}
	return name
}

// scale shrinks the allowable M-value margin by conservatism and safety
// factor.
func (m *NMRI98) scale() float64 {
	return (1 - nmriConsShrink*float64(m.conservatism)) / m.safetyFactor
}

func (m *NMRI98) UpdateTissueLoadings(minutes float64) {
	if len(m.comps) == 0 {
		m.initCompartments(nmri98Table)
		m.resetExtras()
	}
	m.updateLoadings(minutes)
}

// Ceiling inverts the fixed-M tolerance directly; oxygen excess counts at
// half weight.
func (m *NMRI98) Ceiling() float64 {
	scale := m.scale()
	minAmb := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		eff := TotalLoading(&ct.Compartment) + nmriO2CeilingWeight*m.o2Excess(i)
		if amb := eff - ct.allowedExcess(scale); amb > minAmb {
			minAmb = amb
		}
	}
	return depthAtPressure(minAmb)
}

// tolerate checks hypothetical inert loadings at a depth; oxygen excess is
// frozen at live values during searches.
func (m *NMRI98) tolerate(depth float64, n2, he []float64) bool {
	amb := AmbientPressureAt(depth)
	scale := m.scale()
	for i := range m.comps {
		eff := n2[i] + he[i] + nmriO2CeilingWeight*m.o2Excess(i)
		if eff > amb+m.comps[i].allowedExcess(scale) {
			return false
		}
	}
	return true
}

func (m *NMRI98) DecompressionStops() []Stop {
	return m.searchStops(m.tolerate)
}

// DCSRisk squares the worst supersaturation ratio (oxygen excess at 30%
// weight) and scales it by the configured maximum risk.
func (m *NMRI98) DCSRisk() float64 {
	amb := m.state.AmbientPressure
	scale := m.scale()
	worst := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		eff := TotalLoading(&ct.Compartment) + nmriO2RiskWeight*m.o2Excess(i)
		if eff <= amb {
			continue
		}
		if ratio := (eff - amb) / ct.allowedExcess(scale); ratio > worst {
			worst = ratio
		}
	}
	return math.Min(100, m.maxDCSRisk*worst*worst)
}
