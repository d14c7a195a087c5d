package deco

import (
	"fmt"
	"math"
)

// Hills thermodynamic constants. Temperatures are in °C internally; the
// Arrhenius correction works on absolute temperature.
const (
	hillsAllowedSupersat = 1.6    // bar tolerated at core temperature
	hillsRefTempK        = 310.15 // K, 37 °C reference
	hillsArrheniusEaR    = 2500.0 // K, activation energy over gas constant
	hillsMetabolicGain   = 0.3    // °C of tissue warming per unit metabolic rate above rest
	hillsDepthCooling    = 0.03   // °C lost per meter of depth
	hillsMaxCooling      = 5.0    // °C, floor below core temperature
	hillsSolubilityCoeff = 0.01   // equilibrium shift per °C below core temperature
	hillsNucleationBar   = 0.8    // bar, nucleation energy barrier scale

	minHillsConservatism = 0.5
	maxHillsConservatism = 2.0
)

// HillsParams are the recognized construction options. Zero values take the
// documented defaults; the conservatism factor is clamped to [0.5, 2.0].
type HillsParams struct {
	ConservatismFactor  float64 // default 1.0
	CoreTemperature     float64 // °C, default 37
	MetabolicRate       float64 // relative to rest, default 1.0
	PerfusionMultiplier float64 // default 1.0
}

// hillsCompartment adds thermal state to the shared compartment: a relative
// diffusivity, a heat capacity governing how fast the tissue re-warms, and
// the current tissue temperature.
type hillsCompartment struct {
	Compartment
	diffusivity  float64 // relative thermal diffusivity
	heatCapacity float64 // relative, sets the thermal relaxation constant
	temperature  float64 // °C
}

// Hills is the thermodynamic model: gas exchange modulated by tissue
// temperature with an Arrhenius-corrected dissolution rate.
type Hills struct {
	*core
	conservatism  float64
	coreTemp      float64
	metabolicRate float64
	perfusion     float64
	comps         []hillsCompartment
}

// NewHills constructs a Hills thermodynamic model. Out-of-range parameters
// are clamped, not rejected.
func NewHills(p HillsParams) *Hills {
	if p.ConservatismFactor == 0 {
		p.ConservatismFactor = 1
	}
	if p.CoreTemperature == 0 {
		p.CoreTemperature = 37
	}
	if p.MetabolicRate == 0 {
		p.MetabolicRate = 1
	}
	if p.PerfusionMultiplier == 0 {
		p.PerfusionMultiplier = 1
	}
	m := &Hills{
		conservatism:  clamp(p.ConservatismFactor, minHillsConservatism, maxHillsConservatism),
		coreTemp:      clamp(p.CoreTemperature, 30, 40),
		metabolicRate: clamp(p.MetabolicRate, 0.5, 3),
		perfusion:     clamp(p.PerfusionMultiplier, 0.5, 2),
	}
	m.core = newCore(m)
	m.initCompartments()
	m.ResetToSurface()
	return m
}

func (m *Hills) initCompartments() {
	m.comps = make([]hillsCompartment, len(zhl16c))
	for i, row := range zhl16c {
		// Fast compartments are perfusion-dominated: high diffusivity, low
		// thermal inertia. Slow ones re-warm sluggishly.
		frac := float64(i) / float64(len(zhl16c)-1)
		m.comps[i] = hillsCompartment{
			Compartment: Compartment{
				Number:     i + 1,
				N2HalfTime: row.n2HalfTime,
				HeHalfTime: row.heHalfTime,
			},
			diffusivity:  1.2 - 0.4*frac,
			heatCapacity: 1 + 2*frac,
		}
	}
}

func (m *Hills) Name() string {
	return fmt.Sprintf("Hills thermodynamic x%.2f", m.conservatism)
}

func (m *Hills) compartment(i int) *Compartment { return &m.comps[i].Compartment }
func (m *Hills) compartmentCount() int          { return len(m.comps) }

func (m *Hills) resetExtras() {
	for i := range m.comps {
		m.comps[i].temperature = m.coreTemp
	}
}

func (m *Hills) afterTissueCopy() {}

// tissueTarget is the temperature a compartment relaxes toward: core
// temperature plus metabolic heat, minus depth-pressure cooling.
func (m *Hills) tissueTarget() float64 {
	target := m.coreTemp + hillsMetabolicGain*(m.metabolicRate-1) -
		hillsDepthCooling*m.state.Depth
	return math.Max(target, m.coreTemp-hillsMaxCooling)
}

// arrhenius is the dissolution-rate correction at tissue temperature tC.
func arrhenius(tC float64) float64 {
	tK := tC + 273.15
	return math.Exp(-hillsArrheniusEaR * (1/tK - 1/hillsRefTempK))
}

// stepLoadings advances hypothetical loadings at the temperature-corrected
// rates. Tissue temperature stays at its current value for the hold; stop
// holds are short against the thermal time constants.
func (m *Hills) stepLoadings(n2, he []float64, depth, minutes float64) {
	amb := AmbientPressureAt(depth)
	inspN2 := inspiredPressure(NitrogenFraction(m.state.Gas), amb)
	inspHe := inspiredPressure(m.state.Gas.He, amb)
	for i := range m.comps {
		ct := &m.comps[i]
		solubility := math.Min(1, 1-hillsSolubilityCoeff*(m.coreTemp-ct.temperature))
		corr := arrhenius(ct.temperature) * ct.diffusivity * m.perfusion
		n2[i] = haldaneStepRate(n2[i], inspN2*solubility, math.Ln2/ct.N2HalfTime*corr, minutes)
		he[i] = haldaneStepRate(he[i], inspHe*solubility, math.Ln2/ct.HeHalfTime*corr, minutes)
	}
}

func (m *Hills) UpdateTissueLoadings(minutes float64) {
	if len(m.comps) == 0 {
		m.initCompartments()
		m.resetExtras()
	}
	amb := m.state.AmbientPressure
	target := m.tissueTarget()
	fN2 := NitrogenFraction(m.state.Gas)
	for i := range m.comps {
		ct := &m.comps[i]

		// Thermal relaxation toward the target, paced by perfusion and the
		// compartment's thermal inertia.
		tau := (10 + ct.N2HalfTime/4) * ct.heatCapacity / m.perfusion
		ct.temperature += (target - ct.temperature) * (1 - math.Exp(-minutes/tau))

		// Solubility scales with absolute temperature; the equilibrium
		// tension stays capped at the inspired pressure so thermal drift
		// never drives loading past ambient.
		solubility := math.Min(1, 1-hillsSolubilityCoeff*(m.coreTemp-ct.temperature))
		corr := arrhenius(ct.temperature) * ct.diffusivity * m.perfusion

		kN2 := math.Ln2 / ct.N2HalfTime * corr
		kHe := math.Ln2 / ct.HeHalfTime * corr
		ct.N2Loading = haldaneStepRate(ct.N2Loading, inspiredPressure(fN2, amb)*solubility, kN2, minutes)
		ct.HeLoading = haldaneStepRate(ct.HeLoading, inspiredPressure(m.state.Gas.He, amb)*solubility, kHe, minutes)
	}
	m.advanceTime(minutes)
}

// allowedSupersat is the temperature-scaled tolerated supersaturation of a
// compartment, shrunk by the global conservatism factor.
func (m *Hills) allowedSupersat(ct *hillsCompartment) float64 {
	tK := ct.temperature + 273.15
	return hillsAllowedSupersat * (tK / hillsRefTempK) / m.conservatism
}

func (m *Hills) tolerate(depth float64, n2, he []float64) bool {
	amb := AmbientPressureAt(depth)
	for i := range m.comps {
		if n2[i]+he[i] > amb+m.allowedSupersat(&m.comps[i]) {
			return false
		}
	}
	return true
}

func (m *Hills) Ceiling() float64 {
	return m.iterativeCeiling(m.tolerate)
}

func (m *Hills) DecompressionStops() []Stop {
	return m.searchStops(m.tolerate)
}

// DCSRisk combines the worst supersaturation ratio with an Arrhenius
// bubble-nucleation probability, scaled by the conservatism factor.
func (m *Hills) DCSRisk() float64 {
	amb := m.state.AmbientPressure
	worstRatio := 0.0
	worstNucleation := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		supersat := TotalLoading(&ct.Compartment) - amb
		if supersat <= 0 {
			continue
		}
		if ratio := supersat / m.allowedSupersat(ct); ratio > worstRatio {
			worstRatio = ratio
		}
		// Nucleation probability rises steeply once supersaturation
		// approaches the barrier scale, faster in warm tissue.
		tScale := (ct.temperature + 273.15) / hillsRefTempK
		p := math.Exp(-hillsNucleationBar / (supersat * tScale))
		if p > worstNucleation {
			worstNucleation = p
		}
	}
	score := m.conservatism * (70*worstRatio*worstRatio + 30*worstNucleation)
	return math.Min(100, score)
}

// TissueTemperature returns the current temperature in °C of the 1-based
// compartment n.
func (m *Hills) TissueTemperature(n int) (float64, error) {
	if n < 1 || n > len(m.comps) {
		return 0, fmt.Errorf("%w: %d (valid 1..%d)", ErrCompartmentIndex, n, len(m.comps))
	}
	return m.comps[n-1].temperature, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
