package deco

import (
	"fmt"
	"math"
)

// gfCompartment extends the shared compartment with ZHL-16C coefficients and
// the loading-weighted combined (a, b) pair, recomputed after every update.
type gfCompartment struct {
	Compartment
	row  zhl16cRow
	a, b float64 // combined M-value coefficients
}

// fullM is the unadjusted M-value at ambient pressure p, per M = a*p + b.
func (ct *gfCompartment) fullM(p float64) float64 {
	return ct.a*p + ct.b
}

func (ct *gfCompartment) recomputeCoefficients() {
	ct.a, ct.b = blendCoefficients(ct.N2Loading, ct.HeLoading, ct.row)
}

// Buhlmann is the 16-compartment Haldanean model with gradient factors over
// the ZHL-16C coefficient set.
type Buhlmann struct {
	*core
	gfLow  float64
	gfHigh float64
	comps  []gfCompartment
}

// NewBuhlmann constructs a Bühlmann-GF model. Both gradient factors must be
// in [0,100] with low <= high; out-of-range values are rejected, not clamped.
func NewBuhlmann(gfLow, gfHigh float64) (*Buhlmann, error) {
	m := &Buhlmann{}
	m.core = newCore(m)
	if err := m.SetGradientFactors(gfLow, gfHigh); err != nil {
		return nil, err
	}
	m.initCompartments()
	m.ResetToSurface()
	return m, nil
}

func (m *Buhlmann) initCompartments() {
	m.comps = make([]gfCompartment, len(zhl16c))
	for i, row := range zhl16c {
		m.comps[i] = gfCompartment{
			Compartment: Compartment{
				Number:     i + 1,
				N2HalfTime: row.n2HalfTime,
				HeHalfTime: row.heHalfTime,
			},
			row: row,
		}
	}
}

// GradientFactors returns the active low/high pair.
func (m *Buhlmann) GradientFactors() (low, high float64) {
	return m.gfLow, m.gfHigh
}

// SetGradientFactors validates and installs a new gradient-factor pair.
func (m *Buhlmann) SetGradientFactors(low, high float64) error {
	if low < 0 || low > 100 || high < 0 || high > 100 {
		return fmt.Errorf("%w: gradient factors %.0f/%.0f outside [0,100]",
			ErrInvalidParameter, low, high)
	}
	if low > high {
		return fmt.Errorf("%w: gradient factor low %.0f > high %.0f",
			ErrInvalidParameter, low, high)
	}
	m.gfLow = low
	m.gfHigh = high
	return nil
}

func (m *Buhlmann) Name() string {
	return fmt.Sprintf("Buhlmann ZHL-16C GF %.0f/%.0f", m.gfLow, m.gfHigh)
}

func (m *Buhlmann) compartment(i int) *Compartment { return &m.comps[i].Compartment }
func (m *Buhlmann) compartmentCount() int          { return len(m.comps) }

func (m *Buhlmann) resetExtras() {
	for i := range m.comps {
		m.comps[i].recomputeCoefficients()
	}
}

func (m *Buhlmann) afterTissueCopy() {
	for i := range m.comps {
		m.comps[i].recomputeCoefficients()
	}
}

func (m *Buhlmann) UpdateTissueLoadings(minutes float64) {
	if len(m.comps) == 0 {
		m.initCompartments()
		m.resetExtras()
	}
	amb := m.state.AmbientPressure
	inspN2 := inspiredPressure(NitrogenFraction(m.state.Gas), amb)
	inspHe := inspiredPressure(m.state.Gas.He, amb)
	for i := range m.comps {
		ct := &m.comps[i]
		ct.N2Loading = haldaneStep(ct.N2Loading, inspN2, ct.N2HalfTime, minutes)
		ct.HeLoading = haldaneStep(ct.HeLoading, inspHe, ct.HeHalfTime, minutes)
		ct.recomputeCoefficients()
	}
	m.advanceTime(minutes)
}

// firstStopDepth is the deepest depth at which any compartment's unadjusted
// M-value is reached, rounded up to the next 3 m; 0 when every compartment
// tolerates the surface unadjusted.
func (m *Buhlmann) firstStopDepth() float64 {
	deepest := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		if ct.a <= 0 {
			continue
		}
		p := (TotalLoading(&ct.Compartment) - ct.b) / ct.a
		if d := depthAtPressure(p); d > deepest {
			deepest = d
		}
	}
	if deepest <= 0 {
		return 0
	}
	return roundUpTo(deepest, rawStopInterval)
}

// gfAt linearly interpolates the gradient factor between high at the surface
// and low at the first-stop depth.
func (m *Buhlmann) gfAt(depth, firstStop float64) float64 {
	if firstStop <= 0 || depth <= 0 {
		return m.gfHigh
	}
	frac := math.Min(depth/firstStop, 1)
	return m.gfHigh + (m.gfLow-m.gfHigh)*frac
}

// adjustedM is the gradient-factor-adjusted M-value at ambient pressure amb,
// clipped so it never exceeds the unadjusted M-value.
func (ct *gfCompartment) adjustedM(amb, gf float64) float64 {
	full := ct.fullM(amb)
	adj := amb + gf/100*(full-amb)
	return math.Min(adj, full)
}

// Ceiling inverts the gradient-adjusted linear law per compartment. The
// gradient factor depends on the ceiling depth itself, so the inversion runs
// a short fixed-point iteration per compartment.
func (m *Buhlmann) Ceiling() float64 {
	firstStop := m.firstStopDepth()
	maxP := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		loading := TotalLoading(&ct.Compartment)
		// Unadjusted inversion seeds the iteration.
		unadjusted := (loading - ct.b) / ct.a
		p := unadjusted
		for iter := 0; iter < 3; iter++ {
			g := m.gfAt(depthAtPressure(p), firstStop) / 100
			denom := 1 + g*(ct.a-1)
			if denom <= 0 {
				break
			}
			p = (loading - g*ct.b) / denom
		}
		// The adjusted M-value never exceeds the unadjusted one, so the
		// tolerated ambient pressure is at least the unadjusted inversion.
		if p < unadjusted {
			p = unadjusted
		}
		if p > maxP {
			maxP = p
		}
	}
	return depthAtPressure(maxP)
}

// worstSupersaturation returns the worst-case supersaturation percentage
// across compartments for hypothetical loadings at a depth: loading excess
// over ambient as a share of the gradient-adjusted allowable excess.
func (m *Buhlmann) worstSupersaturation(depth float64, n2, he []float64) float64 {
	amb := AmbientPressureAt(depth)
	firstStop := m.firstStopDepth()
	gf := m.gfAt(depth, firstStop)
	worst := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		loading := n2[i] + he[i]
		if loading <= amb {
			continue
		}
		a, b := blendCoefficients(n2[i], he[i], ct.row)
		full := a*amb + b
		adj := math.Min(amb+gf/100*(full-amb), full)
		if allowed := adj - amb; allowed > 0 {
			if pct := 100 * (loading - amb) / allowed; pct > worst {
				worst = pct
			}
		}
	}
	return worst
}

// stopTimeFor maps the worst-case supersaturation percentage onto a tiered
// stop-time table. This variant estimates stop times heuristically instead of
// running the binary-search kernel.
func stopTimeFor(supersatPct float64) float64 {
	switch {
	case supersatPct < 40:
		return 1
	case supersatPct < 60:
		return 2
	case supersatPct < 75:
		return 3
	case supersatPct < 90:
		return 5
	case supersatPct < 105:
		return 8
	default:
		return 12
	}
}

func (m *Buhlmann) DecompressionStops() []Stop {
	ceiling := m.Ceiling()
	if ceiling <= 0 {
		return nil
	}
	n2, he := m.loadingsSnapshot()
	var stops []Stop
	for stopDepth := roundUpTo(ceiling, rawStopInterval); stopDepth > 0; stopDepth -= rawStopInterval {
		t := stopTimeFor(m.worstSupersaturation(stopDepth, n2, he))
		stops = append(stops, Stop{Depth: stopDepth, Time: t, Gas: m.state.Gas})
		n2, he = m.simulateHold(n2, he, stopDepth, t)
	}
	return stops
}

// DCSRisk is a squared-ratio heuristic: worst compartment supersaturation
// relative to the gradient-factor-allowed supersaturation at current depth,
// squared and scaled to a percentage.
func (m *Buhlmann) DCSRisk() float64 {
	amb := m.state.AmbientPressure
	firstStop := m.firstStopDepth()
	gf := m.gfAt(m.state.Depth, firstStop)
	worst := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		loading := TotalLoading(&ct.Compartment)
		if loading <= amb {
			continue
		}
		allowed := ct.adjustedM(amb, gf) - amb
		if allowed <= 0 {
			worst = 1
			break
		}
		if ratio := (loading - amb) / allowed; ratio > worst {
			worst = ratio
		}
	}
	return math.Min(100, 100*worst*worst)
}
