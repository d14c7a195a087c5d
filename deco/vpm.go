package deco

import (
	"fmt"
	"math"
)

// VPM bubble-mechanics constants. Surface tensions follow the usual VPM
// skin/crumbling values; the gradient constant folds them into
// 2*gamma*(gammaC-gamma)/gammaC expressed in bar·µm.
const (
	vpmGradientConst   = 0.333 // bar·µm; allowed gradient = const / radius
	vpmBaseRadius      = 0.55  // µm, critical radius at conservatism 0
	vpmRadiusPerLevel  = 0.05  // µm added per conservatism level
	vpmSeedBaseline    = 1.0   // normalized seed population per compartment
	vpmSeedGrowthRate  = 0.05  // seeds per bar of supersaturation per minute
	vpmSeedDecayTau    = 90.0  // minutes, relaxation toward baseline
	vpmBubblePenalty   = 0.05  // gradient shrink per excess seed
	maxVPMConservatism = 5
)

// vpmCompartment layers bubble state over the shared Haldanean compartment.
type vpmCompartment struct {
	Compartment
	initialRadius float64 // µm, set by conservatism at construction
	critRadius    float64 // µm, shrinks as crushing pressure accumulates
	maxCrush      float64 // bar, maximum compression seen this dive
	bubbleCount   float64 // normalized seed count, floored at baseline
}

// allowedGradient is the supersaturation a compartment tolerates before its
// bubble seeds grow: the critical-radius gradient, shrunk by any seed excess.
func (ct *vpmCompartment) allowedGradient() float64 {
	g := vpmGradientConst / ct.critRadius
	excess := math.Max(0, ct.bubbleCount-vpmSeedBaseline)
	return g / (1 + vpmBubblePenalty*excess)
}

// VPM is the bubble-mechanics model over the 16-compartment Haldanean base.
type VPM struct {
	*core
	conservatism int
	comps        []vpmCompartment
}

// NewVPM constructs a VPM-B model. Conservatism must be in [0,5]; like the
// RGBM variant it rejects out-of-range values rather than clamping.
func NewVPM(conservatism int) (*VPM, error) {
	if conservatism < 0 || conservatism > maxVPMConservatism {
		return nil, fmt.Errorf("%w: VPM conservatism %d outside [0,%d]",
			ErrInvalidParameter, conservatism, maxVPMConservatism)
	}
	m := &VPM{conservatism: conservatism}
	m.core = newCore(m)
	m.initCompartments()
	m.ResetToSurface()
	return m, nil
}

func (m *VPM) initCompartments() {
	r0 := vpmBaseRadius + vpmRadiusPerLevel*float64(m.conservatism)
	m.comps = make([]vpmCompartment, len(zhl16c))
	for i, row := range zhl16c {
		m.comps[i] = vpmCompartment{
			Compartment: Compartment{
				Number:     i + 1,
				N2HalfTime: row.n2HalfTime,
				HeHalfTime: row.heHalfTime,
			},
			initialRadius: r0,
		}
	}
}

func (m *VPM) Name() string {
	return fmt.Sprintf("VPM-B +%d", m.conservatism)
}

func (m *VPM) compartment(i int) *Compartment { return &m.comps[i].Compartment }
func (m *VPM) compartmentCount() int          { return len(m.comps) }

func (m *VPM) resetExtras() {
	for i := range m.comps {
		ct := &m.comps[i]
		ct.critRadius = ct.initialRadius
		ct.maxCrush = 0
		ct.bubbleCount = vpmSeedBaseline
	}
}

func (m *VPM) afterTissueCopy() {}

func (m *VPM) UpdateTissueLoadings(minutes float64) {
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

		// Boyle-style crushing: descent compresses bubble nuclei, shrinking
		// the critical radius and widening the tolerated gradient.
		if crush := amb - TotalLoading(&ct.Compartment); crush > ct.maxCrush {
			ct.maxCrush = crush
			ct.critRadius = ct.initialRadius *
				math.Cbrt(SurfacePressure/(SurfacePressure+ct.maxCrush))
		}

		supersat := TotalLoading(&ct.Compartment) - amb
		if supersat > ct.allowedGradient() {
			ct.bubbleCount += vpmSeedGrowthRate * supersat * minutes
		} else {
			decayed := vpmSeedBaseline +
				(ct.bubbleCount-vpmSeedBaseline)*math.Exp(-minutes/vpmSeedDecayTau)
			ct.bubbleCount = math.Max(vpmSeedBaseline, decayed)
		}
	}
	m.advanceTime(minutes)
}

// tolerate reports whether every compartment's hypothetical loading stays
// within its bubble-limited gradient at a depth. Bubble state is frozen at
// live values during searches.
func (m *VPM) tolerate(depth float64, n2, he []float64) bool {
	amb := AmbientPressureAt(depth)
	for i := range m.comps {
		if n2[i]+he[i] > amb+m.comps[i].allowedGradient() {
			return false
		}
	}
	return true
}

func (m *VPM) Ceiling() float64 {
	return m.iterativeCeiling(m.tolerate)
}

func (m *VPM) DecompressionStops() []Stop {
	return m.searchStops(m.tolerate)
}

// DCSRisk scales the worst surfacing supersaturation ratio by the aggregate
// seed excess across compartments.
func (m *VPM) DCSRisk() float64 {
	worst := 0.0
	seeds := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		seeds += ct.bubbleCount
		supersat := TotalLoading(&ct.Compartment) - SurfacePressure
		if supersat <= 0 {
			continue
		}
		if ratio := supersat / ct.allowedGradient(); ratio > worst {
			worst = ratio
		}
	}
	seedFactor := seeds / (vpmSeedBaseline * float64(len(m.comps)))
	return math.Min(100, 100*worst*worst*math.Sqrt(seedFactor))
}

// BubbleCount returns the normalized bubble-seed count of the 1-based
// compartment n.
func (m *VPM) BubbleCount(n int) (float64, error) {
	if n < 1 || n > len(m.comps) {
		return 0, fmt.Errorf("%w: %d (valid 1..%d)", ErrCompartmentIndex, n, len(m.comps))
	}
	return m.comps[n-1].bubbleCount, nil
}

// CriticalRadius returns the current critical bubble radius in µm of the
// 1-based compartment n.
func (m *VPM) CriticalRadius(n int) (float64, error) {
	if n < 1 || n > len(m.comps) {
		return 0, fmt.Errorf("%w: %d (valid 1..%d)", ErrCompartmentIndex, n, len(m.comps))
	}
	return m.comps[n-1].critRadius, nil
}
