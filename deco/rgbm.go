package deco

import (
	"fmt"
	"math"
)

// RGBM folding constants. The per-compartment f-factor shrinks the ZHL-16C
// M-value to account for microbubble formation and is bounded to [0.6, 1.0].
const (
	rgbmMinFFactor      = 0.6
	rgbmConsPerLevel    = 0.03  // f-factor shrink per conservatism level
	rgbmDepthCoeff      = 0.001 // f-factor shrink per meter of maximum depth
	rgbmSeedCoeff       = 0.02  // f-factor shrink per unit of seed excess
	rgbmSeedBaseline    = 1.0
	rgbmSeedGrowthRate  = 0.02  // seeds per bar of supersaturation per minute
	rgbmSeedDecayTau    = 60.0  // minutes
	rgbmStopExtension   = 0.05  // stop-time growth per unit of excess bubble volume
	rgbmRepPenaltyCoeff = 0.1   // risk inflation per registered dive
	rgbmRepPenaltyTau   = 120.0 // minutes, surface-interval washout
	maxRGBMConservatism = 5
)

// RGBMParams are the recognized construction options.
type RGBMParams struct {
	Conservatism            int
	EnableRepetitivePenalty bool
}

// rgbmCompartment reuses the ZHL-16C base with a folded microbubble f-factor
// and a seed population driving it.
type rgbmCompartment struct {
	Compartment
	row     zhl16cRow
	a, b    float64 // combined M-value coefficients
	fFactor float64
	seeds   float64
}

// RGBM folds bubble mechanics into the Haldanean 16-compartment base by
// scaling each compartment's M-value with its f-factor.
type RGBM struct {
	*core
	conservatism      int
	repetitivePenalty bool
	diveCount         int
	surfaceInterval   float64 // minutes, from the latest RegisterDive
	maxDepth          float64 // meters, deepest point of the current dive
	comps             []rgbmCompartment
}

// NewRGBM constructs an RGBM-folded model. Conservatism must be in [0,5];
// out-of-range values are rejected, not clamped.
func NewRGBM(p RGBMParams) (*RGBM, error) {
	if p.Conservatism < 0 || p.Conservatism > maxRGBMConservatism {
		return nil, fmt.Errorf("%w: RGBM conservatism %d outside [0,%d]",
			ErrInvalidParameter, p.Conservatism, maxRGBMConservatism)
	}
	m := &RGBM{
		conservatism:      p.Conservatism,
		repetitivePenalty: p.EnableRepetitivePenalty,
	}
	m.core = newCore(m)
	m.initCompartments()
	m.ResetToSurface()
	return m, nil
}

func (m *RGBM) initCompartments() {
	m.comps = make([]rgbmCompartment, len(zhl16c))
	for i, row := range zhl16c {
		m.comps[i] = rgbmCompartment{
			Compartment: Compartment{
				Number:     i + 1,
				N2HalfTime: row.n2HalfTime,
				HeHalfTime: row.heHalfTime,
			},
			row: row,
		}
	}
}

func (m *RGBM) Name() string {
	name := fmt.Sprintf("RGBM folded +%d", m.conservatism)
	if m.repetitivePenalty {
		name += " (repetitive)"
	}
	return name
}

func (m *RGBM) compartment(i int) *Compartment { return &m.comps[i].Compartment }
func (m *RGBM) compartmentCount() int          { return len(m.comps) }

func (m *RGBM) resetExtras() {
	m.diveCount = 0
	m.surfaceInterval = 0
	m.maxDepth = 0
	for i := range m.comps {
		ct := &m.comps[i]
		ct.seeds = rgbmSeedBaseline
		ct.a, ct.b = blendCoefficients(ct.N2Loading, ct.HeLoading, ct.row)
		ct.fFactor = m.fFactorFor(ct)
	}
}

func (m *RGBM) afterTissueCopy() {
	for i := range m.comps {
		ct := &m.comps[i]
		ct.a, ct.b = blendCoefficients(ct.N2Loading, ct.HeLoading, ct.row)
	}
}

// fFactorFor derives a compartment's microbubble multiplier from conservatism
// level, seed-density excess, and the maximum depth reached, clamped to
// [0.6, 1.0].
func (m *RGBM) fFactorFor(ct *rgbmCompartment) float64 {
	excess := math.Max(0, ct.seeds-rgbmSeedBaseline)
	f := 1 - rgbmConsPerLevel*float64(m.conservatism) -
		rgbmDepthCoeff*m.maxDepth - rgbmSeedCoeff*excess
	return math.Max(rgbmMinFFactor, math.Min(1, f))
}

func (m *RGBM) UpdateTissueLoadings(minutes float64) {
	if len(m.comps) == 0 {
		m.initCompartments()
		m.resetExtras()
	}
	amb := m.state.AmbientPressure
	if m.state.Depth > m.maxDepth {
		m.maxDepth = m.state.Depth
	}
	inspN2 := inspiredPressure(NitrogenFraction(m.state.Gas), amb)
	inspHe := inspiredPressure(m.state.Gas.He, amb)
	for i := range m.comps {
		ct := &m.comps[i]
		ct.N2Loading = haldaneStep(ct.N2Loading, inspN2, ct.N2HalfTime, minutes)
		ct.HeLoading = haldaneStep(ct.HeLoading, inspHe, ct.HeHalfTime, minutes)
		ct.a, ct.b = blendCoefficients(ct.N2Loading, ct.HeLoading, ct.row)

		// Seeds grow while the loading exceeds the f-scaled M-value and decay
		// back toward the baseline population otherwise, never below it.
		loading := TotalLoading(&ct.Compartment)
		if supersat := loading - amb; supersat > 0 && loading > ct.fFactor*(ct.a*amb+ct.b) {
			ct.seeds += rgbmSeedGrowthRate * supersat * minutes
		} else {
			decayed := rgbmSeedBaseline +
				(ct.seeds-rgbmSeedBaseline)*math.Exp(-minutes/rgbmSeedDecayTau)
			ct.seeds = math.Max(rgbmSeedBaseline, decayed)
		}
		ct.fFactor = m.fFactorFor(ct)
	}
	m.advanceTime(minutes)
}

// Ceiling inverts the f-factor-scaled M-value directly: the tolerated ambient
// pressure solves loading = f*(a*p + b). No gradient-factor interpolation.
func (m *RGBM) Ceiling() float64 {
	maxP := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		if ct.a <= 0 || ct.fFactor <= 0 {
			continue
		}
		p := (TotalLoading(&ct.Compartment)/ct.fFactor - ct.b) / ct.a
		if p > maxP {
			maxP = p
		}
	}
	return depthAtPressure(maxP)
}

func (m *RGBM) tolerate(depth float64, n2, he []float64) bool {
	amb := AmbientPressureAt(depth)
	for i := range m.comps {
		ct := &m.comps[i]
		a, b := blendCoefficients(n2[i], he[i], ct.row)
		if n2[i]+he[i] > ct.fFactor*(a*amb+b) {
			return false
		}
	}
	return true
}

// DecompressionStops runs the binary-search kernel, then extends each stop by
// the aggregate bubble-volume factor.
func (m *RGBM) DecompressionStops() []Stop {
	stops := m.searchStops(m.tolerate)
	if len(stops) == 0 {
		return nil
	}
	extension := 1 + rgbmStopExtension*m.bubbleVolumeExcess()
	for i := range stops {
		stops[i].Time = math.Ceil(stops[i].Time * extension)
	}
	return stops
}

// bubbleVolumeExcess is the aggregate seed volume above the baseline
// population, in baseline units.
func (m *RGBM) bubbleVolumeExcess() float64 {
	baseline := rgbmSeedBaseline * float64(len(m.comps))
	return math.Max(0, m.BubbleVolume()-baseline) / baseline
}

// BubbleVolume returns the aggregate normalized seed volume across all
// compartments.
func (m *RGBM) BubbleVolume() float64 {
	total := 0.0
	for i := range m.comps {
		total += m.comps[i].seeds
	}
	return total
}

// RegisterDive records a completed dive and the surface interval in minutes
// before the next one, feeding the repetitive-dive penalty.
func (m *RGBM) RegisterDive(surfaceIntervalMinutes float64) {
	m.diveCount++
	m.surfaceInterval = math.Max(0, surfaceIntervalMinutes)
}

// repetitiveFactor inflates risk for repetitive dives with short surface
// intervals; 1 when the penalty is disabled or no dives are registered.
func (m *RGBM) repetitiveFactor() float64 {
	if !m.repetitivePenalty || m.diveCount == 0 {
		return 1
	}
	return 1 + rgbmRepPenaltyCoeff*float64(m.diveCount)*
		math.Exp(-m.surfaceInterval/rgbmRepPenaltyTau)
}

// DCSRisk is the squared ratio of supersaturation to the f-allowed
// supersaturation, worst compartment, inflated by the repetitive-dive factor.
func (m *RGBM) DCSRisk() float64 {
	amb := m.state.AmbientPressure
	worst := 0.0
	for i := range m.comps {
		ct := &m.comps[i]
		loading := TotalLoading(&ct.Compartment)
		if loading <= amb {
			continue
		}
		allowed := ct.fFactor*(ct.a*amb+ct.b) - amb
		if allowed <= 0 {
			worst = 1
			break
		}
		if ratio := (loading - amb) / allowed; ratio > worst {
			worst = ratio
		}
	}
	return math.Min(100, 100*worst*worst*m.repetitiveFactor())
}

// FFactor returns the current microbubble f-factor of the 1-based
// compartment n.
func (m *RGBM) FFactor(n int) (float64, error) {
	if n < 1 || n > len(m.comps) {
		return 0, fmt.Errorf("%w: %d (valid 1..%d)", ErrCompartmentIndex, n, len(m.comps))
	}
	return m.comps[n-1].fFactor, nil
}
