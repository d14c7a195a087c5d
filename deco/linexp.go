package deco

import (
	"fmt"
	"math"
)

// leRow holds the fixed parameters of one linear-exponential compartment:
// per-gas half-times, a surface M-value, the linear-elimination slope, the
// crossover supersaturation, and the oxygen-contribution threshold.
type leRow struct {
	name          string
	n2HalfTime    float64
	heHalfTime    float64
	o2HalfTime    float64
	mValue        float64 // bar, maximum tolerated tension at the surface
	slope         float64 // linear-elimination slope
	crossover     float64 // bar of supersaturation where kinetics switch
	o2Threshold   float64 // bar of oxygen tension before it contributes
	primaryLinear bool    // linear elimination for any supersaturation
}

// leCompartment is the mutable state of a linear-exponential compartment.
type leCompartment struct {
	Compartment
	row       leRow
	O2Loading float64 // bar; advanced only when oxygen tracking is enabled
}

// leStep advances one gas tension. Uptake is always exponential; elimination
// is exponential while supersaturation stays at or below the crossover and
// linear above it, at a constant rate set by the supersaturation on entry. A
// linear phase that reaches the crossover loading mid-interval finishes the
// interval exponentially. A primary-linear compartment eliminates linearly for
// any supersaturation.
func leStep(old, inspired, amb, halfTime, slope, crossover float64, primaryLinear bool, minutes float64) float64 {
	if old <= inspired {
		return haldaneStep(old, inspired, halfTime, minutes)
	}
	if primaryLinear {
		crossover = 0
	}
	supersat := old - amb
	if supersat <= crossover {
		return haldaneStep(old, inspired, halfTime, minutes)
	}
	rate := slope * supersat / halfTime
	floor := amb + crossover
	if toFloor := (old - floor) / rate; toFloor < minutes {
		return haldaneStep(floor, inspired, halfTime, minutes-toFloor)
	}
	return old - rate*minutes
}

// leBase is the kernel-adjacent state shared by the NMRI98 and Thalmann
// variants: the three compartments and the common update/accessor plumbing.
type leBase struct {
	*core
	comps   []leCompartment
	trackO2 bool
}

func (b *leBase) initCompartments(table []leRow) {
	b.comps = make([]leCompartment, len(table))
	for i, row := range table {
		b.comps[i] = leCompartment{
			Compartment: Compartment{
				Number:     i + 1,
				N2HalfTime: row.n2HalfTime,
				HeHalfTime: row.heHalfTime,
			},
			row: row,
		}
	}
}

func (b *leBase) compartment(i int) *Compartment { return &b.comps[i].Compartment }
func (b *leBase) compartmentCount() int          { return len(b.comps) }

func (b *leBase) resetExtras() {
	for i := range b.comps {
		b.comps[i].O2Loading = inspiredPressure(Air.O2, SurfacePressure)
	}
}

func (b *leBase) afterTissueCopy() {}

func (b *leBase) updateLoadings(minutes float64) {
	amb := b.state.AmbientPressure
	g := b.state.Gas
	inspN2 := inspiredPressure(NitrogenFraction(g), amb)
	inspHe := inspiredPressure(g.He, amb)
	for i := range b.comps {
		ct := &b.comps[i]
		r := ct.row
		ct.N2Loading = leStep(ct.N2Loading, inspN2, amb, r.n2HalfTime, r.slope, r.crossover, r.primaryLinear, minutes)
		ct.HeLoading = leStep(ct.HeLoading, inspHe, amb, r.heHalfTime, r.slope, r.crossover, r.primaryLinear, minutes)
		if b.trackO2 {
			inspO2 := inspiredPressure(g.O2, amb)
			ct.O2Loading = leStep(ct.O2Loading, inspO2, amb, r.o2HalfTime, r.slope, r.crossover, r.primaryLinear, minutes)
		}
	}
	b.advanceTime(minutes)
}

// stepLoadings advances hypothetical loadings with the same linear-exponential
// step the live update runs, so hold probes see the linear elimination and its
// crossover floor. Tracked oxygen stays at its live value; a shallow hold only
// lowers it.
func (b *leBase) stepLoadings(n2, he []float64, depth, minutes float64) {
	amb := AmbientPressureAt(depth)
	g := b.state.Gas
	inspN2 := inspiredPressure(NitrogenFraction(g), amb)
	inspHe := inspiredPressure(g.He, amb)
	for i := range n2 {
		r := b.comps[i].row
		n2[i] = leStep(n2[i], inspN2, amb, r.n2HalfTime, r.slope, r.crossover, r.primaryLinear, minutes)
		he[i] = leStep(he[i], inspHe, amb, r.heHalfTime, r.slope, r.crossover, r.primaryLinear, minutes)
	}
}

// o2Excess is the oxygen tension above a compartment's contribution
// threshold; 0 when oxygen tracking is disabled.
func (b *leBase) o2Excess(i int) float64 {
	if !b.trackO2 {
		return 0
	}
	return math.Max(0, b.comps[i].O2Loading-b.comps[i].row.o2Threshold)
}

// allowedExcess is a compartment's tolerated tension above ambient given a
// conservatism scale applied to its M-value margin.
func (ct *leCompartment) allowedExcess(scale float64) float64 {
	return (ct.row.mValue - SurfacePressure) * scale
}

// OxygenLoading returns the tracked oxygen tension of the 1-based
// compartment n.
func (b *leBase) OxygenLoading(n int) (float64, error) {
	if n < 1 || n > len(b.comps) {
		return 0, fmt.Errorf("%w: %d (valid 1..%d)", ErrCompartmentIndex, n, len(b.comps))
	}
	return b.comps[n-1].O2Loading, nil
}

// LinearKinetics describes a compartment's linear-elimination parameters.
type LinearKinetics struct {
	MValue        float64
	Slope         float64
	Crossover     float64
	PrimaryLinear bool
}

// LinearParameters returns the fixed linear-kinetics parameters of the
// 1-based compartment n.
func (b *leBase) LinearParameters(n int) (LinearKinetics, error) {
	if n < 1 || n > len(b.comps) {
		return LinearKinetics{}, fmt.Errorf("%w: %d (valid 1..%d)",
			ErrCompartmentIndex, n, len(b.comps))
	}
	r := b.comps[n-1].row
	return LinearKinetics{
		MValue:        r.mValue,
		Slope:         r.slope,
		Crossover:     r.crossover,
		PrimaryLinear: r.primaryLinear,
	}, nil
}
