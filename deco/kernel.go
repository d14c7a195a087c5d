package deco

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// Search bounds shared by every variant.
const (
	ceilingStep      = 0.3   // m, test-depth increment of the iterative search
	maxSearchDepth   = 200.0 // m, safety bound; never extrapolate below it
	maxStopTime      = 120.0 // min, horizon of the minimum-stop binary search
	stopTimeEps      = 0.1   // min, binary-search precision
	rawStopInterval  = 3.0   // m
	consolidatedGrid = 5.0   // m
)

// toleranceFn reports whether every compartment tolerates the given depth
// under the given hypothetical nitrogen/helium loadings. The slices are
// indexed like the variant's compartment array.
type toleranceFn func(depth float64, n2, he []float64) bool

// haldaneStep advances one gas tension by the closed-form solution of
// first-order exponential exchange: new = P + (old-P)*exp(-k*dt), k = ln2/halfTime.
func haldaneStep(old, inspired, halfTime, minutes float64) float64 {
	if halfTime <= 0 {
		return inspired
	}
	k := math.Ln2 / halfTime
	return inspired + (old-inspired)*math.Exp(-k*minutes)
}

// haldaneStepRate is haldaneStep with an explicit rate constant, for variants
// that modulate k (Arrhenius corrections).
func haldaneStepRate(old, inspired, k, minutes float64) float64 {
	return inspired + (old-inspired)*math.Exp(-k*minutes)
}

// loadingsSnapshot copies the live nitrogen/helium loadings into fresh slices.
func (c *core) loadingsSnapshot() (n2, he []float64) {
	n := c.k.compartmentCount()
	n2 = make([]float64, n)
	he = make([]float64, n)
	for i := 0; i < n; i++ {
		ct := c.k.compartment(i)
		n2[i] = ct.N2Loading
		he[i] = ct.HeLoading
	}
	return n2, he
}

// stepLoadings is the default hold kinetics for the Haldanean variants: plain
// exponential exchange with each compartment's half-times and the current gas.
// Variants with other elimination kinetics shadow it.
func (c *core) stepLoadings(n2, he []float64, depth, minutes float64) {
	amb := AmbientPressureAt(depth)
	inspN2 := inspiredPressure(NitrogenFraction(c.state.Gas), amb)
	inspHe := inspiredPressure(c.state.Gas.He, amb)
	for i := range n2 {
		ct := c.k.compartment(i)
		n2[i] = haldaneStep(n2[i], inspN2, ct.N2HalfTime, minutes)
		he[i] = haldaneStep(he[i], inspHe, ct.HeHalfTime, minutes)
	}
}

// simulateHold returns the loadings after holding a depth for the given time,
// starting from the supplied hypothetical loadings. The advance runs the
// variant's own step kinetics; live compartments are never touched.
func (c *core) simulateHold(n2, he []float64, depth, minutes float64) (simN2, simHe []float64) {
	simN2 = append([]float64(nil), n2...)
	simHe = append([]float64(nil), he...)
	c.k.stepLoadings(simN2, simHe, depth, minutes)
	return simN2, simHe
}

// iterativeCeiling steps a test depth upward from the surface in fixed
// increments until the live loadings are tolerated, for variants that cannot
// invert their tolerance formula directly. If nothing up to the safety bound
// is safe, it returns the smaller of the bound and the current depth.
func (c *core) iterativeCeiling(tol toleranceFn) float64 {
	n2, he := c.loadingsSnapshot()
	for depth := 0.0; depth <= maxSearchDepth; depth += ceilingStep {
		if tol(depth, n2, he) {
			return depth
		}
	}
	return math.Min(maxSearchDepth, c.state.Depth)
}

// minStopTime binary-searches the minimum whole-minute hold at stopDepth,
// starting from the given hypothetical loadings, before ascent to nextDepth
// is tolerated. Probes simulate on throwaway copies only. Result is at least
// one minute; if even the full horizon does not clear the ascent, the horizon
// is returned.
func (c *core) minStopTime(n2, he []float64, stopDepth, nextDepth float64, tol toleranceFn) float64 {
	probe := func(minutes float64) bool {
		simN2, simHe := c.simulateHold(n2, he, stopDepth, minutes)
		return tol(nextDepth, simN2, simHe)
	}
	if !probe(maxStopTime) {
		return maxStopTime
	}
	lo, hi := 0.0, maxStopTime
	for hi-lo > stopTimeEps {
		mid := (lo + hi) / 2
		if probe(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return math.Max(1, math.Ceil(hi))
}

// searchStops derives the raw stop schedule for a tolerance function using
// the binary-search kernel. The walk runs entirely on loading copies.
func (c *core) searchStops(tol toleranceFn) []Stop {
	ceiling := c.k.Ceiling()
	if ceiling <= 0 {
		return nil
	}
	n2, he := c.loadingsSnapshot()
	var stops []Stop
	for stopDepth := roundUpTo(ceiling, rawStopInterval); stopDepth > 0; stopDepth -= rawStopInterval {
		next := stopDepth - rawStopInterval
		t := c.minStopTime(n2, he, stopDepth, next, tol)
		stops = append(stops, Stop{Depth: stopDepth, Time: t, Gas: c.state.Gas})
		logrus.Debugf("%s: stop %.0fm for %.0fmin", c.k.Name(), stopDepth, t)
		n2, he = c.simulateHold(n2, he, stopDepth, t)
	}
	return stops
}

// consolidateStops merges raw 3 m-interval stops onto a 5 m grid. Depths are
// rounded up to the next multiple of 5 and coinciding stops have their times
// summed; the result is sorted deepest first. Total stop time is preserved.
func consolidateStops(raw []Stop) []Stop {
	if len(raw) == 0 {
		return nil
	}
	byDepth := make(map[float64]*Stop)
	for _, s := range raw {
		depth := roundUpTo(s.Depth, consolidatedGrid)
		if merged, ok := byDepth[depth]; ok {
			merged.Time += s.Time
		} else {
			byDepth[depth] = &Stop{Depth: depth, Time: s.Time, Gas: s.Gas}
		}
	}
	out := make([]Stop, 0, len(byDepth))
	for _, s := range byDepth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

// ttsFromStops sums the ascent segments and stop times from the current depth
// through a deepest-first stop schedule to the surface.
func ttsFromStops(depth float64, stops []Stop, rate float64) float64 {
	if len(stops) == 0 {
		return depth / rate
	}
	total := math.Max(0, depth-stops[0].Depth) / rate
	for i, s := range stops {
		total += s.Time
		next := 0.0
		if i+1 < len(stops) {
			next = stops[i+1].Depth
		}
		total += math.Max(0, s.Depth-next) / rate
	}
	return total
}

// roundUpTo rounds x up to the next multiple of step, tolerating float noise
// just below an exact multiple.
func roundUpTo(x, step float64) float64 {
	n := math.Ceil(x/step - 1e-9)
	if n < 1 {
		n = 1
	}
	return n * step
}
