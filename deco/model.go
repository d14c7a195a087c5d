package deco

import (
	"fmt"
)

// Stop is one immutable element of a decompression plan.
type Stop struct {
	Depth float64 // meters
	Time  float64 // minutes
	Gas   GasMix
}

// Model is the public contract shared by all six kinetics variants.
type Model interface {
	// Name identifies the model including its active conservatism parameters.
	Name() string

	// State returns the current dive state.
	State() DiveState

	// UpdateDiveState merges the non-nil fields of u into the dive state.
	// A depth change recomputes ambient pressure.
	UpdateDiveState(u StateUpdate)

	// UpdateTissueLoadings advances every compartment by the given number of
	// minutes using the model's kinetics. Repeated calls accumulate time.
	UpdateTissueLoadings(minutes float64)

	// Ceiling returns the minimum safe depth in meters given current
	// loadings; 0 means direct ascent to the surface is safe.
	Ceiling() float64

	// DecompressionStops returns the raw stop schedule, deepest first, on a
	// 3 m grid. Empty when the ceiling is 0.
	DecompressionStops() []Stop

	// ConsolidatedStops merges the raw stops onto a 5 m grid (depths rounded
	// up, times summed), deepest first.
	ConsolidatedStops() []Stop

	// CanAscendDirectly reports whether the ceiling is at or above the surface.
	CanAscendDirectly() bool

	// DCSRisk returns the model's heuristic risk score in [0,100].
	DCSRisk() float64

	// TTS returns total minutes to surface at the given ascent rate (m/min)
	// honoring the consolidated stop schedule. Non-positive rates default to
	// DefaultAscentRate.
	TTS(ascentRate float64) float64

	// ResetToSurface restores surface equilibrium in every compartment,
	// reinitializes model-specific extras, and resets the dive state.
	ResetToSurface()

	// CopyTissueStateFrom copies the other model's dive state and compartment
	// nitrogen/helium loadings. Fails unless compartment counts match.
	CopyTissueStateFrom(other Model) error

	// CompartmentCount returns the number of tissue compartments.
	CompartmentCount() int

	// Compartment returns the shared loading state of the 1-based compartment
	// n, or ErrCompartmentIndex when n is out of range.
	Compartment(n int) (*Compartment, error)
}

// kinetics is the hook surface each variant supplies to the shared kernel.
// The kernel reaches compartments only through it and never touches
// variant-private fields.
type kinetics interface {
	Name() string
	UpdateTissueLoadings(minutes float64)
	Ceiling() float64
	DecompressionStops() []Stop
	DCSRisk() float64

	// compartment returns the shared part of the 0-based compartment i.
	compartment(i int) *Compartment
	compartmentCount() int
	// stepLoadings advances hypothetical loadings held at a depth for the
	// given minutes using the variant's own step kinetics. The slices are
	// modified in place; live compartments are never touched.
	stepLoadings(n2, he []float64, depth, minutes float64)
	// resetExtras restores variant-specific mutable fields to their
	// construction values.
	resetExtras()
	// afterTissueCopy recomputes variant-derived fields after a tissue-state
	// copy. It must not alter loadings.
	afterTissueCopy()
}

// core holds the dive state and implements the kernel half of Model. Every
// variant embeds a *core wired back to itself through the kinetics interface.
type core struct {
	state DiveState
	k     kinetics
}

func newCore(k kinetics) *core {
	return &core{state: surfaceState(), k: k}
}

func (c *core) State() DiveState { return c.state }

func (c *core) UpdateDiveState(u StateUpdate) {
	if u.Time != nil {
		c.state.Time = *u.Time
	}
	if u.Gas != nil {
		c.state.Gas = *u.Gas
	}
	if u.Depth != nil {
		c.state.Depth = *u.Depth
		c.state.AmbientPressure = AmbientPressureAt(*u.Depth)
	}
}

// advanceTime accumulates elapsed dive time; called by every variant at the
// end of UpdateTissueLoadings.
func (c *core) advanceTime(minutes float64) {
	c.state.Time += minutes
}

func (c *core) CanAscendDirectly() bool {
	return c.k.Ceiling() <= 0
}

func (c *core) ConsolidatedStops() []Stop {
	return consolidateStops(c.k.DecompressionStops())
}

func (c *core) TTS(ascentRate float64) float64 {
	if ascentRate <= 0 {
		ascentRate = DefaultAscentRate
	}
	return ttsFromStops(c.state.Depth, c.ConsolidatedStops(), ascentRate)
}

func (c *core) ResetToSurface() {
	for i := 0; i < c.k.compartmentCount(); i++ {
		c.k.compartment(i).resetToSurfaceEquilibrium()
	}
	c.k.resetExtras()
	c.state = surfaceState()
}

func (c *core) CopyTissueStateFrom(other Model) error {
	n := c.k.compartmentCount()
	if other.CompartmentCount() != n {
		return fmt.Errorf("%w: have %d, other has %d",
			ErrCompartmentMismatch, n, other.CompartmentCount())
	}
	c.state = other.State()
	for i := 0; i < n; i++ {
		src, err := other.Compartment(i + 1)
		if err != nil {
			return err
		}
		dst := c.k.compartment(i)
		dst.N2Loading = src.N2Loading
		dst.HeLoading = src.HeLoading
	}
	c.k.afterTissueCopy()
	return nil
}

func (c *core) CompartmentCount() int {
	return c.k.compartmentCount()
}

func (c *core) Compartment(n int) (*Compartment, error) {
	if n < 1 || n > c.k.compartmentCount() {
		return nil, fmt.Errorf("%w: %d (valid 1..%d)",
			ErrCompartmentIndex, n, c.k.compartmentCount())
	}
	return c.k.compartment(n - 1), nil
}
