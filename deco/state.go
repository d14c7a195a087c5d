package deco

// Pressure model constants. Depth-to-pressure conversion is fixed at
// 0.1 bar/m of water on top of standard surface pressure.
const (
	SurfacePressure  = 1.013 // bar
	BarPerMeter      = 0.1   // bar of hydrostatic pressure per meter of depth
	SurfaceN2Loading = 0.79 * SurfacePressure

	// DefaultAscentRate is the ascent rate assumed by TTS when the caller
	// passes a non-positive rate.
	DefaultAscentRate = 9.0 // m/min
)

// DiveState is the mutable dive context shared by every model instance.
// AmbientPressure is always recomputed from Depth; it is never set directly.
type DiveState struct {
	Depth           float64 // meters
	Time            float64 // accumulated dive time, minutes
	Gas             GasMix
	AmbientPressure float64 // bar
}

// StateUpdate is a partial DiveState merge. Nil fields mean "leave unchanged".
type StateUpdate struct {
	Depth *float64
	Time  *float64
	Gas   *GasMix
}

// AmbientPressureAt returns absolute pressure at a depth in meters.
func AmbientPressureAt(depth float64) float64 {
	return SurfacePressure + depth*BarPerMeter
}

// depthAtPressure inverts AmbientPressureAt, clamped at the surface.
func depthAtPressure(p float64) float64 {
	d := (p - SurfacePressure) / BarPerMeter
	if d < 0 {
		return 0
	}
	return d
}

// surfaceState returns the state of a freshly reset model: at the surface,
// zero elapsed time, breathing air.
func surfaceState() DiveState {
	return DiveState{
		Depth:           0,
		Time:            0,
		Gas:             Air,
		AmbientPressure: SurfacePressure,
	}
}

// inspiredPressure returns the inspired partial pressure of an inert gas
// fraction at ambient pressure. The alveolar water-vapor correction is
// deliberately omitted; all tolerance tables here are calibrated without it.
func inspiredPressure(fraction, ambient float64) float64 {
	return fraction * ambient
}
