package deco

// Compartment is the gas-loading state common to every model variant.
// Variants embed it in their own compartment structs alongside their fixed
// parameters and extra mutable fields; the kernel only ever sees this part.
type Compartment struct {
	Number     int     // 1-based compartment identity
	N2HalfTime float64 // nitrogen half-time, minutes
	HeHalfTime float64 // helium half-time, minutes
	N2Loading  float64 // nitrogen tension, bar
	HeLoading  float64 // helium tension, bar
}

// TotalLoading returns the combined inert-gas tension of a compartment.
func TotalLoading(c *Compartment) float64 {
	return c.N2Loading + c.HeLoading
}

// resetToSurfaceEquilibrium puts a compartment at surface saturation on air.
func (c *Compartment) resetToSurfaceEquilibrium() {
	c.N2Loading = SurfaceN2Loading
	c.HeLoading = 0
}
