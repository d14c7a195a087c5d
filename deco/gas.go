package deco

import "fmt"

// GasMix is a breathing gas described by its oxygen and helium fractions.
// The nitrogen fraction is derived, never stored; see NitrogenFraction.
type GasMix struct {
	O2 float64 // oxygen fraction, [0,1]
	He float64 // helium fraction, [0,1]
}

// Standard mixes.
var (
	Air   = GasMix{O2: 0.21, He: 0}
	EAN32 = GasMix{O2: 0.32, He: 0}
	EAN36 = GasMix{O2: 0.36, He: 0}
	// Trimix 21/35
	TMX2135 = GasMix{O2: 0.21, He: 0.35}
)

// NitrogenFraction returns the derived nitrogen fraction of a mix.
func NitrogenFraction(g GasMix) float64 {
	return 1 - g.O2 - g.He
}

// ValidGasMix reports whether fractions are non-negative and sum to at most 1.
func ValidGasMix(g GasMix) bool {
	return g.O2 >= 0 && g.He >= 0 && g.O2+g.He <= 1
}

func (g GasMix) String() string {
	if g.He > 0 {
		return fmt.Sprintf("TMX %.0f/%.0f", g.O2*100, g.He*100)
	}
	if g.O2 > 0.21 {
		return fmt.Sprintf("EAN%.0f", g.O2*100)
	}
	return "air"
}
