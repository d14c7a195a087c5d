package deco

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidModels is the set of recognized model names for profiles and the CLI.
var ValidModels = map[string]bool{
	"buhlmann": true, "vpm": true, "rgbm": true,
	"hills": true, "nmri98": true, "thalmann": true,
}

// GasMixConfig is the YAML shape of a gas mix.
type GasMixConfig struct {
	O2 float64 `yaml:"o2"`
	He float64 `yaml:"he"`
}

// Segment is one constant-depth leg of a dive profile. A nil Gas keeps the
// previous segment's mix; the first segment defaults to air.
type Segment struct {
	Depth float64       `yaml:"depth"`
	Time  float64       `yaml:"time"`
	Gas   *GasMixConfig `yaml:"gas"`
}

// Profile is a dive profile plus per-model parameters, loadable from a YAML
// file. Nil pointer fields mean "not set in YAML" and take model defaults.
type Profile struct {
	Model    string    `yaml:"model"`
	Segments []Segment `yaml:"segments"`

	GradientFactorLow  *float64 `yaml:"gradient_factor_low"`
	GradientFactorHigh *float64 `yaml:"gradient_factor_high"`
	Conservatism       *int     `yaml:"conservatism"`
	RepetitivePenalty  *bool    `yaml:"repetitive_penalty"`
	ConservatismFactor *float64 `yaml:"conservatism_factor"`
	CoreTemperature    *float64 `yaml:"core_temperature"`
	MetabolicRate      *float64 `yaml:"metabolic_rate"`
	Perfusion          *float64 `yaml:"perfusion_multiplier"`
	MaxDCSRisk         *float64 `yaml:"max_dcs_risk"`
	SafetyFactor       *float64 `yaml:"safety_factor"`
	OxygenTracking     *bool    `yaml:"oxygen_tracking"`
}

// LoadProfile reads and parses a YAML dive-profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// Validate checks the profile for a recognized model name, at least one
// segment, and physically meaningful segment values.
func (p *Profile) Validate() error {
	if p.Model != "" && !ValidModels[p.Model] {
		return fmt.Errorf("unknown model %q", p.Model)
	}
	if len(p.Segments) == 0 {
		return fmt.Errorf("profile has no segments")
	}
	for i, seg := range p.Segments {
		if seg.Time <= 0 {
			return fmt.Errorf("segment %d: time must be positive, got %g", i+1, seg.Time)
		}
		if seg.Depth < 0 {
			return fmt.Errorf("segment %d: depth must be non-negative, got %g", i+1, seg.Depth)
		}
		if seg.Gas != nil {
			mix := GasMix{O2: seg.Gas.O2, He: seg.Gas.He}
			if !ValidGasMix(mix) {
				return fmt.Errorf("segment %d: invalid gas mix o2=%g he=%g", i+1, seg.Gas.O2, seg.Gas.He)
			}
		}
	}
	return nil
}

// NewModel constructs the model the profile names, applying its parameter
// fields. An empty model name defaults to buhlmann.
func (p *Profile) NewModel() (Model, error) {
	name := p.Model
	if name == "" {
		name = "buhlmann"
	}
	switch name {
	case "buhlmann":
		low, high := 30.0, 85.0
		if p.GradientFactorLow != nil {
			low = *p.GradientFactorLow
		}
		if p.GradientFactorHigh != nil {
			high = *p.GradientFactorHigh
		}
		return NewBuhlmann(low, high)
	case "vpm":
		cons := 0
		if p.Conservatism != nil {
			cons = *p.Conservatism
		}
		return NewVPM(cons)
	case "rgbm":
		params := RGBMParams{}
		if p.Conservatism != nil {
			params.Conservatism = *p.Conservatism
		}
		if p.RepetitivePenalty != nil {
			params.EnableRepetitivePenalty = *p.RepetitivePenalty
		}
		return NewRGBM(params)
	case "hills":
		params := HillsParams{}
		if p.ConservatismFactor != nil {
			params.ConservatismFactor = *p.ConservatismFactor
		}
		if p.CoreTemperature != nil {
			params.CoreTemperature = *p.CoreTemperature
		}
		if p.MetabolicRate != nil {
			params.MetabolicRate = *p.MetabolicRate
		}
		if p.Perfusion != nil {
			params.PerfusionMultiplier = *p.Perfusion
		}
		return NewHills(params), nil
	case "nmri98":
		params := NMRI98Params{}
		if p.Conservatism != nil {
			params.Conservatism = *p.Conservatism
		}
		if p.MaxDCSRisk != nil {
			params.MaxDCSRisk = *p.MaxDCSRisk
		}
		if p.SafetyFactor != nil {
			params.SafetyFactor = *p.SafetyFactor
		}
		if p.OxygenTracking != nil {
			params.EnableOxygenTracking = *p.OxygenTracking
		}
		return NewNMRI98(params), nil
	case "thalmann":
		params := ThalmannParams{}
		if p.MaxDCSRisk != nil {
			params.MaxDCSRisk = *p.MaxDCSRisk
		}
		if p.SafetyFactor != nil {
			params.SafetyFactor = *p.SafetyFactor
		}
		if p.GradientFactorLow != nil {
			params.GradientFactorLow = *p.GradientFactorLow
		}
		if p.GradientFactorHigh != nil {
			params.GradientFactorHigh = *p.GradientFactorHigh
		}
		return NewThalmann(params), nil
	default:
		return nil, fmt.Errorf("unknown model %q", name)
	}
}
